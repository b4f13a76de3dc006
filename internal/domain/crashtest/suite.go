package crashtest

import (
	"github.com/neuroped/cds/internal/domain/scenario"
	"github.com/neuroped/cds/internal/domain/score"
)

// DefaultSuite is the clinical regression battery over the built-in
// scenarios.
func DefaultSuite() Suite {
	return Suite{
		{Scenario: scenario.FIRES, Checks: []Check{
			ScoreRange(score.EngineVPS, 70, 100),
			LevelIs(score.EngineVPS, score.LevelCritical),
			RuleFired(score.EngineVPS, "vps-rse"),
			RuleFired(score.EngineTDE, "tde-fires"),
			RuleFired(score.EngineTDE, "tde-line-4"),
			Emergency(true),
			MinAlerts(3),
		}},
		{Scenario: scenario.NMDAR, Checks: []Check{
			ScoreRange(score.EngineVPS, 15, 35),
			RuleFired(score.EngineTDE, "tde-nmdar"),
			RuleFired(score.EngineTDE, "tde-line-3"),
			NoCriticalAlerts(),
			Emergency(false),
		}},
		{Scenario: scenario.Cytokine, Checks: []Check{
			ScoreRange(score.EngineVPS, 55, 75),
			LevelIs(score.EngineVPS, score.LevelSevere),
			RuleFired(score.EngineVPS, "vps-shock"),
			RuleFired(score.EngineVPS, "vps-hyperinflammation"),
			RuleFired(score.EngineTDE, "tde-cytokine-storm"),
			RuleFired(score.EnginePVE, "pve-pims-aspirin-thrombocytopenia"),
			Emergency(true),
		}},
		{Scenario: scenario.Stable, Checks: []Check{
			ScoreRange(score.EngineVPS, 0, 10),
			LevelIs(score.EngineVPS, score.LevelStable),
			LevelIs(score.EngineTDE, score.LevelStable),
			LevelIs(score.EnginePVE, score.LevelStable),
			LevelIs(score.EngineEWE, score.LevelStable),
			LevelIs(score.EngineTPE, score.LevelStable),
			RuleNotFired(score.EngineEWE, "ewe-curve-worsening"),
			NoCriticalAlerts(),
			Emergency(false),
		}},
		{Scenario: scenario.MOG, Checks: []Check{
			LevelIs(score.EngineVPS, score.LevelStable),
			RuleFired(score.EngineTDE, "tde-mog"),
			RuleFired(score.EngineTDE, "tde-line-2"),
			Emergency(false),
		}},
		{Scenario: scenario.Cocktail, Checks: []Check{
			RuleFired(score.EnginePVE, "pve-valproate-carbapenem"),
			RuleFired(score.EnginePVE, "pve-valproate-infant"),
			RuleFired(score.EnginePVE, "pve-vanco-aminoglycoside"),
			LevelIs(score.EnginePVE, score.LevelCritical),
			RuleNotFired(score.EngineTDE, "tde-infection-uncovered"),
			MinAlerts(3),
		}},
		{Scenario: scenario.Deterioration, Checks: []Check{
			LevelIs(score.EngineVPS, score.LevelModerate),
			RuleFired(score.EngineVPS, "vps-curve-worsening"),
			RuleFired(score.EngineEWE, "ewe-curve-worsening"),
			RuleFired(score.EngineEWE, "ewe-curve-drop"),
			ScoreRange(score.EngineEWE, 45, 70),
			MinAlerts(2),
		}},
		{Scenario: scenario.Flat, Checks: []Check{
			LevelIs(score.EngineVPS, score.LevelStable),
			RuleNotFired(score.EngineVPS, "vps-curve-worsening"),
			RuleNotFired(score.EngineEWE, "ewe-curve-drop"),
			NoAlertFromRule("ewe-curve-worsening"),
			Emergency(false),
		}},
		{Scenario: scenario.Refractory, Checks: []Check{
			LevelIs(score.EngineVPS, score.LevelCritical),
			RuleFired(score.EngineTDE, "tde-line-4"),
			RuleNotFired(score.EngineTDE, "tde-rse-no-anaesthetic"),
			RuleFired(score.EnginePVE, "pve-propofol-ketogenic"),
			RuleFired(score.EnginePVE, "pve-cns-depressants"),
			Emergency(true),
		}},
	}
}
