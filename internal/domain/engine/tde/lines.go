package tde

import (
	"strconv"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

type view struct {
	p   patient.Snapshot
	in  Intention
	vps score.Level
}

// failed reports a line that was given while the disease is still active.
func (v view) failed(line int) bool {
	return v.in.Given[line-1] && v.in.Control != ControlControlled
}

type treeStep struct {
	Line     int
	Base     float64
	Citation string
	Allowed  func(view) bool
	Rec      score.Recommendation
}

// tree is ordered from first to last line; the first allowed entry wins.
// The last line has no precondition.
var tree = []treeStep{
	{
		Line:     1,
		Base:     5,
		Citation: "Titulaer et al., Lancet Neurol 2013; ILAE SE algorithm 2015",
		Allowed: func(v view) bool {
			return v.vps.Rank() <= score.LevelModerate.Rank() && v.in.Control != ControlRefractory && !v.failed(1)
		},
		Rec: score.Recommendation{
			Title:     "First-line therapy",
			Rationale: "Benzodiazepine for active seizures; high-dose methylprednisolone with or without IVIG when autoimmune etiology is suspected.",
			Priority:  score.PriorityRoutine,
		},
	},
	{
		Line:     2,
		Base:     35,
		Citation: "Glauser et al., Epilepsy Curr 2016; Dalmau et al., Lancet Neurol 2019",
		Allowed: func(v view) bool {
			return v.vps.Rank() <= score.LevelSevere.Rank() && v.in.Control != ControlRefractory && !v.failed(2)
		},
		Rec: score.Recommendation{
			Title:     "Second-line therapy",
			Rationale: "Add a second anti-seizure medication (levetiracetam, phenytoin or valproate); plasma exchange when immunotherapy response is insufficient.",
			Priority:  score.PriorityUrgent,
		},
	},
	{
		Line:     3,
		Base:     55,
		Citation: "Nosadini et al., Neurology 2021",
		Allowed: func(v view) bool {
			return !(v.in.Control == ControlRefractory && v.vps == score.LevelCritical) && !v.failed(3)
		},
		Rec: score.Recommendation{
			Title:     "Immunomodulation escalation",
			Rationale: "Rituximab or cyclophosphamide; anakinra when a hyperinflammatory or FIRES picture is present.",
			Priority:  score.PriorityUrgent,
		},
	},
	{
		Line:     4,
		Base:     75,
		Citation: "Gaspard et al., Epilepsia 2018 (NORSE/FIRES consensus)",
		Allowed:  func(view) bool { return true },
		Rec: score.Recommendation{
			Title:     "ICU rescue therapy",
			Rationale: "Continuous anaesthetic infusion under EEG; consider ketogenic diet and tocilizumab.",
			Priority:  score.PriorityUrgent,
		},
	},
}

// LineID is the rule id recorded for a selected line.
func LineID(line int) string { return "tde-line-" + strconv.Itoa(line) }

// selectLine walks the decision tree and returns its outcome. Exactly one
// line is selected.
func selectLine(v view) (int, engine.RulesOutcome) {
	for _, step := range tree {
		if !step.Allowed(v) {
			continue
		}
		id := LineID(step.Line)
		rec := step.Rec
		rec.Source = score.EngineTDE
		rec.Rule = id
		return step.Line, engine.RulesOutcome{
			Layer: score.Layer{
				Fired:   []score.FiredRule{{ID: id, Citation: step.Citation, Contribution: step.Base}},
				Partial: step.Base,
				Flag:    step.Line >= 3,
			},
			Recommendations: []score.Recommendation{rec},
		}
	}
	// unreachable: the last line is always allowed
	return 0, engine.RulesOutcome{}
}
