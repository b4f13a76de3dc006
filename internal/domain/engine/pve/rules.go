package pve

import (
	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/drugs"
	"github.com/neuroped/cds/internal/domain/patient"
)

// Contribution of a fired rule by alert severity.
const (
	criticalDelta = 25
	warningDelta  = 10
)

type view struct {
	p  patient.Snapshot
	in Intention
}

func (v view) count(pred func(drugs.Profile) bool) int { return v.in.Drugs.Count(pred) }

func hepatotoxic(p drugs.Profile) bool   { return p.Hepatotoxic }
func cnsDepressant(p drugs.Profile) bool { return p.CNSDepressant }
func antimicrobial(p drugs.Profile) bool { return p.Antimicrobial() }
func immunosuppressive(p drugs.Profile) bool {
	return p.Immunosuppressive()
}

// cocktail holds the drug-drug and drug-patient interactions.
var cocktail = []engine.Rule[view]{
	{
		ID:       "pve-valproate-carbapenem",
		Citation: "Mancl & Gidal, Ann Pharmacother 2009",
		Guard: func(v view) bool {
			return v.in.Drugs.Has("valproate") && v.in.Drugs.HasClass(drugs.ClassCarbapenem)
		},
		Delta: criticalDelta,
		Alert: engine.Critical("Valproate with carbapenem", "Carbapenems drop valproate levels within 24h; risk of seizure breakthrough."),
		Recommendation: engine.Urgent("Replace the carbapenem or the valproate",
			"The interaction cannot be overcome by dose increase."),
	},
	{
		ID:       "pve-propofol-ketogenic",
		Citation: "Baumeister et al., Neuropediatrics 2004",
		Guard: func(v view) bool {
			return v.in.Drugs.Has("propofol") && v.in.Drugs.Has("ketogenic_diet")
		},
		Delta: criticalDelta,
		Alert: engine.Critical("Propofol with ketogenic diet", "High risk of propofol infusion syndrome."),
	},
	{
		ID:       "pve-valproate-infant",
		Citation: "Bryant & Dreifuss, Neurology 1996",
		Guard: func(v view) bool {
			return v.in.Drugs.Has("valproate") && v.p.AgeMonths < 24
		},
		Delta: criticalDelta,
		Alert: engine.Critical("Valproate under 24 months", "Highest risk of fatal hepatotoxicity; exclude mitochondrial disease (POLG)."),
	},
	{
		ID:       "pve-hepatotoxic-load",
		Citation: "LiverTox, NIDDK",
		Guard:    func(v view) bool { return v.count(hepatotoxic) >= 3 },
		Delta:    warningDelta,
		Alert:    engine.Warning("Cumulative hepatotoxicity", "Three or more hepatotoxic agents."),
		Recommendation: engine.Routine("Monitor liver function daily",
			"Transaminases, bilirubin and ammonia while the combination lasts."),
	},
	{
		ID:       "pve-vanco-aminoglycoside",
		Citation: "Rybak et al., Am J Health Syst Pharm 2020",
		Guard: func(v view) bool {
			return v.in.Drugs.Has("vancomycin") && v.in.Drugs.HasClass(drugs.ClassAminoglycoside)
		},
		Delta: warningDelta,
		Alert: engine.Warning("Vancomycin with aminoglycoside", "Additive nephrotoxicity."),
		Recommendation: engine.Routine("Therapeutic drug monitoring",
			"Trough levels and creatinine every 48h."),
	},
	{
		ID:       "pve-cns-depressants",
		Citation: "FDA Drug Safety Communication 2016",
		Guard:    func(v view) bool { return v.count(cnsDepressant) >= 3 },
		Delta:    warningDelta,
		Alert:    engine.Warning("Stacked CNS depressants", "Three or more sedating agents blur neurological assessment."),
	},
	{
		ID:       "pve-aspirin-ibuprofen",
		Citation: "Catella-Lawson et al., N Engl J Med 2001",
		Guard: func(v view) bool {
			return v.in.Drugs.Has("aspirin") && v.in.Drugs.Has("ibuprofen")
		},
		Delta: warningDelta,
		Alert: engine.Warning("Aspirin with ibuprofen", "Ibuprofen blocks the antiplatelet effect of aspirin and adds bleeding risk."),
	},
}

// immunity holds the immunosuppressant-specific checks.
var immunity = []engine.Rule[view]{
	{
		ID:       "pve-immunosuppression-infection",
		Citation: "IDSA immunocompromised host guideline 2013",
		Guard: func(v view) bool {
			return v.in.Immunosuppression != ImmunoNone && engine.InfectionSuspected(v.p)
		},
		Delta: criticalDelta,
		Alert: engine.Critical("Immunosuppression during active infection", "Immunosuppressive therapy with markers of active infection."),
		Recommendation: engine.Urgent("Review immunosuppression against infection control",
			"Confirm anti-infective cover before any further escalation."),
	},
	{
		ID:       "pve-immunosuppression-uncovered",
		Citation: "IDSA immunocompromised host guideline 2013",
		Guard: func(v view) bool {
			return v.count(immunosuppressive) >= 2 && v.count(antimicrobial) == 0
		},
		Delta: warningDelta,
		Alert: engine.Warning("Combined immunosuppression without prophylaxis", "Two or more immunosuppressants and no anti-infective cover."),
		Recommendation: engine.Routine("Start Pneumocystis prophylaxis",
			"Co-trimoxazole is indicated under combined immunosuppression."),
	},
	{
		ID:       "pve-ivig-plex",
		Citation: "ASFA guidelines 2019",
		Guard: func(v view) bool {
			return v.in.Drugs.HasClass(drugs.ClassIVIG) && v.in.Drugs.HasClass(drugs.ClassPlasmaExchange)
		},
		Delta: warningDelta,
		Alert: engine.Warning("IVIG with plasma exchange", "Plasma exchange removes circulating immunoglobulin; sequence IVIG after the last exchange."),
	},
	{
		ID:       "pve-il6-masks-crp",
		Citation: "tocilizumab SmPC",
		Guard:    func(v view) bool { return v.in.Drugs.Has("tocilizumab") },
		Alert:    engine.Info("CRP unreliable under IL-6 blockade", "Tocilizumab suppresses CRP; rely on clinical signs and procalcitonin."),
	},
	{
		ID:       "pve-pims-aspirin-thrombocytopenia",
		Citation: "ACR MIS-C guidance 2022",
		Guard: func(v view) bool {
			return v.p.Syndromes.PIMSConfirmed && v.in.Drugs.Has("aspirin") && v.p.Platelets < engine.Thrombocytopenia
		},
		Delta: warningDelta,
		Alert: engine.Warning("Aspirin in PIMS with thrombocytopenia", "Hold low-dose aspirin while platelets are below 100 G/L."),
	},
}
