package tde

import (
	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/drugs"
)

var rules = []engine.Rule[view]{
	{
		ID:       "tde-nmdar",
		Citation: "Titulaer et al., Lancet Neurol 2013",
		Guard:    func(v view) bool { return v.in.Etiology == EtiologyNMDAR },
		Delta:    5,
		Alert:    engine.Info("Anti-NMDAR encephalitis", "CSF anti-NMDAR antibodies detected."),
		Recommendation: engine.Routine("Tumour screening",
			"Pelvic ultrasound or MRI for ovarian teratoma; testicular ultrasound in boys."),
	},
	{
		ID:       "tde-mog",
		Citation: "Armangue et al., Lancet Neurol 2020",
		Guard:    func(v view) bool { return v.in.Etiology == EtiologyMOG },
		Delta:    3,
		Recommendation: engine.Routine("Spinal and orbital MRI",
			"MOG antibody disease commonly involves the optic nerves and spinal cord."),
	},
	{
		ID:       "tde-fires",
		Citation: "Gaspard et al., Epilepsia 2018",
		Guard:    func(v view) bool { return v.in.Etiology == EtiologyFIRES },
		Delta:    10,
		Alert:    engine.Warning("FIRES pattern", "Refractory seizures after a febrile illness."),
		Recommendation: engine.Urgent("Early ketogenic diet and anakinra",
			"Early metabolic and IL-1 directed therapy shortens anaesthetic exposure in FIRES."),
	},
	{
		ID:       "tde-rse-no-anaesthetic",
		Citation: "Neurocritical Care Society SE guideline 2012",
		Guard: func(v view) bool {
			return v.in.Control == ControlRefractory && !v.in.Drugs.HasClass(drugs.ClassAnaesthetic)
		},
		Delta: 15,
		Alert: engine.Critical("Refractory status without anaesthetic infusion", "No continuous anaesthetic agent is recorded."),
		Recommendation: engine.Urgent("Start continuous anaesthetic infusion",
			"Midazolam, ketamine or barbiturate infusion titrated to EEG burst suppression."),
	},
	{
		ID:       "tde-seizures-no-benzo",
		Citation: "ILAE SE algorithm 2015",
		Guard: func(v view) bool {
			return v.in.Control != ControlControlled && !v.in.Drugs.HasClass(drugs.ClassBenzodiazepine)
		},
		Delta: 8,
		Alert: engine.Warning("Active seizures without benzodiazepine", "No benzodiazepine is recorded."),
		Recommendation: engine.Urgent("Give a benzodiazepine",
			"Midazolam or lorazepam is the first step for ongoing seizures."),
	},
	{
		ID:       "tde-infection-uncovered",
		Citation: "Tunkel et al., Clin Infect Dis 2008 (IDSA encephalitis)",
		Guard: func(v view) bool {
			return engine.InfectionSuspected(v.p) &&
				v.in.Drugs.Count(func(p drugs.Profile) bool { return p.Antimicrobial() }) == 0
		},
		Delta: 8,
		Alert: engine.Warning("Suspected infection without anti-infective cover", "Markers suggest infection and no antimicrobial is recorded."),
		Recommendation: engine.Urgent("Empirical acyclovir and third-generation cephalosporin",
			"Cover HSV and bacterial meningoencephalitis until cultures and PCR return."),
	},
	{
		ID:       "tde-cytokine-storm",
		Citation: "Ravelli et al., Arthritis Rheumatol 2016",
		Guard:    func(v view) bool { return engine.Hyperinflammatory(v.p) },
		Delta:    8,
		Alert:    engine.Warning("Cytokine storm", "Hyperinflammatory markers may drive neuroinflammation."),
		Recommendation: engine.Urgent("Consider IL-1 blockade",
			"Anakinra is first choice in macrophage activation and hyperferritinaemic states."),
	},
}
