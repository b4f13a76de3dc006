package vps

import (
	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/patient"
)

type view struct {
	p  patient.Snapshot
	in Intention
}

var rules = []engine.Rule[view]{
	{
		ID:       "vps-rse",
		Citation: "Neurocritical Care Society SE guideline 2012",
		Guard:    func(v view) bool { return v.in.Seizures == BurdenRefractory },
		Delta:    15,
		Alert:    engine.Critical("Refractory status epilepticus", "Seizures persist despite first- and second-line treatment."),
		Recommendation: engine.Urgent("Transfer to PICU for continuous EEG",
			"Refractory status requires anaesthetic-level control under continuous monitoring."),
	},
	{
		ID:       "vps-coma",
		Citation: "Teasdale & Jennett, Lancet 1974",
		Guard:    func(v view) bool { return v.in.Consciousness == ConsciousnessComa },
		Delta:    10,
		Alert:    engine.Critical("Coma (GCS 8 or less)", "Airway protection reflexes are no longer reliable."),
		Recommendation: engine.Urgent("Secure the airway",
			"GCS 8 or less warrants intubation assessment."),
	},
	{
		ID:       "vps-pupils-bilateral",
		Citation: "Brain Trauma Foundation pediatric guideline 2019",
		Guard:    func(v view) bool { return v.p.Pupils == patient.PupilsFixedBoth },
		Delta:    20,
		Alert:    engine.Critical("Bilateral fixed pupils", "Suspect brainstem compromise or herniation."),
		Recommendation: engine.Urgent("Emergency neuroimaging and ICP management",
			"Bilateral areactive pupils require immediate exclusion of herniation."),
	},
	{
		ID:       "vps-pupil-unilateral",
		Citation: "Brain Trauma Foundation pediatric guideline 2019",
		Guard:    func(v view) bool { return v.p.Pupils == patient.PupilsFixedOne },
		Delta:    10,
		Alert:    engine.Critical("Unilateral fixed pupil", "Suspect uncal herniation or focal mass effect."),
	},
	{
		ID:       "vps-shock",
		Citation: "Surviving Sepsis Campaign pediatric guideline 2020",
		Guard:    func(v view) bool { return v.in.Hemodynamics == HemoShock },
		Delta:    10,
		Alert:    engine.Critical("Circulatory shock", "Hypotension for age or lactate of 4 mmol/L or more."),
		Recommendation: engine.Urgent("Fluid resuscitation and vasoactive support",
			"Cerebral perfusion depends on restoring systemic pressure."),
	},
	{
		ID:       "vps-hypoxaemia",
		Citation: "PALS 2020",
		Guard:    func(v view) bool { return v.p.SpO2 < 90 },
		Delta:    8,
		Alert:    engine.Warning("Hypoxaemia", "SpO2 below 90%."),
	},
	{
		ID:       "vps-hyperinflammation",
		Citation: "Ravelli et al., Arthritis Rheumatol 2016 (MAS criteria)",
		Guard:    func(v view) bool { return v.in.Inflammation == InflammationStorm },
		Delta:    8,
		Alert:    engine.Warning("Hyperinflammatory state", "Ferritin or CRP in cytokine-storm range."),
	},
	{
		ID:       "vps-febrile-cluster",
		Citation: "van Baalen et al., Epilepsia 2010 (FIRES)",
		Guard: func(v view) bool {
			return v.p.Temp >= engine.HighFeverC && v.in.Seizures >= BurdenCluster
		},
		Delta: 5,
		Alert: engine.Warning("Febrile seizure cluster", "High fever with clustered or continuous seizures."),
	},
	{
		ID:       "vps-lactate",
		Citation: "Surviving Sepsis Campaign pediatric guideline 2020",
		Guard:    func(v view) bool { return v.p.Lactate >= engine.HighLactate },
		Delta:    5,
		Alert:    engine.Warning("Hyperlactataemia", "Lactate of 4 mmol/L or more."),
	},
	{
		ID:       "vps-thrombocytopenia",
		Citation: "Goldstein et al., Pediatr Crit Care Med 2005",
		Guard:    func(v view) bool { return v.p.Platelets < engine.Thrombocytopenia },
		Delta:    4,
		Alert:    engine.Warning("Thrombocytopenia", "Platelets below 100 G/L."),
	},
}
