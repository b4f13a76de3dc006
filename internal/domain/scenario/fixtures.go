package scenario

import "github.com/neuroped/cds/internal/domain/patient"

// Scenario keys.
const (
	FIRES         = "FIRES"
	NMDAR         = "NMDAR"
	Cytokine      = "CYTOKINE"
	Stable        = "STABLE"
	MOG           = "MOG"
	Cocktail      = "COCKTAIL"
	Deterioration = "DETERIORATION"
	Flat          = "FLAT"
	Refractory    = "REFRACTORY"
)

type fixture struct {
	age, weight float64
	sex         string
	hospDay     int

	gcs         int
	history     []int
	pupils      string
	seizures    int
	duration    float64
	seizureType string

	crp, pct, ferritin, wbc, platelets, lactate float64
	hr, sbp, dbp, spo2, temp, rr                float64
	csfCells, csfProtein                        float64
	antibodies                                  string

	drugs     []string
	syndromes *patient.Syndromes
}

func (f fixture) input() patient.Input {
	drugs := make([]patient.Drug, 0, len(f.drugs))
	for _, d := range f.drugs {
		drugs = append(drugs, patient.Drug{Name: d})
	}
	pupils := f.pupils
	if pupils == "" {
		pupils = "reactive"
	}
	return patient.Input{
		Age: patient.Float(f.age), Weight: patient.Float(f.weight), Sex: patient.Str(f.sex),
		HospDay: patient.Int(f.hospDay),

		GCS: patient.Int(f.gcs), GCSHistory: append([]int{}, f.history...), Pupils: patient.Str(pupils),
		Seizures24h: patient.Int(f.seizures), SeizureDuration: patient.Float(f.duration),
		SeizureType: patient.Str(f.seizureType),

		CRP: patient.Float(f.crp), PCT: patient.Float(f.pct), Ferritin: patient.Float(f.ferritin),
		WBC: patient.Float(f.wbc), Platelets: patient.Float(f.platelets), Lactate: patient.Float(f.lactate),

		HeartRate: patient.Float(f.hr), SBP: patient.Float(f.sbp), DBP: patient.Float(f.dbp),
		SpO2: patient.Float(f.spo2), Temp: patient.Float(f.temp), RespRate: patient.Float(f.rr),

		CSFCells: patient.Float(f.csfCells), CSFProtein: patient.Float(f.csfProtein),
		CSFAntibodies: patient.Str(f.antibodies),

		Drugs:     drugs,
		Syndromes: f.syndromes,
	}
}

var catalog = []Scenario{
	{
		Key:         FIRES,
		Label:       "FIRES: febrile infection-related refractory status",
		Description: "Previously well 7-year-old, refractory seizures four days after a febrile illness, antibody negative.",
		Input: fixture{
			age: 84, weight: 24, sex: "male", hospDay: 4,
			gcs: 8, history: []int{14, 12, 10}, seizures: 25, duration: 60, seizureType: "refractory_status",
			crp: 30, pct: 0.4, ferritin: 450, wbc: 14, platelets: 210, lactate: 2.4,
			hr: 145, sbp: 98, dbp: 58, spo2: 94, temp: 39.2, rr: 28,
			csfCells: 8, csfProtein: 0.5, antibodies: "negative",
			drugs: []string{"midazolam", "levetiracetam", "phenytoin"},
		}.input(),
	},
	{
		Key:         NMDAR,
		Label:       "Anti-NMDAR encephalitis",
		Description: "9-year-old girl with behavioural change, focal seizures and CSF anti-NMDAR antibodies on first-line immunotherapy.",
		Input: fixture{
			age: 108, weight: 30, sex: "female", hospDay: 6,
			gcs: 12, history: []int{13, 12}, seizures: 2, duration: 2, seizureType: "focal",
			crp: 3, pct: 0.1, ferritin: 80, wbc: 9, platelets: 280, lactate: 1.2,
			hr: 100, sbp: 105, dbp: 65, spo2: 98, temp: 37.4, rr: 20,
			csfCells: 35, csfProtein: 0.6, antibodies: "nmdar",
			drugs: []string{"methylprednisolone", "ivig", "levetiracetam"},
		}.input(),
	},
	{
		Key:         Cytokine,
		Label:       "Cytokine storm (PIMS with macrophage activation)",
		Description: "5-year-old with PIMS, MAS, shock and encephalopathy on immunomodulation.",
		Input: fixture{
			age: 60, weight: 18, sex: "male", hospDay: 3,
			gcs: 13, history: []int{14, 13}, seizureType: "none",
			crp: 180, pct: 1.2, ferritin: 4200, wbc: 3.2, platelets: 85, lactate: 3.1,
			hr: 150, sbp: 78, dbp: 40, spo2: 93, temp: 39.6, rr: 34,
			csfCells: 2, csfProtein: 0.3, antibodies: "negative",
			drugs:     []string{"methylprednisolone", "ivig", "anakinra", "aspirin", "ceftriaxone"},
			syndromes: &patient.Syndromes{PIMSConfirmed: true, MASConfirmed: true},
		}.input(),
	},
	{
		Key:         Stable,
		Label:       "Stable post-ictal child",
		Description: "6-year-old recovered after a single short seizure, normal work-up.",
		Input: fixture{
			age: 72, weight: 21, sex: "female", hospDay: 2,
			gcs: 15, history: []int{15, 15, 15}, seizureType: "none",
			crp: 2, pct: 0.1, ferritin: 60, wbc: 8, platelets: 260, lactate: 1.1,
			hr: 95, sbp: 102, dbp: 62, spo2: 99, temp: 36.8, rr: 22,
			csfCells: 1, csfProtein: 0.25, antibodies: "negative",
		}.input(),
	},
	{
		Key:         MOG,
		Label:       "MOG antibody-associated disease",
		Description: "4-year-old with ADEM-like presentation, one generalized seizure, MOG positive, on steroids.",
		Input: fixture{
			age: 48, weight: 16, sex: "female", hospDay: 5,
			gcs: 14, history: []int{14, 14}, seizures: 1, duration: 3, seizureType: "generalized",
			crp: 8, pct: 0.2, ferritin: 120, wbc: 11, platelets: 320, lactate: 1.3,
			hr: 110, sbp: 100, dbp: 60, spo2: 98, temp: 37.9, rr: 24,
			csfCells: 20, csfProtein: 0.7, antibodies: "mog",
			drugs: []string{"methylprednisolone"},
		}.input(),
	},
	{
		Key:         Cocktail,
		Label:       "Dangerous drug cocktail",
		Description: "18-month-old with suspected meningoencephalitis given valproate with meropenem and vancomycin with gentamicin.",
		Input: fixture{
			age: 18, weight: 11, sex: "male", hospDay: 9,
			gcs: 13, history: []int{13, 13}, seizures: 4, duration: 3, seizureType: "generalized",
			crp: 25, pct: 2.5, ferritin: 300, wbc: 17, platelets: 180, lactate: 1.8,
			hr: 135, sbp: 88, dbp: 50, spo2: 96, temp: 38.3, rr: 36,
			csfCells: 12, csfProtein: 0.6, antibodies: "negative",
			drugs: []string{"valproate", "meropenem", "midazolam", "phenobarbital", "vancomycin", "gentamicin"},
		}.input(),
	},
	{
		Key:         Deterioration,
		Label:       "Silent deterioration",
		Description: "10-year-old whose GCS drifts from 15 to 11 while vitals remain acceptable.",
		Input: fixture{
			age: 120, weight: 32, sex: "female", hospDay: 2,
			gcs: 11, history: []int{15, 15, 14, 13}, seizures: 1, duration: 1, seizureType: "focal",
			crp: 12, pct: 0.3, ferritin: 150, wbc: 10, platelets: 240, lactate: 1.4,
			hr: 118, sbp: 104, dbp: 64, spo2: 97, temp: 37.8, rr: 26,
			csfCells: 15, csfProtein: 0.5, antibodies: "pending",
			drugs: []string{"acyclovir", "ceftriaxone", "levetiracetam"},
		}.input(),
	},
	{
		Key:         Flat,
		Label:       "Flat consciousness series",
		Description: "12-year-old with a persistent but unchanging GCS of 12 on day 10.",
		Input: fixture{
			age: 150, weight: 40, sex: "male", hospDay: 10,
			gcs: 12, history: []int{12, 12, 12, 12, 12}, seizureType: "none",
			crp: 4, pct: 0.1, ferritin: 90, wbc: 7, platelets: 250, lactate: 1.0,
			hr: 100, sbp: 100, dbp: 60, spo2: 98, temp: 37.2, rr: 18,
			csfCells: 3, csfProtein: 0.4, antibodies: "pending",
			drugs: []string{"levetiracetam"},
		}.input(),
	},
	{
		Key:         Refractory,
		Label:       "Super-refractory status under anaesthesia",
		Description: "3-year-old on day 12, burst-suppression infusions, propofol added on a ketogenic diet.",
		Input: fixture{
			age: 40, weight: 14, sex: "male", hospDay: 12,
			gcs: 6, history: []int{6, 6, 6}, seizures: 12, duration: 90, seizureType: "refractory_status",
			crp: 15, pct: 0.5, ferritin: 600, wbc: 12, platelets: 140, lactate: 2.2,
			hr: 125, sbp: 82, dbp: 45, spo2: 95, temp: 37.6, rr: 28,
			csfCells: 6, csfProtein: 0.4, antibodies: "pending",
			drugs: []string{"midazolam_infusion", "ketamine", "levetiracetam", "phenobarbital",
				"methylprednisolone", "ketogenic_diet", "propofol"},
		}.input(),
	},
}
