package patient

// Drug is one administered agent. Class and dose are optional.
type Drug struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	Dose  string `json:"dose,omitempty" yaml:"dose,omitempty"`
}

// Syndromes holds optional confirmation flags for named syndromes.
type Syndromes struct {
	PIMSConfirmed  bool `json:"pimsConfirmed" yaml:"pimsConfirmed"`
	MASConfirmed   bool `json:"masConfirmed" yaml:"masConfirmed"`
	FIRESConfirmed bool `json:"firesConfirmed" yaml:"firesConfirmed"`
}

// Input is the raw patient-data object supplied by callers. Every field
// except Syndromes is required; pointer and slice fields are nil when the
// caller omitted them.
type Input struct {
	Age    *float64 `json:"age" yaml:"age"`
	Weight *float64 `json:"weight" yaml:"weight"`
	Sex    *string  `json:"sex" yaml:"sex"`

	HospDay *int `json:"hospDay" yaml:"hospDay"`

	GCS             *int     `json:"gcs" yaml:"gcs"`
	GCSHistory      []int    `json:"gcsHistory" yaml:"gcsHistory"`
	Pupils          *string  `json:"pupils" yaml:"pupils"`
	Seizures24h     *int     `json:"seizures24h" yaml:"seizures24h"`
	SeizureDuration *float64 `json:"seizureDuration" yaml:"seizureDuration"`
	SeizureType     *string  `json:"seizureType" yaml:"seizureType"`

	CRP       *float64 `json:"crp" yaml:"crp"`
	PCT       *float64 `json:"pct" yaml:"pct"`
	Ferritin  *float64 `json:"ferritin" yaml:"ferritin"`
	WBC       *float64 `json:"wbc" yaml:"wbc"`
	Platelets *float64 `json:"platelets" yaml:"platelets"`
	Lactate   *float64 `json:"lactate" yaml:"lactate"`

	HeartRate *float64 `json:"heartRate" yaml:"heartRate"`
	SBP       *float64 `json:"sbp" yaml:"sbp"`
	DBP       *float64 `json:"dbp" yaml:"dbp"`
	SpO2      *float64 `json:"spo2" yaml:"spo2"`
	Temp      *float64 `json:"temp" yaml:"temp"`
	RespRate  *float64 `json:"respRate" yaml:"respRate"`

	CSFCells      *float64 `json:"csfCells" yaml:"csfCells"`
	CSFProtein    *float64 `json:"csfProtein" yaml:"csfProtein"`
	CSFAntibodies *string  `json:"csfAntibodies" yaml:"csfAntibodies"`

	Drugs     []Drug     `json:"drugs" yaml:"drugs"`
	Syndromes *Syndromes `json:"syndromes,omitempty" yaml:"syndromes,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Str returns a pointer to v.
func Str(v string) *string { return &v }

// Clone returns a deep copy, so fixtures can be handed out without sharing
// memory with the caller.
func (in Input) Clone() Input {
	out := in
	out.Age = cloneFloat(in.Age)
	out.Weight = cloneFloat(in.Weight)
	out.Sex = cloneStr(in.Sex)
	out.HospDay = cloneInt(in.HospDay)
	out.GCS = cloneInt(in.GCS)
	if in.GCSHistory != nil {
		out.GCSHistory = append(make([]int, 0, len(in.GCSHistory)), in.GCSHistory...)
	}
	out.Pupils = cloneStr(in.Pupils)
	out.Seizures24h = cloneInt(in.Seizures24h)
	out.SeizureDuration = cloneFloat(in.SeizureDuration)
	out.SeizureType = cloneStr(in.SeizureType)
	out.CRP = cloneFloat(in.CRP)
	out.PCT = cloneFloat(in.PCT)
	out.Ferritin = cloneFloat(in.Ferritin)
	out.WBC = cloneFloat(in.WBC)
	out.Platelets = cloneFloat(in.Platelets)
	out.Lactate = cloneFloat(in.Lactate)
	out.HeartRate = cloneFloat(in.HeartRate)
	out.SBP = cloneFloat(in.SBP)
	out.DBP = cloneFloat(in.DBP)
	out.SpO2 = cloneFloat(in.SpO2)
	out.Temp = cloneFloat(in.Temp)
	out.RespRate = cloneFloat(in.RespRate)
	out.CSFCells = cloneFloat(in.CSFCells)
	out.CSFProtein = cloneFloat(in.CSFProtein)
	out.CSFAntibodies = cloneStr(in.CSFAntibodies)
	if in.Drugs != nil {
		out.Drugs = append(make([]Drug, 0, len(in.Drugs)), in.Drugs...)
	}
	if in.Syndromes != nil {
		s := *in.Syndromes
		out.Syndromes = &s
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
