package patient

import (
	"encoding/json"
	"fmt"

	"github.com/neuroped/cds/internal/domain/score"
)

// Snapshot is the validated clinical data of a record. Engines receive it
// by value and cannot reach the record's outputs through it.
type Snapshot struct {
	AgeMonths float64 `json:"age"`
	WeightKg  float64 `json:"weight"`
	Sex       Sex     `json:"sex"`
	HospDay   int     `json:"hospDay"`

	GCS                int         `json:"gcs"`
	GCSHistory         []int       `json:"gcsHistory"`
	Pupils             Pupils      `json:"pupils"`
	Seizures24h        int         `json:"seizures24h"`
	SeizureDurationMin float64     `json:"seizureDuration"`
	SeizureType        SeizureType `json:"seizureType"`

	CRP       float64 `json:"crp"`
	PCT       float64 `json:"pct"`
	Ferritin  float64 `json:"ferritin"`
	WBC       float64 `json:"wbc"`
	Platelets float64 `json:"platelets"`
	Lactate   float64 `json:"lactate"`

	HeartRate float64 `json:"heartRate"`
	SBP       float64 `json:"sbp"`
	DBP       float64 `json:"dbp"`
	SpO2      float64 `json:"spo2"`
	Temp      float64 `json:"temp"`
	RespRate  float64 `json:"respRate"`

	CSFCells      float64  `json:"csfCells"`
	CSFProtein    float64  `json:"csfProtein"`
	CSFAntibodies Antibody `json:"csfAntibodies"`

	Drugs     []Drug    `json:"drugs"`
	Syndromes Syndromes `json:"syndromes"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.GCSHistory = append([]int(nil), s.GCSHistory...)
	out.Drugs = append([]Drug(nil), s.Drugs...)
	return out
}

// Record is the single owned aggregate of one clinical case. Callers read
// it through accessors; only the pipeline writes outputs, via Reset and
// Store. A record must not be shared between concurrent runs.
type Record struct {
	data            Snapshot
	results         map[score.EngineID]score.Result
	alerts          []score.Alert
	recommendations []score.Recommendation
}

// Snapshot returns a copy of the clinical data.
func (r *Record) Snapshot() Snapshot {
	return r.data.clone()
}

// Result returns a copy of the stored result for an engine.
func (r *Record) Result(id score.EngineID) (score.Result, bool) {
	res, ok := r.results[id]
	if !ok {
		return score.Result{}, false
	}
	return res.Clone(), true
}

// Alerts returns the accumulated alerts in pipeline order.
func (r *Record) Alerts() []score.Alert {
	return append([]score.Alert{}, r.alerts...)
}

// Recommendations returns the accumulated recommendations in pipeline order.
func (r *Record) Recommendations() []score.Recommendation {
	return append([]score.Recommendation{}, r.recommendations...)
}

// Evaluated reports whether all five engine slots are filled.
func (r *Record) Evaluated() bool {
	for _, id := range score.Order {
		if _, ok := r.results[id]; !ok {
			return false
		}
	}
	return true
}

// VPSScore returns the vital prognosis score, or 0 before the pipeline ran.
func (r *Record) VPSScore() int {
	return r.results[score.EngineVPS].Synthesis.Score
}

// IsEmergency is true when VPS reached the severe band or the patient is in
// refractory status epilepticus.
func (r *Record) IsEmergency() bool {
	return r.VPSScore() >= 50 || r.data.SeizureType == SeizureRefractory
}

// Prior returns an immutable view of the results stored so far.
func (r *Record) Prior() score.Prior {
	done := make([]score.Result, 0, len(r.results))
	for _, id := range score.Order {
		if res, ok := r.results[id]; ok {
			done = append(done, res)
		}
	}
	return score.NewPrior(done...)
}

// Reset clears all outputs before a run.
func (r *Record) Reset() {
	r.results = make(map[score.EngineID]score.Result, len(score.Order))
	r.alerts = []score.Alert{}
	r.recommendations = []score.Recommendation{}
}

// Store writes an engine result into its slot and appends its alerts and
// recommendations. A slot already written since the last Reset is never
// overwritten.
func (r *Record) Store(res score.Result) error {
	if r.results == nil {
		r.Reset()
	}
	if _, ok := r.results[res.Engine]; ok {
		return fmt.Errorf("result for engine %s already stored", res.Engine)
	}
	res = res.Clone()
	r.results[res.Engine] = res
	r.alerts = append(r.alerts, res.Alerts...)
	r.recommendations = append(r.recommendations, res.Recommendations...)
	return nil
}

type recordJSON struct {
	Patient         Snapshot               `json:"patient"`
	VPSResult       *score.Result          `json:"vpsResult"`
	TDEResult       *score.Result          `json:"tdeResult"`
	PVEResult       *score.Result          `json:"pveResult"`
	EWEResult       *score.Result          `json:"eweResult"`
	TPEResult       *score.Result          `json:"tpeResult"`
	Alerts          []score.Alert          `json:"alerts"`
	Recommendations []score.Recommendation `json:"recommendations"`
	IsEmergency     bool                   `json:"isEmergency"`
}

// MarshalJSON renders the record with null result slots before a run.
func (r *Record) MarshalJSON() ([]byte, error) {
	slot := func(id score.EngineID) *score.Result {
		res, ok := r.Result(id)
		if !ok {
			return nil
		}
		return &res
	}
	return json.Marshal(recordJSON{
		Patient:         r.Snapshot(),
		VPSResult:       slot(score.EngineVPS),
		TDEResult:       slot(score.EngineTDE),
		PVEResult:       slot(score.EnginePVE),
		EWEResult:       slot(score.EngineEWE),
		TPEResult:       slot(score.EngineTPE),
		Alerts:          r.Alerts(),
		Recommendations: r.Recommendations(),
		IsEmergency:     r.IsEmergency(),
	})
}
