package score

import "math"

// EngineID identifies one of the five scoring engines.
type EngineID string

const (
	EngineVPS EngineID = "vps"
	EngineTDE EngineID = "tde"
	EnginePVE EngineID = "pve"
	EngineEWE EngineID = "ewe"
	EngineTPE EngineID = "tpe"
)

// Order is the fixed execution order of the pipeline.
var Order = []EngineID{EngineVPS, EngineTDE, EnginePVE, EngineEWE, EngineTPE}

// Label returns the clinical name of the engine.
func (id EngineID) Label() string {
	switch id {
	case EngineVPS:
		return "Vital Prognosis Score"
	case EngineTDE:
		return "Therapeutic Decision Engine"
	case EnginePVE:
		return "Pharmacovigilance Engine"
	case EngineEWE:
		return "Early Warning Engine"
	case EngineTPE:
		return "Therapeutic Prospection Engine"
	}
	return string(id)
}

// Level is the qualitative severity band of a synthesis score.
type Level string

const (
	LevelStable   Level = "stable"
	LevelModerate Level = "moderate"
	LevelSevere   Level = "severe"
	LevelCritical Level = "critical"
)

// Rank orders levels from stable (0) to critical (3).
func (l Level) Rank() int {
	switch l {
	case LevelModerate:
		return 1
	case LevelSevere:
		return 2
	case LevelCritical:
		return 3
	}
	return 0
}

// Band maps a score to its level. Every engine and every consumer goes
// through this function.
func Band(s int) Level {
	switch {
	case s >= 70:
		return LevelCritical
	case s >= 50:
		return LevelSevere
	case s >= 30:
		return LevelModerate
	default:
		return LevelStable
	}
}

// Clamp bounds a raw engine total into [0,100] and rounds it half away from zero.
func Clamp(raw float64) int {
	switch {
	case math.IsNaN(raw), raw <= 0:
		return 0
	case raw >= 100:
		return 100
	}
	return int(math.Round(raw))
}

// Synthesis is the final {score, level} pair of an engine.
type Synthesis struct {
	Score int   `json:"score"`
	Level Level `json:"level"`
}

// NewSynthesis clamps raw and bands the result.
func NewSynthesis(raw float64) Synthesis {
	s := Clamp(raw)
	return Synthesis{Score: s, Level: Band(s)}
}

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Alert is a clinician-facing signal raised by an engine.
type Alert struct {
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	Severity AlertSeverity `json:"severity"`
	Source   EngineID      `json:"sourceEngine"`
	Rule     string        `json:"rule,omitempty"`
}

// Priority grades a recommendation.
type Priority string

const (
	PriorityUrgent  Priority = "urgent"
	PriorityRoutine Priority = "routine"
)

// Recommendation is a suggested clinical action. HorizonDays is the
// follow-up horizon in days, zero when the recommendation is immediate.
type Recommendation struct {
	Title       string   `json:"title"`
	Rationale   string   `json:"rationale"`
	Priority    Priority `json:"priority"`
	Source      EngineID `json:"sourceEngine"`
	Rule        string   `json:"rule,omitempty"`
	HorizonDays int      `json:"horizonDays,omitempty"`
}

// FiredRule records a rule whose guard held during evaluation.
type FiredRule struct {
	ID           string  `json:"id"`
	Citation     string  `json:"citation"`
	Contribution float64 `json:"contribution"`
}

// LayerName is one of the four evaluation stages.
type LayerName string

const (
	LayerIntention LayerName = "intention"
	LayerContext   LayerName = "context"
	LayerRules     LayerName = "rules"
	LayerCurve     LayerName = "curve"
)

// Layer is the output of one evaluation stage.
type Layer struct {
	Name    LayerName         `json:"name"`
	Signals map[string]string `json:"signals,omitempty"`
	Fired   []FiredRule       `json:"fired,omitempty"`
	Partial float64           `json:"partial"`
	Flag    bool              `json:"flag,omitempty"`
}

// Signal returns a derived signal value, or "" when absent.
func (l Layer) Signal(key string) string {
	return l.Signals[key]
}

// Result is the complete output of one engine.
type Result struct {
	Engine          EngineID         `json:"engine"`
	Intention       Layer            `json:"intention"`
	Context         Layer            `json:"context"`
	Rules           Layer            `json:"rules"`
	Curve           Layer            `json:"curve"`
	Synthesis       Synthesis        `json:"synthesis"`
	Alerts          []Alert          `json:"alerts"`
	Recommendations []Recommendation `json:"recommendations"`
	Degraded        bool             `json:"degraded,omitempty"`
}

// Fired reports whether a rule with the given id fired in any layer.
func (r Result) Fired(ruleID string) bool {
	for _, l := range []Layer{r.Intention, r.Context, r.Rules, r.Curve} {
		for _, f := range l.Fired {
			if f.ID == ruleID {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	out := r
	out.Intention = r.Intention.clone()
	out.Context = r.Context.clone()
	out.Rules = r.Rules.clone()
	out.Curve = r.Curve.clone()
	out.Alerts = make([]Alert, len(r.Alerts))
	copy(out.Alerts, r.Alerts)
	out.Recommendations = make([]Recommendation, len(r.Recommendations))
	copy(out.Recommendations, r.Recommendations)
	return out
}

func (l Layer) clone() Layer {
	out := l
	if l.Signals != nil {
		out.Signals = make(map[string]string, len(l.Signals))
		for k, v := range l.Signals {
			out.Signals[k] = v
		}
	}
	out.Fired = append([]FiredRule(nil), l.Fired...)
	return out
}

// Sentinel is the neutral result stored when an engine cannot complete.
func Sentinel(id EngineID, cause error) Result {
	body := "evaluation could not complete"
	if cause != nil {
		body = cause.Error()
	}
	return Result{
		Engine:    id,
		Intention: Layer{Name: LayerIntention},
		Context:   Layer{Name: LayerContext},
		Rules:     Layer{Name: LayerRules},
		Curve:     Layer{Name: LayerCurve},
		Synthesis: Synthesis{Score: 0, Level: LevelStable},
		Alerts: []Alert{{
			Title:    "Internal evaluation error",
			Body:     id.Label() + ": " + body,
			Severity: SeverityWarning,
			Source:   id,
			Rule:     string(id) + "-internal",
		}},
		Recommendations: []Recommendation{},
		Degraded:        true,
	}
}
