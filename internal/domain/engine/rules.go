package engine

import "github.com/neuroped/cds/internal/domain/score"

// Rule is one guarded business rule. Guard runs over the engine's combined
// intention and context view T. When it holds, Delta is added to the rules
// partial and the optional alert and recommendation are emitted.
type Rule[T any] struct {
	ID       string
	Citation string
	Guard    func(T) bool
	Delta    float64

	Alert          *score.Alert
	Recommendation *score.Recommendation
}

// RulesOutcome is what a rule table produced.
type RulesOutcome struct {
	Layer           score.Layer
	Alerts          []score.Alert
	Recommendations []score.Recommendation
}

// Evaluate runs every rule of the table in order. No rule suppresses
// another; contributions add up and clamping happens at synthesis.
func Evaluate[T any](id score.EngineID, table []Rule[T], in T) RulesOutcome {
	out := RulesOutcome{Layer: score.Layer{Name: score.LayerRules}}
	for _, r := range table {
		if r.Guard == nil || !r.Guard(in) {
			continue
		}
		out.Layer.Fired = append(out.Layer.Fired, score.FiredRule{ID: r.ID, Citation: r.Citation, Contribution: r.Delta})
		out.Layer.Partial += r.Delta
		if r.Alert != nil {
			a := *r.Alert
			a.Source = id
			a.Rule = r.ID
			out.Alerts = append(out.Alerts, a)
		}
		if r.Recommendation != nil {
			rec := *r.Recommendation
			rec.Source = id
			rec.Rule = r.ID
			out.Recommendations = append(out.Recommendations, rec)
		}
	}
	out.Layer.Flag = len(out.Layer.Fired) > 0
	return out
}

// Merge appends another outcome's firings, used when an engine evaluates a
// decision tree before its flat table.
func (o *RulesOutcome) Merge(other RulesOutcome) {
	o.Layer.Fired = append(o.Layer.Fired, other.Layer.Fired...)
	o.Layer.Partial += other.Layer.Partial
	o.Layer.Flag = o.Layer.Flag || other.Layer.Flag
	o.Alerts = append(o.Alerts, other.Alerts...)
	o.Recommendations = append(o.Recommendations, other.Recommendations...)
}

// Critical is shorthand for a critical alert template.
func Critical(title, body string) *score.Alert {
	return &score.Alert{Title: title, Body: body, Severity: score.SeverityCritical}
}

// Warning is shorthand for a warning alert template.
func Warning(title, body string) *score.Alert {
	return &score.Alert{Title: title, Body: body, Severity: score.SeverityWarning}
}

// Info is shorthand for an informational alert template.
func Info(title, body string) *score.Alert {
	return &score.Alert{Title: title, Body: body, Severity: score.SeverityInfo}
}

// Urgent is shorthand for an urgent recommendation template.
func Urgent(title, rationale string) *score.Recommendation {
	return &score.Recommendation{Title: title, Rationale: rationale, Priority: score.PriorityUrgent}
}

// Routine is shorthand for a routine recommendation template.
func Routine(title, rationale string) *score.Recommendation {
	return &score.Recommendation{Title: title, Rationale: rationale, Priority: score.PriorityRoutine}
}

// Horizon sets a follow-up horizon on a recommendation template.
func Horizon(days int, rec *score.Recommendation) *score.Recommendation {
	rec.HorizonDays = days
	return rec
}
