package crashtest

import (
	"fmt"
	"strconv"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// Check is one expectation evaluated against a processed record.
type Check struct {
	Name     string
	Expected string
	Eval     func(rec *patient.Record) (actual string, ok bool)
}

// ScoreRange expects an engine score within [lo, hi].
func ScoreRange(id score.EngineID, lo, hi int) Check {
	return Check{
		Name:     fmt.Sprintf("%s score", id),
		Expected: fmt.Sprintf("%d..%d", lo, hi),
		Eval: func(rec *patient.Record) (string, bool) {
			res, ok := rec.Result(id)
			if !ok {
				return "missing", false
			}
			s := res.Synthesis.Score
			return strconv.Itoa(s), s >= lo && s <= hi
		},
	}
}

// LevelIs expects an engine level.
func LevelIs(id score.EngineID, want score.Level) Check {
	return Check{
		Name:     fmt.Sprintf("%s level", id),
		Expected: string(want),
		Eval: func(rec *patient.Record) (string, bool) {
			res, ok := rec.Result(id)
			if !ok {
				return "missing", false
			}
			return string(res.Synthesis.Level), res.Synthesis.Level == want
		},
	}
}

// MinAlerts expects at least n alerts on the record.
func MinAlerts(n int) Check {
	return Check{
		Name:     "alert count",
		Expected: fmt.Sprintf(">= %d", n),
		Eval: func(rec *patient.Record) (string, bool) {
			got := len(rec.Alerts())
			return strconv.Itoa(got), got >= n
		},
	}
}

// RuleFired expects rule to have fired in engine id.
func RuleFired(id score.EngineID, rule string) Check {
	return Check{
		Name:     fmt.Sprintf("%s fired %s", id, rule),
		Expected: "fired",
		Eval: func(rec *patient.Record) (string, bool) {
			res, ok := rec.Result(id)
			if !ok {
				return "missing", false
			}
			if res.Fired(rule) {
				return "fired", true
			}
			return "not fired", false
		},
	}
}

// RuleNotFired expects rule not to have fired in engine id.
func RuleNotFired(id score.EngineID, rule string) Check {
	return Check{
		Name:     fmt.Sprintf("%s did not fire %s", id, rule),
		Expected: "not fired",
		Eval: func(rec *patient.Record) (string, bool) {
			res, ok := rec.Result(id)
			if !ok {
				return "missing", false
			}
			if res.Fired(rule) {
				return "fired", false
			}
			return "not fired", true
		},
	}
}

// Emergency expects the emergency flag.
func Emergency(want bool) Check {
	return Check{
		Name:     "emergency",
		Expected: strconv.FormatBool(want),
		Eval: func(rec *patient.Record) (string, bool) {
			got := rec.IsEmergency()
			return strconv.FormatBool(got), got == want
		},
	}
}

// NoCriticalAlerts expects no critical alert from any engine.
func NoCriticalAlerts() Check {
	return Check{
		Name:     "no critical alerts",
		Expected: "0 critical",
		Eval: func(rec *patient.Record) (string, bool) {
			n := 0
			for _, a := range rec.Alerts() {
				if a.Severity == score.SeverityCritical {
					n++
				}
			}
			return fmt.Sprintf("%d critical", n), n == 0
		},
	}
}

// NoAlertFromRule expects no alert raised by rule.
func NoAlertFromRule(rule string) Check {
	return Check{
		Name:     "no alert from " + rule,
		Expected: "absent",
		Eval: func(rec *patient.Record) (string, bool) {
			for _, a := range rec.Alerts() {
				if a.Rule == rule {
					return "present", false
				}
			}
			return "absent", true
		},
	}
}
