// Package tpe implements the Therapeutic Prospection Engine. It runs last,
// reads the VPS and TDE results, and projects follow-up recommendations
// with explicit horizons.
package tpe

import (
	"strconv"
	"strings"

	"github.com/neuroped/cds/internal/domain/engine"
	"github.com/neuroped/cds/internal/domain/engine/tde"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
)

// VPSWeight scales the prognostic score into the projection.
const VPSWeight = 0.3

// Chronicity of the current admission.
type Chronicity string

const (
	ChronicityAcute     Chronicity = "acute"
	ChronicitySubacute  Chronicity = "subacute"
	ChronicityProlonged Chronicity = "prolonged"
)

func readChronicity(day int) Chronicity {
	switch {
	case day <= 7:
		return ChronicityAcute
	case day <= 21:
		return ChronicitySubacute
	}
	return ChronicityProlonged
}

// Intention is the prospective reading of the case.
type Intention struct {
	Line       int
	Etiology   tde.Etiology
	Chronicity Chronicity
}

var linePoints = map[int]float64{1: 0, 2: 10, 3: 20, 4: 30}

// Points is the line and chronicity contribution.
func (in Intention) Points() float64 {
	p := linePoints[in.Line]
	if in.Chronicity == ChronicityProlonged {
		p += 10
	}
	return p
}

// parseLine reads the "L1".."L4" signal; anything else is treated as the
// first line.
func parseLine(s string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "L"))
	if err != nil || n < 1 || n > 4 {
		return 1
	}
	return n
}

func read(p patient.Snapshot, therapy score.Result) Intention {
	etiology := tde.Etiology(therapy.Intention.Signal("etiology"))
	if etiology == "" {
		etiology = tde.EtiologyUndetermined
	}
	return Intention{
		Line:       parseLine(therapy.Rules.Signal(tde.SignalLine)),
		Etiology:   etiology,
		Chronicity: readChronicity(p.HospDay),
	}
}

type view struct {
	p   patient.Snapshot
	in  Intention
	vps score.Synthesis
}

var rules = []engine.Rule[view]{
	{
		ID:       "tpe-icu-review",
		Citation: "Gaspard et al., Epilepsia 2018",
		Guard:    func(v view) bool { return v.in.Line == 4 },
		Delta:    5,
		Recommendation: engine.Horizon(2, engine.Urgent("Daily ICU neurological review",
			"Re-evaluate anaesthetic weaning and EEG at day+2.")),
	},
	{
		ID:       "tpe-escalation-review",
		Citation: "Nosadini et al., Neurology 2021",
		Guard:    func(v view) bool { return v.in.Line == 2 || v.in.Line == 3 },
		Recommendation: engine.Horizon(7, engine.Routine("Assess response to escalation",
			"Decide on the next line at day+7 if there is no clinical response.")),
	},
	{
		ID:       "tpe-first-line-review",
		Citation: "Titulaer et al., Lancet Neurol 2013",
		Guard:    func(v view) bool { return v.in.Line == 1 },
		Recommendation: engine.Horizon(14, engine.Routine("Review first-line response",
			"Most responders improve within two weeks of first-line immunotherapy.")),
	},
	{
		ID:       "tpe-neurocognitive",
		Citation: "de Bruijn et al., Neurology 2018",
		Guard:    func(v view) bool { return v.vps.Level == score.LevelCritical },
		Delta:    5,
		Recommendation: engine.Horizon(14, engine.Routine("Early neurocognitive assessment",
			"Critical neurological courses carry a high risk of lasting cognitive sequelae.")),
	},
	{
		ID:       "tpe-autoimmune-relapse",
		Citation: "Gabilondo et al., Neurology 2011",
		Guard:    func(v view) bool { return v.in.Etiology.Autoimmune() },
		Recommendation: engine.Horizon(30, engine.Routine("Relapse surveillance",
			"Plan maintenance immunotherapy and antibody follow-up at day+30.")),
	},
	{
		ID:       "tpe-post-fires-epilepsy",
		Citation: "Kramer et al., Epilepsia 2011",
		Guard:    func(v view) bool { return v.in.Etiology == tde.EtiologyFIRES },
		Delta:    5,
		Recommendation: engine.Horizon(30, engine.Routine("Anticipate drug-resistant epilepsy",
			"Most FIRES survivors develop chronic epilepsy; plan epilepsy clinic follow-up.")),
	},
	{
		ID:       "tpe-prolonged-stay",
		Citation: "Pediatric Critical Care Medicine PICS-p framework 2018",
		Guard:    func(v view) bool { return v.in.Chronicity == ChronicityProlonged },
		Delta:    5,
		Recommendation: engine.Horizon(30, engine.Routine("Rehabilitation plan",
			"Prolonged admission: start neurorehabilitation and family support planning.")),
	},
}

// Engine projects the therapeutic course.
type Engine struct{}

// New returns the TPE engine.
func New() *Engine { return &Engine{} }

// ID implements engine.Engine.
func (*Engine) ID() score.EngineID { return score.EngineTPE }

// Run implements engine.Engine.
func (e *Engine) Run(p patient.Snapshot, prior score.Prior) (score.Result, error) {
	vps, err := engine.Require(prior, score.EngineVPS)
	if err != nil {
		return score.Result{}, err
	}
	therapy, err := engine.Require(prior, score.EngineTDE)
	if err != nil {
		return score.Result{}, err
	}
	in := read(p, therapy)

	intention := score.Layer{
		Signals: map[string]string{
			"line":       "L" + strconv.Itoa(in.Line),
			"etiology":   string(in.Etiology),
			"chronicity": string(in.Chronicity),
		},
		Partial: in.Points(),
	}
	context := score.Layer{
		Signals: map[string]string{
			"vpsScore": strconv.Itoa(vps.Synthesis.Score),
			"tdeScore": strconv.Itoa(therapy.Synthesis.Score),
		},
		Partial: VPSWeight * float64(vps.Synthesis.Score),
	}
	out := engine.Evaluate(score.EngineTPE, rules, view{p: p, in: in, vps: vps.Synthesis})
	curve, curveRecs := curveLayer(engine.AnalyzeGCS(p))

	recs := append(out.Recommendations, curveRecs...)
	return engine.Assemble(score.EngineTPE, intention, context, out.Layer, curve, out.Alerts, recs), nil
}

func curveLayer(t engine.Trend) (score.Layer, []score.Recommendation) {
	l := score.Layer{Signals: t.Signals()}
	if t.Direction != engine.Worsening {
		return l, nil
	}
	l.Partial = 5
	l.Flag = true
	l.Fired = []score.FiredRule{{ID: "tpe-curve-worsening", Citation: "GCS trend over the last 6 points", Contribution: 5}}
	return l, []score.Recommendation{{
		Title:       "Shorten re-evaluation to day+2",
		Rationale:   "Consciousness is declining; planned horizons are no longer safe.",
		Priority:    score.PriorityUrgent,
		Source:      score.EngineTPE,
		Rule:        "tpe-curve-worsening",
		HorizonDays: 2,
	}}
}
