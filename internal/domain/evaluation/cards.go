package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/score"
	"github.com/neuroped/cds/internal/platform/cdshooks"
)

const (
	DefaultServiceID = "pediatric-neuro-severity"
	HookPatientView  = "patient-view"
	PrefetchPatient  = "patient"

	ruleSystem = "urn:neuroped:cds:rule"
	maxSummary = 140
)

var cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:neuroped:cds:card"))

// RegisterCDSService exposes the pipeline as a patient-view CDS service.
func (h *Handler) RegisterCDSService(hooks *cdshooks.Handler, serviceID string) {
	if serviceID == "" {
		serviceID = DefaultServiceID
	}
	hooks.RegisterService(cdshooks.Service{
		Hook:        HookPatientView,
		Title:       "Pediatric neuro-inflammatory severity",
		Description: "Scores vital prognosis, therapy line, drug risk, early warning and follow-up for the opened chart.",
		ID:          serviceID,
		Prefetch: map[string]string{
			PrefetchPatient: "Patient/{{context.patientId}}",
		},
		UsageRequirements: "The patient prefetch must carry the clinical input document.",
	}, h.hook(serviceID))
	hooks.RegisterFeedbackHandler(serviceID, h.feedback)
}

func (h *Handler) hook(serviceID string) cdshooks.ServiceHandler {
	return func(ctx context.Context, req cdshooks.Request) (*cdshooks.Response, error) {
		raw, ok := req.Prefetch[PrefetchPatient]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "prefetch "+PrefetchPatient+" is required")
		}
		var in patient.Input
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed "+PrefetchPatient+" prefetch")
		}
		rec, err := h.svc.Evaluate(ctx, in)
		if err != nil {
			return nil, err
		}
		return &cdshooks.Response{Cards: Cards(serviceID, req.HookInstance, rec)}, nil
	}
}

func (h *Handler) feedback(_ context.Context, serviceID string, fb cdshooks.Feedback) error {
	h.svc.logger.Info().Str("service", serviceID).Str("card", fb.Card).
		Str("outcome", fb.Outcome).Int("overrideReasons", len(fb.OverrideReasons)).Msg("cds feedback")
	h.svc.observer.ObserveFeedback(serviceID, fb.Outcome)
	return nil
}

// Cards renders one card per alert, in pipeline order, followed by an info
// card for each recommendation no alert carries (the selected treatment
// line, follow-up horizons). Card ids derive from the service, hook
// instance, position and rule, so identical invocations yield identical
// cards.
func Cards(serviceID, hookInstance string, rec *patient.Record) []cdshooks.Card {
	alerts := rec.Alerts()
	recs := rec.Recommendations()
	cards := make([]cdshooks.Card, 0, len(alerts)+len(recs))

	carried := make([]bool, len(recs))
	for _, a := range alerts {
		card := cdshooks.Card{
			UUID:      cardID(serviceID, hookInstance, len(cards), a.Rule),
			Summary:   truncate(a.Title, maxSummary),
			Detail:    a.Body,
			Indicator: indicator(a.Severity),
			Source:    cardSource(a.Source, a.Rule),
		}
		if a.Rule != "" {
			for j, r := range recs {
				if r.Source == a.Source && r.Rule == a.Rule {
					card.Suggestions = append(card.Suggestions, suggestion(r))
					carried[j] = true
				}
			}
		}
		cards = append(cards, card)
	}

	for j, r := range recs {
		if carried[j] {
			continue
		}
		detail := r.Rationale
		if r.HorizonDays > 0 {
			detail = fmt.Sprintf("Day +%d: %s", r.HorizonDays, r.Rationale)
		}
		cards = append(cards, cdshooks.Card{
			UUID:        cardID(serviceID, hookInstance, len(cards), r.Rule),
			Summary:     truncate(r.Title, maxSummary),
			Detail:      detail,
			Indicator:   cdshooks.IndicatorInfo,
			Source:      cardSource(r.Source, r.Rule),
			Suggestions: []cdshooks.Suggestion{suggestion(r)},
		})
	}
	return cards
}

func cardID(serviceID, hookInstance string, pos int, rule string) string {
	name := fmt.Sprintf("%s/%s/%d/%s", serviceID, hookInstance, pos, rule)
	return uuid.NewSHA1(cardNamespace, []byte(name)).String()
}

func cardSource(id score.EngineID, rule string) cdshooks.Source {
	src := cdshooks.Source{Label: id.Label()}
	if rule != "" {
		src.Topic = &cdshooks.Coding{Code: rule, System: ruleSystem}
	}
	return src
}

func suggestion(r score.Recommendation) cdshooks.Suggestion {
	return cdshooks.Suggestion{
		Label:         r.Title,
		IsRecommended: r.Priority == score.PriorityUrgent,
	}
}

func indicator(s score.AlertSeverity) string {
	switch s {
	case score.SeverityCritical:
		return cdshooks.IndicatorCritical
	case score.SeverityWarning:
		return cdshooks.IndicatorWarning
	default:
		return cdshooks.IndicatorInfo
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
