package cdshooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// newTestHandler creates a Handler with two mock services.
func newTestHandler() *Handler {
	h := NewHandler()

	h.RegisterService(Service{
		Hook:        "patient-view",
		Title:       "Severity",
		Description: "Severity cards when a chart is opened",
		ID:          "severity",
		Prefetch: map[string]string{
			"patient": "Patient/{{context.patientId}}",
		},
	}, func(ctx context.Context, req Request) (*Response, error) {
		if _, ok := req.Prefetch["patient"]; !ok {
			return &Response{}, nil
		}
		return &Response{
			Cards: []Card{
				{
					Summary:   "Refractory status epilepticus",
					Indicator: IndicatorCritical,
					Source:    Source{Label: "VPS"},
				},
			},
		}, nil
	})

	h.RegisterService(Service{
		Hook:        "order-select",
		Description: "Always fails",
		ID:          "broken",
	}, func(ctx context.Context, req Request) (*Response, error) {
		return nil, errors.New("engine unavailable")
	})

	return h
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDiscovery(t *testing.T) {
	rec := serve(newTestHandler(), http.MethodGet, "/cds-services", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Services []Service `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(result.Services) != 2 || result.Services[0].ID != "severity" || result.Services[1].ID != "broken" {
		t.Fatalf("expected services in registration order, got %+v", result.Services)
	}
}

func TestHandleHook(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		cards  int
	}{
		{"with prefetch", "/cds-services/severity", `{"hook":"patient-view","hookInstance":"h1","prefetch":{"patient":{}}}`, http.StatusOK, 1},
		{"without prefetch", "/cds-services/severity", `{"hook":"patient-view","hookInstance":"h1"}`, http.StatusOK, 0},
		{"unknown service", "/cds-services/nope", `{"hook":"patient-view","hookInstance":"h1"}`, http.StatusNotFound, 0},
		{"bad body", "/cds-services/severity", `{`, http.StatusBadRequest, 0},
		{"hook mismatch", "/cds-services/severity", `{"hook":"order-sign","hookInstance":"h1"}`, http.StatusBadRequest, 0},
		{"missing instance", "/cds-services/severity", `{"hook":"patient-view"}`, http.StatusBadRequest, 0},
		{"service error", "/cds-services/broken", `{"hook":"order-select","hookInstance":"h1"}`, http.StatusInternalServerError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestHandler(), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Cards == nil || len(resp.Cards) != tt.cards {
				t.Errorf("expected %d cards (never null), got %s", tt.cards, rec.Body.String())
			}
		})
	}
}

func TestHandleFeedback(t *testing.T) {
	h := newTestHandler()
	var got []Feedback
	h.RegisterFeedbackHandler("severity", func(ctx context.Context, serviceID string, fb Feedback) error {
		got = append(got, fb)
		return nil
	})

	body := `{"feedback":[{"card":"c1","outcome":"accepted"},{"card":"c2","outcome":"overridden","overrideReasons":[{"code":"not-relevant"}]}]}`
	rec := serve(h, http.MethodPost, "/cds-services/severity/feedback", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(got) != 2 || got[1].OverrideReasons[0].Code != "not-relevant" {
		t.Errorf("unexpected feedback %+v", got)
	}
}

func TestHandleFeedback_Rejects(t *testing.T) {
	h := newTestHandler()
	called := false
	h.RegisterFeedbackHandler("severity", func(ctx context.Context, serviceID string, fb Feedback) error {
		called = true
		return nil
	})

	if rec := serve(h, http.MethodPost, "/cds-services/severity/feedback", `{"feedback":[{"card":"c1","outcome":"ignored"}]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown outcome, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPost, "/cds-services/nope/feedback", `{"feedback":[]}`); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown service, got %d", rec.Code)
	}
	if called {
		t.Error("handler must not see rejected feedback")
	}
}

func TestHandleFeedback_NoHandlerIsNoop(t *testing.T) {
	rec := serve(newTestHandler(), http.MethodPost, "/cds-services/broken/feedback", `{"feedback":[{"card":"c1","outcome":"accepted"}]}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
