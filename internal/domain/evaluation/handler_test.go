package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/domain/crashtest"
	"github.com/neuroped/cds/internal/domain/scenario"
	"github.com/neuroped/cds/internal/domain/score"
	"github.com/neuroped/cds/internal/platform/cdshooks"
	"github.com/neuroped/cds/internal/platform/outcome"
)

type countingObserver struct {
	crash    []int
	feedback []string
}

func (o *countingObserver) ObserveCrashTest(passed, total int) {
	o.crash = append(o.crash, passed, total)
}

func (o *countingObserver) ObserveFeedback(service, outcome string) {
	o.feedback = append(o.feedback, service+":"+outcome)
}

func newTestServer(opts ...Option) (*echo.Echo, *Handler) {
	h := NewHandler(NewService(opts...))
	e := echo.New()
	e.HTTPErrorHandler = outcome.HTTPErrorHandler
	h.RegisterRoutes(e.Group("/api/v1"))
	hooks := cdshooks.NewHandler()
	h.RegisterCDSService(hooks, "")
	hooks.RegisterRoutes(e)
	return e, h
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func fixtureJSON(t *testing.T, key string) string {
	t.Helper()
	sc, err := scenario.Get(key)
	if err != nil {
		t.Fatalf("fixture %s: %v", key, err)
	}
	b, err := json.Marshal(sc.Input)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// ── Scenario catalogue ──

func TestHandler_ListScenarios(t *testing.T) {
	e, _ := newTestServer()
	rec := do(e, http.MethodGet, "/api/v1/scenarios", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []scenario.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != len(scenario.Keys()) || list[0].Key != scenario.FIRES {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestHandler_GetScenario(t *testing.T) {
	e, _ := newTestServer()
	if rec := do(e, http.MethodGet, "/api/v1/scenarios/nmdar", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/v1/scenarios/NOPE", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_EvaluateScenario(t *testing.T) {
	e, _ := newTestServer()
	rec := do(e, http.MethodPost, "/api/v1/scenarios/FIRES/evaluate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Scenario scenario.Summary `json:"scenario"`
		Record   struct {
			VPSResult   *score.Result `json:"vpsResult"`
			TPEResult   *score.Result `json:"tpeResult"`
			IsEmergency bool          `json:"isEmergency"`
		} `json:"record"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Scenario.Key != scenario.FIRES || !body.Record.IsEmergency {
		t.Errorf("unexpected response %+v", body)
	}
	if body.Record.VPSResult == nil || body.Record.TPEResult == nil {
		t.Error("expected every engine slot filled")
	}

	if rec := do(e, http.MethodPost, "/api/v1/scenarios/NOPE/evaluate", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown scenario, got %d", rec.Code)
	}
}

// ── Evaluate ──

func TestHandler_Evaluate(t *testing.T) {
	e, _ := newTestServer()
	rec := do(e, http.MethodPost, "/api/v1/evaluate", fixtureJSON(t, scenario.Stable))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["isEmergency"] != false || body["eweResult"] == nil {
		t.Errorf("unexpected record %v", body)
	}
}

func TestHandler_Evaluate_Invalid(t *testing.T) {
	e, _ := newTestServer()
	in := strings.Replace(fixtureJSON(t, scenario.Stable), `"gcs":15`, `"gcs":2`, 1)
	rec := do(e, http.MethodPost, "/api/v1/evaluate", in)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var oo outcome.OperationOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &oo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(oo.Issue) != 1 || oo.Issue[0].Expression[0] != "gcs" {
		t.Errorf("expected a single gcs issue, got %+v", oo.Issue)
	}
}

func TestHandler_Evaluate_MissingFields(t *testing.T) {
	e, _ := newTestServer()
	rec := do(e, http.MethodPost, "/api/v1/evaluate", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var oo outcome.OperationOutcome
	_ = json.Unmarshal(rec.Body.Bytes(), &oo)
	if len(oo.Issue) < 5 {
		t.Errorf("expected every missing field listed, got %d issues", len(oo.Issue))
	}
}

func TestHandler_Evaluate_BadJSON(t *testing.T) {
	e, _ := newTestServer()
	if rec := do(e, http.MethodPost, "/api/v1/evaluate", `{"age":`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ── Crash test ──

func TestHandler_CrashTest(t *testing.T) {
	obs := &countingObserver{}
	e, _ := newTestServer(WithObserver(obs))
	rec := do(e, http.MethodPost, "/api/v1/crashtest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body CrashTestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Result != "9/9" || !body.Healthy || len(body.Cases) != 9 {
		t.Errorf("unexpected report %s healthy=%v", body.Result, body.Healthy)
	}
	if len(obs.crash) != 2 || obs.crash[0] != 9 || obs.crash[1] != 9 {
		t.Errorf("expected observer to see 9/9, got %v", obs.crash)
	}
}

func TestService_CrashTestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := NewService(WithRunner(crashtest.NewRunner(crashtest.WithParallelism(1)))).CrashTest(ctx)
	if rep.Healthy() {
		t.Error("a cancelled battery must not be healthy")
	}
}

func TestHandler_CrashTestDeadline(t *testing.T) {
	e, h := newTestServer(WithRunner(crashtest.NewRunner(crashtest.WithParallelism(1))))
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/crashtest", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	err := h.CrashTest(e.NewContext(req, rec))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the deadline to surface, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected no report body, got %s", rec.Body.String())
	}
}
