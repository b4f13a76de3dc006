package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/domain/patient"
)

func TestInvalid_OneIssuePerField(t *testing.T) {
	verr := &patient.ValidationError{Fields: []patient.FieldError{
		{Field: "gcs", Reason: "must be between 3 and 15, got 2"},
		{Field: "sex", Reason: "is required"},
	}}
	out := Invalid(verr)
	if len(out.Issue) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(out.Issue))
	}
	if out.Issue[0].Expression[0] != "gcs" || out.Issue[0].Code != CodeInvalid {
		t.Errorf("unexpected first issue %+v", out.Issue[0])
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("wrap: %w", &patient.ValidationError{Fields: []patient.FieldError{{Field: "age", Reason: "is required"}}}), http.StatusUnprocessableEntity, CodeInvalid},
		{"not found", echo.NewHTTPError(http.StatusNotFound, "scenario/NOPE not found"), http.StatusNotFound, CodeNotFound},
		{"bad request", echo.NewHTTPError(http.StatusBadRequest, "malformed JSON"), http.StatusBadRequest, CodeStructure},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, CodeException},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			HTTPErrorHandler(tt.err, c)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var body OperationOutcome
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.ResourceType != "OperationOutcome" || body.Issue[0].Code != tt.code {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedIsNoop(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	HTTPErrorHandler(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Errorf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
