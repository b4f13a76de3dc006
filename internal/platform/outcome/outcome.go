// Package outcome renders API errors as FHIR OperationOutcome resources.
package outcome

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/domain/patient"
)

// Issue codes used by this service.
const (
	CodeProcessing = "processing"
	CodeNotFound   = "not-found"
	CodeInvalid    = "invalid"
	CodeStructure  = "structure"
	CodeTimeout    = "timeout"
	CodeTooCostly  = "too-costly"
	CodeException  = "exception"
)

// OperationOutcome represents a FHIR OperationOutcome for errors.
type OperationOutcome struct {
	ResourceType string  `json:"resourceType"`
	Issue        []Issue `json:"issue"`
}

type Issue struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics,omitempty"`
	Expression  []string `json:"expression,omitempty"`
}

func New(severity, code, diagnostics string) *OperationOutcome {
	return &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue: []Issue{
			{
				Severity:    severity,
				Code:        code,
				Diagnostics: diagnostics,
			},
		},
	}
}

func Error(code, diagnostics string) *OperationOutcome {
	return New("error", code, diagnostics)
}

func NotFound(kind, id string) *OperationOutcome {
	return Error(CodeNotFound, kind+"/"+id+" not found")
}

// Invalid lists one issue per rejected patient field.
func Invalid(verr *patient.ValidationError) *OperationOutcome {
	out := &OperationOutcome{ResourceType: "OperationOutcome", Issue: make([]Issue, 0, len(verr.Fields))}
	for _, f := range verr.Fields {
		out.Issue = append(out.Issue, Issue{
			Severity:    "error",
			Code:        CodeInvalid,
			Diagnostics: f.Field + " " + f.Reason,
			Expression:  []string{f.Field},
		})
	}
	return out
}

// HTTPErrorHandler renders every error reaching echo as an OperationOutcome.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := Error(CodeException, "internal server error")

	var verr *patient.ValidationError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		status, body = http.StatusUnprocessableEntity, Invalid(verr)
	case errors.As(err, &herr):
		status = herr.Code
		msg, ok := herr.Message.(string)
		if !ok {
			msg = http.StatusText(herr.Code)
		}
		body = Error(codeFor(herr.Code), msg)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func codeFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeStructure
	case http.StatusUnprocessableEntity:
		return CodeInvalid
	case http.StatusGatewayTimeout:
		return CodeTimeout
	case http.StatusRequestEntityTooLarge:
		return CodeTooCostly
	case http.StatusInternalServerError:
		return CodeException
	default:
		return CodeProcessing
	}
}
