package evaluation

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/domain/crashtest"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/scenario"
	"github.com/neuroped/cds/internal/platform/outcome"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/scenarios", h.ListScenarios)
	api.GET("/scenarios/:key", h.GetScenario)
	api.POST("/scenarios/:key/evaluate", h.EvaluateScenario)
	api.POST("/evaluate", h.Evaluate)
	api.POST("/crashtest", h.CrashTest)
}

// ScenarioResponse pairs a fixture with its evaluated record.
type ScenarioResponse struct {
	Scenario scenario.Summary `json:"scenario"`
	Record   *patient.Record  `json:"record"`
}

// CrashTestResponse is the battery report with its rendered summary.
type CrashTestResponse struct {
	Result  string `json:"result"`
	Healthy bool   `json:"healthy"`
	crashtest.Report
}

func (h *Handler) ListScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, scenario.List())
}

func (h *Handler) GetScenario(c echo.Context) error {
	sc, err := scenario.Get(c.Param("key"))
	if err != nil {
		return c.JSON(http.StatusNotFound, outcome.NotFound("Scenario", c.Param("key")))
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) EvaluateScenario(c echo.Context) error {
	sc, rec, err := h.svc.EvaluateScenario(c.Request().Context(), c.Param("key"))
	if errors.Is(err, scenario.ErrUnknown) {
		return c.JSON(http.StatusNotFound, outcome.NotFound("Scenario", c.Param("key")))
	}
	if err != nil {
		return evaluationError(c, err)
	}
	return c.JSON(http.StatusOK, ScenarioResponse{
		Scenario: scenario.Summary{Key: sc.Key, Label: sc.Label},
		Record:   rec,
	})
}

func (h *Handler) Evaluate(c echo.Context) error {
	var in patient.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeStructure, "malformed patient JSON"))
	}
	rec, err := h.svc.Evaluate(c.Request().Context(), in)
	if err != nil {
		return evaluationError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) CrashTest(c echo.Context) error {
	ctx := c.Request().Context()
	rep := h.svc.CrashTest(ctx)
	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	status := http.StatusOK
	if !rep.Healthy() {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, CrashTestResponse{Result: rep.Summary(), Healthy: rep.Healthy(), Report: rep})
}

func evaluationError(c echo.Context, err error) error {
	var verr *patient.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusUnprocessableEntity, outcome.Invalid(verr))
	}
	return err
}
