// Package cdshooks implements the HL7 CDS Hooks 2.0 REST surface: service
// discovery, hook invocation and card feedback.
package cdshooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neuroped/cds/internal/platform/outcome"
)

// Card indicators.
const (
	IndicatorInfo     = "info"
	IndicatorWarning  = "warning"
	IndicatorCritical = "critical"
)

// Feedback outcomes.
const (
	OutcomeAccepted   = "accepted"
	OutcomeOverridden = "overridden"
)

// ---------------------------------------------------------------------------
// CDS Hooks 2.0 types
// ---------------------------------------------------------------------------

// Service describes a single CDS service returned in discovery.
type Service struct {
	Hook              string            `json:"hook"`
	Title             string            `json:"title,omitempty"`
	Description       string            `json:"description"`
	ID                string            `json:"id"`
	Prefetch          map[string]string `json:"prefetch,omitempty"`
	UsageRequirements string            `json:"usageRequirements,omitempty"`
}

// Request is the payload POSTed to invoke a hook. Prefetch entries are kept
// raw so each service decodes its own shapes.
type Request struct {
	Hook         string                     `json:"hook"`
	HookInstance string                     `json:"hookInstance"`
	FHIRServer   string                     `json:"fhirServer,omitempty"`
	Context      map[string]any             `json:"context"`
	Prefetch     map[string]json.RawMessage `json:"prefetch,omitempty"`
}

// Card is a single card in the hook response.
type Card struct {
	UUID              string       `json:"uuid,omitempty"`
	Summary           string       `json:"summary"`
	Detail            string       `json:"detail,omitempty"`
	Indicator         string       `json:"indicator"`
	Source            Source       `json:"source"`
	Suggestions       []Suggestion `json:"suggestions,omitempty"`
	Links             []Link       `json:"links,omitempty"`
	OverrideReasons   []Coding     `json:"overrideReasons,omitempty"`
	SelectionBehavior string       `json:"selectionBehavior,omitempty"`
}

// Source identifies the source of a card.
type Source struct {
	Label string  `json:"label"`
	URL   string  `json:"url,omitempty"`
	Topic *Coding `json:"topic,omitempty"`
}

// Suggestion is a suggested action within a card.
type Suggestion struct {
	Label         string   `json:"label"`
	UUID          string   `json:"uuid,omitempty"`
	IsRecommended bool     `json:"isRecommended,omitempty"`
	Actions       []Action `json:"actions,omitempty"`
}

// Action is an individual action within a suggestion.
type Action struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Resource    any    `json:"resource,omitempty"`
}

// Link is an external link within a card.
type Link struct {
	Label      string `json:"label"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	AppContext string `json:"appContext,omitempty"`
}

// Coding is a code/system/display triple.
type Coding struct {
	Code    string `json:"code"`
	System  string `json:"system,omitempty"`
	Display string `json:"display,omitempty"`
}

// Response is returned from hook invocation.
type Response struct {
	Cards         []Card   `json:"cards"`
	SystemActions []Action `json:"systemActions,omitempty"`
}

// Feedback records what the user did with one card.
type Feedback struct {
	Card             string   `json:"card"`
	Outcome          string   `json:"outcome"`
	OverrideReasons  []Coding `json:"overrideReasons,omitempty"`
	OutcomeTimestamp string   `json:"outcomeTimestamp,omitempty"`
}

// FeedbackRequest is the feedback envelope.
type FeedbackRequest struct {
	Feedback []Feedback `json:"feedback"`
}

// ---------------------------------------------------------------------------
// Handler function types
// ---------------------------------------------------------------------------

// ServiceHandler processes a hook request and returns cards. Errors are
// rendered by the echo error handler, so typed errors keep their status.
type ServiceHandler func(ctx context.Context, req Request) (*Response, error)

// FeedbackHandler processes feedback for a service.
type FeedbackHandler func(ctx context.Context, serviceID string, fb Feedback) error

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// Handler serves the CDS Hooks REST API. Services are registered at start-up
// and read-only afterwards.
type Handler struct {
	services         map[string]Service
	handlers         map[string]ServiceHandler
	feedbackHandlers map[string]FeedbackHandler
	order            []string
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{
		services:         make(map[string]Service),
		handlers:         make(map[string]ServiceHandler),
		feedbackHandlers: make(map[string]FeedbackHandler),
	}
}

// RegisterService registers a CDS service and its handler.
func (h *Handler) RegisterService(svc Service, handler ServiceHandler) {
	if _, exists := h.services[svc.ID]; !exists {
		h.order = append(h.order, svc.ID)
	}
	h.services[svc.ID] = svc
	h.handlers[svc.ID] = handler
}

// RegisterFeedbackHandler registers an optional feedback handler for a service.
func (h *Handler) RegisterFeedbackHandler(serviceID string, handler FeedbackHandler) {
	h.feedbackHandlers[serviceID] = handler
}

// RegisterRoutes registers CDS Hooks routes on the root Echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cds-services", h.Discovery)
	e.POST("/cds-services/:id", h.HandleHook)
	e.POST("/cds-services/:id/feedback", h.HandleFeedback)
}

// Discovery handles GET /cds-services.
func (h *Handler) Discovery(c echo.Context) error {
	services := make([]Service, 0, len(h.order))
	for _, id := range h.order {
		services = append(services, h.services[id])
	}
	return c.JSON(http.StatusOK, map[string][]Service{
		"services": services,
	})
}

// HandleHook handles POST /cds-services/:id.
func (h *Handler) HandleHook(c echo.Context) error {
	serviceID := c.Param("id")

	svc, ok := h.services[serviceID]
	if !ok {
		return c.JSON(http.StatusNotFound, outcome.NotFound("CDS Service", serviceID))
	}

	var req Request
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeStructure, fmt.Sprintf("invalid request body: %v", err)))
	}

	if req.Hook != svc.Hook {
		return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeInvalid,
			fmt.Sprintf("hook mismatch: request hook %q does not match service hook %q", req.Hook, svc.Hook),
		))
	}

	if req.HookInstance == "" {
		return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeInvalid, "hookInstance is required"))
	}

	resp, err := h.handlers[serviceID](c.Request().Context(), req)
	if err != nil {
		return err
	}
	if resp.Cards == nil {
		resp.Cards = []Card{}
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleFeedback handles POST /cds-services/:id/feedback.
func (h *Handler) HandleFeedback(c echo.Context) error {
	serviceID := c.Param("id")

	if _, ok := h.services[serviceID]; !ok {
		return c.JSON(http.StatusNotFound, outcome.NotFound("CDS Service", serviceID))
	}

	var req FeedbackRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeStructure, fmt.Sprintf("invalid feedback body: %v", err)))
	}
	for _, fb := range req.Feedback {
		if fb.Card == "" || (fb.Outcome != OutcomeAccepted && fb.Outcome != OutcomeOverridden) {
			return c.JSON(http.StatusBadRequest, outcome.Error(outcome.CodeInvalid,
				"each feedback item needs a card and an outcome of accepted or overridden"))
		}
	}

	handler, ok := h.feedbackHandlers[serviceID]
	if !ok {
		return c.NoContent(http.StatusOK)
	}

	ctx := c.Request().Context()
	for _, fb := range req.Feedback {
		if err := handler(ctx, serviceID, fb); err != nil {
			return err
		}
	}

	return c.NoContent(http.StatusOK)
}
