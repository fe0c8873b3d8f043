// Package analytics exposes the aggregation and export endpoints.
package analytics

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/application"
)

// Handler wires analytics HTTP endpoints to the analytics service.
type Handler struct {
	logger  *log.Logger
	service application.AnalyticsService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *log.Logger
	Service application.AnalyticsService
}

// NewHandler constructs an analytics HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{logger: cfg.Logger, service: cfg.Service}
}

// Register mounts all analytics routes onto the router. Paths with literal
// segments register before the catch-all {surveyId} route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/all", h.allSurveysHandler())
	r.Get("/export-all/csv", h.exportAllHandler())
	r.Get("/export/{surveyId}/{format}", h.exportSummaryHandler())
	r.Get("/export-answers-by-question/{surveyId}/{format}", h.exportAnswersHandler())
	r.Get("/question/{questionId}/options", h.questionOptionsHandler())
	r.Get("/{surveyId}/responses-by-person", h.responsesByPersonHandler())
	r.Get("/{surveyId}/responses-by-question", h.responsesByQuestionHandler())
	r.Get("/{surveyId}", h.surveyAnalyticsHandler())
}
