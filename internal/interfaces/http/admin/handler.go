// Package admin exposes the JWT-protected management endpoints for surveys
// and categories.
package admin

import (
	"log"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	surveys       application.SurveyService
	categories    application.CategoryService
	publicBaseURL string
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger        *log.Logger
	Surveys       application.SurveyService
	Categories    application.CategoryService
	PublicBaseURL string
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		surveys:       cfg.Surveys,
		categories:    cfg.Categories,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Register mounts all admin routes onto the router. The caller is expected
// to wrap the router with authentication middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Post("/surveys", h.surveyCreateHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Patch("/surveys/{id}", h.surveyUpdateHandler())
	r.Patch("/surveys/{id}/status", h.surveyStatusHandler())
	r.Delete("/surveys/{id}", h.surveyDeleteHandler())
	r.Get("/surveys/{id}/has-responses", h.surveyHasResponsesHandler())
	r.Get("/surveys/{id}/link", h.surveyLinkHandler())

	r.Get("/categories", h.categoryListHandler())
	r.Post("/categories", h.categoryCreateHandler())
	r.Get("/categories/{id}", h.categoryDetailHandler())
	r.Put("/categories/{id}", h.categoryUpdateHandler())
	r.Delete("/categories/{id}", h.categoryDeleteHandler())
}
