// Package public exposes the respondent-facing HTTP endpoints: fetching a
// survey form, submitting responses, and voice recordings.
package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger    *log.Logger
	surveys   application.SurveyService
	responses application.ResponseService
	voices    application.VoiceService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger    *log.Logger
	Surveys   application.SurveyService
	Responses application.ResponseService
	Voices    application.VoiceService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		surveys:   cfg.Surveys,
		responses: cfg.Responses,
		voices:    cfg.Voices,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys/{id}/respond", h.surveyRespondHandler())
	r.Post("/responses", h.responseSubmitHandler())
	r.Get("/responses/{surveyId}", h.responseListHandler())
	r.Post("/voices/upload", h.voiceUploadHandler())
	r.Get("/voices", h.voiceListHandler())
	r.Get("/voices/{id}", h.voiceDetailHandler())
}
