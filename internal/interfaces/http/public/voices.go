package public

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) voiceUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid multipart form: %v", err))
			return
		}
		file, header, err := r.FormFile("voiceAnswer")
		if err != nil {
			file, header, err = r.FormFile("voice")
		}
		if err != nil {
			common.WriteError(h.logger, w, apperr.Validation("voice file is required"))
			return
		}
		defer file.Close()

		body, err := io.ReadAll(io.LimitReader(file, maxSubmissionBytes))
		if err != nil {
			common.WriteError(h.logger, w, apperr.Validation("unreadable voice file"))
			return
		}

		voice, err := h.voices.Upload(ctx, application.VoiceUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        body,
			SurveyID:    strings.TrimSpace(r.FormValue("surveyId")),
			QuestionID:  strings.TrimSpace(r.FormValue("questionId")),
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildVoiceResponse(voice))
	}
}

func (h *Handler) voiceListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		voices, err := h.voices.List(ctx)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		items := make([]voiceResponse, 0, len(voices))
		for i := range voices {
			items = append(items, buildVoiceResponse(&voices[i]))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) voiceDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		voice, err := h.voices.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildVoiceResponse(voice))
	}
}
