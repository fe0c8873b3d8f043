package analytics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) surveyAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		aggregate, err := h.service.Survey(ctx, strings.TrimSpace(chi.URLParam(r, "surveyId")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, aggregate)
	}
}

func (h *Handler) allSurveysHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		rollup, err := h.service.AllSurveys(ctx)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, rollup)
	}
}

func (h *Handler) questionOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		view, err := h.service.QuestionOptions(ctx, strings.TrimSpace(chi.URLParam(r, "questionId")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, view)
	}
}

func (h *Handler) responsesByPersonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		rows, err := h.service.ResponsesByPerson(ctx, strings.TrimSpace(chi.URLParam(r, "surveyId")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, rows)
	}
}

func (h *Handler) responsesByQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		grouped, err := h.service.ResponsesByQuestion(ctx, strings.TrimSpace(chi.URLParam(r, "surveyId")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, grouped)
	}
}

func (h *Handler) exportSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		attachment, err := h.service.ExportSummary(ctx,
			strings.TrimSpace(chi.URLParam(r, "surveyId")),
			strings.TrimSpace(chi.URLParam(r, "format")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		writeAttachment(w, attachment)
	}
}

func (h *Handler) exportAnswersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		attachment, err := h.service.ExportAnswers(ctx,
			strings.TrimSpace(chi.URLParam(r, "surveyId")),
			strings.TrimSpace(chi.URLParam(r, "format")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		writeAttachment(w, attachment)
	}
}

func (h *Handler) exportAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		attachment, err := h.service.ExportAll(ctx)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		writeAttachment(w, attachment)
	}
}

func writeAttachment(w http.ResponseWriter, attachment *application.Attachment) {
	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(attachment.Content)
}
