package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/domain"
	"github.com/surveyclub/survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		filter := application.SurveyFilter{
			Title:          strings.TrimSpace(query.Get("title")),
			Description:    strings.TrimSpace(query.Get("description")),
			Status:         strings.TrimSpace(query.Get("status")),
			QuestionText:   strings.TrimSpace(query.Get("questionText")),
			QuestionType:   strings.TrimSpace(query.Get("questionType")),
			QuestionOption: strings.TrimSpace(query.Get("questionOption")),
		}
		if from, ok := parseDate(query.Get("from")); ok {
			filter.From = &from
		}
		if to, ok := parseDate(query.Get("to")); ok {
			filter.To = &to
		}

		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 20)

		surveys, err := h.surveys.List(ctx, filter, application.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]surveyResponse, 0, len(surveys))
		for i := range surveys {
			items = append(items, buildSurveyResponse(&surveys[i]))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"items": items,
			"page":  page,
			"limit": limit,
		})
	}
}

func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req surveyCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid JSON body: %v", err))
			return
		}

		survey, err := h.surveys.Create(ctx, application.UpsertSurveyCommand{
			Title:       req.Title,
			Description: req.Description,
			Status:      domain.SurveyStatus(req.Status),
			CategoryID:  req.CategoryID,
			Questions:   buildQuestionCommands(req.Questions),
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildSurveyResponse(survey))
	}
}

func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveys.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSurveyResponse(survey))
	}
}

func (h *Handler) surveyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req surveyUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid JSON body: %v", err))
			return
		}

		update := application.SurveyUpdate{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		}
		if req.Status != nil {
			status := domain.SurveyStatus(*req.Status)
			update.Status = &status
		}
		if req.Questions != nil {
			questions, err := buildUpdateQuestions(*req.Questions)
			if err != nil {
				common.WriteError(h.logger, w, err)
				return
			}
			update.Questions = &questions
		}

		survey, err := h.surveys.Update(ctx, strings.TrimSpace(chi.URLParam(r, "id")), update)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSurveyResponse(survey))
	}
}

func (h *Handler) surveyStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req surveyStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid JSON body: %v", err))
			return
		}

		survey, err := h.surveys.UpdateStatus(ctx, strings.TrimSpace(chi.URLParam(r, "id")), domain.SurveyStatus(req.Status))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSurveyResponse(survey))
	}
}

// surveyDeleteHandler removes a survey. Deleting a survey together with its
// responses is restricted to super admins.
func (h *Handler) surveyDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		force := common.ParseBool(r.URL.Query().Get("force"))
		if force {
			user, ok := common.UserFromContext(r.Context())
			if !ok || !user.IsSuperAdmin() {
				common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{
					"error": "forced deletion requires the super admin role",
				})
				return
			}
		}

		if err := h.surveys.Delete(ctx, strings.TrimSpace(chi.URLParam(r, "id")), force); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *Handler) surveyHasResponsesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		has, count, err := h.surveys.HasResponses(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"hasResponses": has,
			"count":        count,
		})
	}
}

func (h *Handler) surveyLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveys.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"surveyId": survey.ID,
			"link":     h.publicBaseURL + "/surveys/" + survey.ID + "/respond",
		})
	}
}

func buildUpdateQuestions(reqs []questionRequest) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(reqs))
	for _, q := range reqs {
		questionType := domain.QuestionType(q.Type)
		if !questionType.Valid() {
			return nil, apperr.Validation("invalid question type: %s", q.Type)
		}
		options := q.Options
		if len(options) == 0 {
			options = q.LegacyOptions
		}
		questions = append(questions, domain.Question{
			ID:                   q.ID,
			Type:                 questionType,
			QuestionText:         q.QuestionText,
			Options:              options,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	return questions, nil
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
