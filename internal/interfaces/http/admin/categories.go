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

func (h *Handler) categoryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		includeInactive := common.ParseBool(r.URL.Query().Get("includeInactive"))
		categories, err := h.categories.List(ctx, includeInactive)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]categoryResponse, 0, len(categories))
		for i := range categories {
			items = append(items, buildCategoryResponse(&categories[i]))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) categoryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid JSON body: %v", err))
			return
		}

		category, err := h.categories.Create(ctx, buildCategoryCommand(req))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildCategoryResponse(category))
	}
}

func (h *Handler) categoryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		category, err := h.categories.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCategoryResponse(category))
	}
}

func (h *Handler) categoryUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, apperr.Validation("invalid JSON body: %v", err))
			return
		}

		category, err := h.categories.Update(ctx, strings.TrimSpace(chi.URLParam(r, "id")), buildCategoryCommand(req))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildCategoryResponse(category))
	}
}

// categoryDeleteHandler deactivates a category, or removes it permanently
// when force is set and nothing references it.
func (h *Handler) categoryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		force := common.ParseBool(r.URL.Query().Get("force"))
		if err := h.categories.Delete(ctx, strings.TrimSpace(chi.URLParam(r, "id")), force); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		status := "deactivated"
		if force {
			status = "deleted"
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": status})
	}
}

func buildCategoryCommand(req categoryRequest) application.UpsertCategoryCommand {
	return application.UpsertCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
		Settings: domain.CategorySettings{
			NameRequired:   req.NameRequired,
			EmailRequired:  req.EmailRequired,
			AllowAnonymous: req.AllowAnonymous,
		},
		IsActive: req.IsActive,
	}
}
