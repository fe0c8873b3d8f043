package admin

import (
	"time"

	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

type questionRequest struct {
	ID                   string          `json:"id,omitempty"`
	Type                 string          `json:"type"`
	QuestionText         string          `json:"questionText"`
	Options              []string        `json:"options,omitempty"`
	LegacyOptions        []string        `json:"Option,omitempty"`
	RequireReason        bool            `json:"requireReason,omitempty"`
	ChoiceReasonSettings map[string]bool `json:"choiceReasonSettings,omitempty"`
}

type surveyCreateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status,omitempty"`
	CategoryID  string            `json:"categoryId,omitempty"`
	Questions   []questionRequest `json:"questions"`
}

type surveyUpdateRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *string            `json:"status,omitempty"`
	CategoryID  *string            `json:"categoryId,omitempty"`
	Questions   *[]questionRequest `json:"questions,omitempty"`
}

type surveyStatusRequest struct {
	Status string `json:"status"`
}

type questionResponse struct {
	ID                   string          `json:"id"`
	Type                 string          `json:"type"`
	QuestionText         string          `json:"questionText"`
	Options              []string        `json:"options,omitempty"`
	RequireReason        bool            `json:"requireReason,omitempty"`
	ChoiceReasonSettings map[string]bool `json:"choiceReasonSettings,omitempty"`
}

type surveyResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	CategoryID  string             `json:"categoryId,omitempty"`
	Questions   []questionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type categoryRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	NameRequired   bool   `json:"nameRequired"`
	EmailRequired  bool   `json:"emailRequired"`
	AllowAnonymous bool   `json:"allowAnonymous"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

type categoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	NameRequired   bool      `json:"nameRequired"`
	EmailRequired  bool      `json:"emailRequired"`
	AllowAnonymous bool      `json:"allowAnonymous"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func buildSurveyResponse(s *domain.Survey) surveyResponse {
	questions := make([]questionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, questionResponse{
			ID:                   q.ID,
			Type:                 string(q.Type),
			QuestionText:         q.QuestionText,
			Options:              q.Options,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	return surveyResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		CategoryID:  s.CategoryID,
		Questions:   questions,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func buildCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		NameRequired:   c.Settings.NameRequired,
		EmailRequired:  c.Settings.EmailRequired,
		AllowAnonymous: c.Settings.AllowAnonymous,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func buildQuestionCommands(reqs []questionRequest) []application.QuestionCommand {
	commands := make([]application.QuestionCommand, 0, len(reqs))
	for _, q := range reqs {
		commands = append(commands, application.QuestionCommand{
			ID:                   q.ID,
			Type:                 domain.QuestionType(q.Type),
			QuestionText:         q.QuestionText,
			Options:              q.Options,
			LegacyOptions:        q.LegacyOptions,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	return commands
}
