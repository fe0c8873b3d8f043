package application

import (
	"context"
	"strings"
	"time"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// SurveyService covers admin survey management and the public respond view.
type SurveyService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	Detail(ctx context.Context, id string) (*domain.Survey, error)
	Create(ctx context.Context, cmd UpsertSurveyCommand) (*domain.Survey, error)
	Update(ctx context.Context, id string, update SurveyUpdate) (*domain.Survey, error)
	UpdateStatus(ctx context.Context, id string, status domain.SurveyStatus) (*domain.Survey, error)
	Delete(ctx context.Context, id string, force bool) error
	HasResponses(ctx context.Context, id string) (bool, int64, error)
	RespondView(ctx context.Context, id string) (*domain.Survey, *domain.Category, error)
}

// UpsertSurveyCommand carries inputs for survey creation.
type UpsertSurveyCommand struct {
	Title       string
	Description string
	Status      domain.SurveyStatus
	CategoryID  string
	Questions   []QuestionCommand
}

// QuestionCommand is one inbound question definition.
type QuestionCommand struct {
	ID                   string
	Type                 domain.QuestionType
	QuestionText         string
	Options              []string
	LegacyOptions        []string
	RequireReason        bool
	ChoiceReasonSettings map[string]bool
}

type surveyService struct {
	surveys    SurveyRepository
	responses  ResponseRepository
	categories CategoryRepository
}

func NewSurveyService(surveys SurveyRepository, responses ResponseRepository, categories CategoryRepository) SurveyService {
	return &surveyService{surveys: surveys, responses: responses, categories: categories}
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error) {
	return s.surveys.Find(ctx, filter, paging)
}

func (s *surveyService) Detail(ctx context.Context, id string) (*domain.Survey, error) {
	if !domain.IsValidID(id) {
		return nil, apperr.Validation("invalid survey id: %s", id)
	}
	return s.surveys.FindByID(ctx, id)
}

func (s *surveyService) Create(ctx context.Context, cmd UpsertSurveyCommand) (*domain.Survey, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if len(cmd.Questions) == 0 {
		return nil, apperr.Validation("questions must not be empty")
	}
	status := cmd.Status
	if status == "" {
		status = domain.SurveyOpen
	}
	if !status.Valid() {
		return nil, apperr.Validation("invalid status: %s", status)
	}
	if cmd.CategoryID != "" {
		if !domain.IsValidID(cmd.CategoryID) {
			return nil, apperr.Validation("invalid category id: %s", cmd.CategoryID)
		}
		if _, err := s.categories.FindByID(ctx, cmd.CategoryID); err != nil {
			return nil, err
		}
	}
	questions, err := buildQuestions(cmd.Questions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	survey := &domain.Survey{
		ID:          domain.NewID(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Status:      status,
		CategoryID:  cmd.CategoryID,
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id string, update SurveyUpdate) (*domain.Survey, error) {
	if !domain.IsValidID(id) {
		return nil, apperr.Validation("invalid survey id: %s", id)
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, apperr.Validation("invalid status: %s", *update.Status)
	}
	if update.CategoryID != nil && *update.CategoryID != "" {
		if !domain.IsValidID(*update.CategoryID) {
			return nil, apperr.Validation("invalid category id: %s", *update.CategoryID)
		}
		if _, err := s.categories.FindByID(ctx, *update.CategoryID); err != nil {
			return nil, err
		}
	}
	if update.Questions != nil {
		for i := range *update.Questions {
			q := &(*update.Questions)[i]
			if q.ID == "" {
				q.ID = domain.NewID()
			}
		}
	}
	return s.surveys.Update(ctx, id, update)
}

func (s *surveyService) UpdateStatus(ctx context.Context, id string, status domain.SurveyStatus) (*domain.Survey, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be open or closed")
	}
	return s.Update(ctx, id, SurveyUpdate{Status: &status})
}

// Delete refuses to remove a survey that still has responses unless force is
// set, in which case the responses cascade first.
func (s *surveyService) Delete(ctx context.Context, id string, force bool) error {
	if !domain.IsValidID(id) {
		return apperr.Validation("invalid survey id: %s", id)
	}
	if _, err := s.surveys.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.responses.CountBySurvey(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		if !force {
			return apperr.Conflict("survey has %d responses; pass force=true to delete them as well", count)
		}
		if _, err := s.responses.DeleteBySurvey(ctx, id); err != nil {
			return err
		}
	}
	return s.surveys.Delete(ctx, id)
}

func (s *surveyService) HasResponses(ctx context.Context, id string) (bool, int64, error) {
	if !domain.IsValidID(id) {
		return false, 0, apperr.Validation("invalid survey id: %s", id)
	}
	count, err := s.responses.CountBySurvey(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return count > 0, count, nil
}

// RespondView loads the survey together with its category so the public form
// can render identity requirements. Only open surveys are presentable; a
// dangling category resolves to nil.
func (s *surveyService) RespondView(ctx context.Context, id string) (*domain.Survey, *domain.Category, error) {
	survey, err := s.Detail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if survey.Status != domain.SurveyOpen {
		return nil, nil, apperr.Validation("survey is not open for responses")
	}
	if survey.CategoryID == "" {
		return survey, nil, nil
	}
	category, err := s.categories.FindByID(ctx, survey.CategoryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return survey, nil, nil
		}
		return nil, nil, err
	}
	return survey, category, nil
}

// buildQuestions mints ids for new questions and merges the two historical
// option field spellings into one list.
func buildQuestions(cmds []QuestionCommand) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(cmds))
	for _, cmd := range cmds {
		if !cmd.Type.Valid() {
			return nil, apperr.Validation("invalid question type: %s", cmd.Type)
		}
		if strings.TrimSpace(cmd.QuestionText) == "" {
			return nil, apperr.Validation("question text is required")
		}
		options := cmd.Options
		if len(options) == 0 {
			options = cmd.LegacyOptions
		}
		if cmd.Type.IsChoice() && len(options) == 0 {
			return nil, apperr.Validation("question %q needs at least one option", cmd.QuestionText)
		}
		id := cmd.ID
		if id == "" {
			id = domain.NewID()
		}
		questions = append(questions, domain.Question{
			ID:                   id,
			Type:                 cmd.Type,
			QuestionText:         cmd.QuestionText,
			Options:              options,
			RequireReason:        cmd.RequireReason,
			ChoiceReasonSettings: cmd.ChoiceReasonSettings,
		})
	}
	return questions, nil
}
