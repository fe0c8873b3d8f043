package application

import (
	"context"
	"time"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// ResponseService covers submission ingestion and response listing.
type ResponseService interface {
	Submit(ctx context.Context, submission Submission) (*domain.Response, error)
	ListBySurvey(ctx context.Context, surveyID string, paging Paging) ([]domain.Response, int64, error)
}

type responseService struct {
	surveys    SurveyRepository
	responses  ResponseRepository
	categories CategoryRepository
}

func NewResponseService(surveys SurveyRepository, responses ResponseRepository, categories CategoryRepository) ResponseService {
	return &responseService{surveys: surveys, responses: responses, categories: categories}
}

// Submit validates the whole submission before any write. The survey must
// exist and be open, the respondent identity must satisfy the category rules,
// and every answer must normalize against its question. Only then does the
// response persist, in a single insert.
func (s *responseService) Submit(ctx context.Context, submission Submission) (*domain.Response, error) {
	if submission.SurveyID == "" {
		return nil, apperr.Validation("surveyId is required")
	}
	if !domain.IsValidID(submission.SurveyID) {
		return nil, apperr.Validation("invalid survey id: %s", submission.SurveyID)
	}
	if len(submission.Answers) == 0 {
		return nil, apperr.Validation("answers must not be empty")
	}

	survey, err := s.surveys.FindByID(ctx, submission.SurveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status != domain.SurveyOpen {
		return nil, apperr.Conflict("survey is closed and no longer accepts responses")
	}

	category, err := s.surveyCategory(ctx, survey)
	if err != nil {
		return nil, err
	}
	if err := ValidateIdentity(category, submission.Name, submission.Email); err != nil {
		return nil, err
	}

	answers, err := NormalizeAnswers(survey, submission.Answers)
	if err != nil {
		return nil, err
	}

	response := &domain.Response{
		ID:        domain.NewID(),
		SurveyID:  survey.ID,
		Answers:   answers,
		Name:      submission.Name,
		Email:     submission.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.responses.Insert(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListBySurvey returns responses newest-first. The literal surveyID "all"
// lists responses across every survey.
func (s *responseService) ListBySurvey(ctx context.Context, surveyID string, paging Paging) ([]domain.Response, int64, error) {
	if surveyID == "all" {
		return s.responses.FindBySurvey(ctx, "", paging)
	}
	if !domain.IsValidID(surveyID) {
		return nil, 0, apperr.Validation("invalid survey id: %s", surveyID)
	}
	return s.responses.FindBySurvey(ctx, surveyID, paging)
}

// surveyCategory resolves the survey's category, tolerating a dangling
// reference: identity rules simply do not apply when the category is gone.
func (s *responseService) surveyCategory(ctx context.Context, survey *domain.Survey) (*domain.Category, error) {
	if survey.CategoryID == "" {
		return nil, nil
	}
	category, err := s.categories.FindByID(ctx, survey.CategoryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}
