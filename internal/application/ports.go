package application

import (
	"context"
	"time"

	"github.com/surveyclub/survey-services/api/internal/domain"
)

// SurveyRepository exposes persistence for surveys.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]domain.Survey, error)
	FindByID(ctx context.Context, id string) (*domain.Survey, error)
	Create(ctx context.Context, survey *domain.Survey) error
	Update(ctx context.Context, id string, update SurveyUpdate) (*domain.Survey, error)
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// ResponseRepository exposes persistence for survey responses. Responses are
// append-only; there is no update operation.
type ResponseRepository interface {
	Insert(ctx context.Context, response *domain.Response) error
	FindBySurvey(ctx context.Context, surveyID string, paging Paging) ([]domain.Response, int64, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
	DeleteBySurvey(ctx context.Context, surveyID string) (int64, error)
}

// CategoryRepository exposes persistence for categories.
type CategoryRepository interface {
	Find(ctx context.Context, includeInactive bool) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// VoiceRepository exposes persistence for standalone voice recordings.
type VoiceRepository interface {
	Insert(ctx context.Context, voice *domain.Voice) error
	Find(ctx context.Context) ([]domain.Voice, error)
	FindByID(ctx context.Context, id string) (*domain.Voice, error)
}

// ObjectStorage persists uploaded media and returns a public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// SurveyFilter expresses admin search criteria. Zero-valued fields are
// ignored; text fields match case-insensitively as substrings.
type SurveyFilter struct {
	Title          string
	Description    string
	Status         string
	QuestionText   string
	QuestionType   string
	QuestionOption string
	From           *time.Time
	To             *time.Time
}

// Paging controls pagination. A zero Limit means no limit.
type Paging struct {
	Page  int
	Limit int
}

// Skip returns the number of records preceding the requested page.
func (p Paging) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// SurveyUpdate carries a partial survey update; nil fields are untouched.
type SurveyUpdate struct {
	Title       *string
	Description *string
	Status      *domain.SurveyStatus
	CategoryID  *string
	Questions   *[]domain.Question
}
