package application

import (
	"context"
	"strings"
	"testing"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

const categoryID = "64a000000000000000000010"

type stubSurveyRepo struct {
	surveys map[string]*domain.Survey
	deleted []string
}

func (s *stubSurveyRepo) Find(_ context.Context, _ SurveyFilter, _ Paging) ([]domain.Survey, error) {
	out := make([]domain.Survey, 0, len(s.surveys))
	for _, survey := range s.surveys {
		out = append(out, *survey)
	}
	return out, nil
}

func (s *stubSurveyRepo) FindByID(_ context.Context, id string) (*domain.Survey, error) {
	if survey, ok := s.surveys[id]; ok {
		copied := *survey
		return &copied, nil
	}
	return nil, apperr.NotFound("survey not found: %s", id)
}

func (s *stubSurveyRepo) Create(_ context.Context, survey *domain.Survey) error {
	if s.surveys == nil {
		s.surveys = map[string]*domain.Survey{}
	}
	s.surveys[survey.ID] = survey
	return nil
}

func (s *stubSurveyRepo) Update(_ context.Context, id string, update SurveyUpdate) (*domain.Survey, error) {
	survey, ok := s.surveys[id]
	if !ok {
		return nil, apperr.NotFound("survey not found: %s", id)
	}
	if update.Title != nil {
		survey.Title = *update.Title
	}
	if update.Status != nil {
		survey.Status = *update.Status
	}
	copied := *survey
	return &copied, nil
}

func (s *stubSurveyRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.surveys[id]; !ok {
		return apperr.NotFound("survey not found: %s", id)
	}
	delete(s.surveys, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSurveyRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, survey := range s.surveys {
		if survey.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type stubResponseRepo struct {
	responses []domain.Response
	deleted   []string
}

func (s *stubResponseRepo) Insert(_ context.Context, response *domain.Response) error {
	s.responses = append(s.responses, *response)
	return nil
}

func (s *stubResponseRepo) FindBySurvey(_ context.Context, surveyID string, _ Paging) ([]domain.Response, int64, error) {
	out := make([]domain.Response, 0)
	for _, r := range s.responses {
		if surveyID == "" || r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubResponseRepo) CountBySurvey(_ context.Context, surveyID string) (int64, error) {
	_, total, _ := s.FindBySurvey(context.Background(), surveyID, Paging{})
	return total, nil
}

func (s *stubResponseRepo) DeleteBySurvey(_ context.Context, surveyID string) (int64, error) {
	kept := s.responses[:0]
	var removed int64
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.responses = kept
	s.deleted = append(s.deleted, surveyID)
	return removed, nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	deactived  []string
}

func (s *stubCategoryRepo) Find(_ context.Context, includeInactive bool) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if includeInactive || c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := s.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperr.NotFound("category not found: %s", id)
}

func (s *stubCategoryRepo) FindByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("category not found: %s", name)
}

func (s *stubCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if s.categories == nil {
		s.categories = map[string]*domain.Category{}
	}
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepo) SetActive(_ context.Context, id string, active bool) error {
	if c, ok := s.categories[id]; ok {
		c.IsActive = active
		if !active {
			s.deactived = append(s.deactived, id)
		}
		return nil
	}
	return apperr.NotFound("category not found: %s", id)
}

func (s *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.categories[id]; !ok {
		return apperr.NotFound("category not found: %s", id)
	}
	delete(s.categories, id)
	return nil
}

func openSurvey() *domain.Survey {
	return &domain.Survey{
		ID:     surveyID,
		Title:  "Demo",
		Status: domain.SurveyOpen,
		Questions: []domain.Question{
			{ID: questionID, Type: domain.QuestionRadio, QuestionText: "Pick", Options: []string{"A", "B"}},
		},
	}
}

func TestSubmitPersistsNormalizedResponse(t *testing.T) {
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: openSurvey()}}
	responses := &stubResponseRepo{}
	service := NewResponseService(surveys, responses, &stubCategoryRepo{})

	response, err := service.Submit(context.Background(), Submission{
		SurveyID: surveyID,
		Answers:  []SubmissionAnswer{{QuestionID: questionID, Answer: "A"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if response.ID == "" || !domain.IsValidID(response.ID) {
		t.Fatalf("response id = %q", response.ID)
	}
	if len(responses.responses) != 1 {
		t.Fatalf("persisted %d responses", len(responses.responses))
	}
	if got := responses.responses[0].Answers[0].Value; got.Text != "A" {
		t.Fatalf("stored value = %+v", got)
	}
}

func TestSubmitClosedSurveyConflicts(t *testing.T) {
	closed := openSurvey()
	closed.Status = domain.SurveyClosed
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: closed}}
	responses := &stubResponseRepo{}
	service := NewResponseService(surveys, responses, &stubCategoryRepo{})

	_, err := service.Submit(context.Background(), Submission{
		SurveyID: surveyID,
		Answers:  []SubmissionAnswer{{QuestionID: questionID, Answer: "A"}},
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
	if len(responses.responses) != 0 {
		t.Fatal("nothing may persist when the survey is closed")
	}
}

func TestSubmitInvalidAnswerPersistsNothing(t *testing.T) {
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: openSurvey()}}
	responses := &stubResponseRepo{}
	service := NewResponseService(surveys, responses, &stubCategoryRepo{})

	_, err := service.Submit(context.Background(), Submission{
		SurveyID: surveyID,
		Answers:  []SubmissionAnswer{{QuestionID: questionID, Answer: "Z"}},
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(responses.responses) != 0 {
		t.Fatal("invalid submissions must not persist")
	}
}

func TestSubmitEnforcesCategoryIdentity(t *testing.T) {
	survey := openSurvey()
	survey.CategoryID = categoryID
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: survey}}
	categories := &stubCategoryRepo{categories: map[string]*domain.Category{
		categoryID: {ID: categoryID, Name: "Staff", IsActive: true,
			Settings: domain.CategorySettings{AllowAnonymous: false}},
	}}
	service := NewResponseService(surveys, &stubResponseRepo{}, categories)

	_, err := service.Submit(context.Background(), Submission{
		SurveyID: surveyID,
		Answers:  []SubmissionAnswer{{QuestionID: questionID, Answer: "A"}},
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("anonymous submission should fail identity rules, got %v", err)
	}

	_, err = service.Submit(context.Background(), Submission{
		SurveyID: surveyID,
		Name:     "Alice",
		Email:    "alice@example.com",
		Answers:  []SubmissionAnswer{{QuestionID: questionID, Answer: "A"}},
	})
	if err != nil {
		t.Fatalf("identified submission should pass, got %v", err)
	}
}

func TestListBySurveyAllWildcard(t *testing.T) {
	responses := &stubResponseRepo{responses: []domain.Response{
		{ID: "r1", SurveyID: surveyID},
		{ID: "r2", SurveyID: "64a000000000000000000099"},
	}}
	service := NewResponseService(&stubSurveyRepo{}, responses, &stubCategoryRepo{})

	all, total, err := service.ListBySurvey(context.Background(), "all", Paging{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("total = %d, items = %d", total, len(all))
	}

	if _, _, err := service.ListBySurvey(context.Background(), "bogus", Paging{}); !apperr.IsValidation(err) {
		t.Fatalf("malformed id should fail, got %v", err)
	}
}

func TestRespondViewRequiresOpenSurvey(t *testing.T) {
	closed := openSurvey()
	closed.Status = domain.SurveyClosed
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: closed}}
	service := NewSurveyService(surveys, &stubResponseRepo{}, &stubCategoryRepo{})

	if _, _, err := service.RespondView(context.Background(), surveyID); !apperr.IsValidation(err) {
		t.Fatalf("closed survey should not be presentable, got %v", err)
	}

	closed.Status = domain.SurveyOpen
	survey, category, err := service.RespondView(context.Background(), surveyID)
	if err != nil {
		t.Fatalf("respond view: %v", err)
	}
	if survey.ID != surveyID || category != nil {
		t.Fatalf("survey=%+v category=%+v", survey, category)
	}
}

func TestSurveyDeleteBlockedByResponses(t *testing.T) {
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{surveyID: openSurvey()}}
	responses := &stubResponseRepo{responses: []domain.Response{{ID: "r1", SurveyID: surveyID}}}
	service := NewSurveyService(surveys, responses, &stubCategoryRepo{})

	err := service.Delete(context.Background(), surveyID, false)
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
	if len(surveys.deleted) != 0 {
		t.Fatal("survey must survive a blocked delete")
	}

	if err := service.Delete(context.Background(), surveyID, true); err != nil {
		t.Fatalf("forced delete: %v", err)
	}
	if len(responses.responses) != 0 {
		t.Fatal("forced delete must cascade responses")
	}
	if len(surveys.deleted) != 1 {
		t.Fatal("survey should be removed")
	}
}

func TestSurveyCreateValidation(t *testing.T) {
	service := NewSurveyService(&stubSurveyRepo{}, &stubResponseRepo{}, &stubCategoryRepo{})

	_, err := service.Create(context.Background(), UpsertSurveyCommand{Title: " ", Questions: []QuestionCommand{
		{Type: domain.QuestionText, QuestionText: "Q"},
	}})
	if !apperr.IsValidation(err) {
		t.Fatalf("blank title should fail, got %v", err)
	}

	_, err = service.Create(context.Background(), UpsertSurveyCommand{Title: "T", Questions: []QuestionCommand{
		{Type: domain.QuestionRadio, QuestionText: "Pick"},
	}})
	if !apperr.IsValidation(err) {
		t.Fatalf("choice question without options should fail, got %v", err)
	}

	survey, err := service.Create(context.Background(), UpsertSurveyCommand{Title: "T", Questions: []QuestionCommand{
		{Type: domain.QuestionRadio, QuestionText: "Pick", LegacyOptions: []string{"A"}},
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if survey.Status != domain.SurveyOpen {
		t.Fatalf("default status = %s", survey.Status)
	}
	q := survey.Questions[0]
	if !domain.IsValidID(q.ID) {
		t.Fatalf("question id not minted: %q", q.ID)
	}
	if len(q.Options) != 1 || q.Options[0] != "A" {
		t.Fatalf("legacy options not merged: %v", q.Options)
	}
}

func TestCategoryCreateRejectsDuplicateName(t *testing.T) {
	categories := &stubCategoryRepo{categories: map[string]*domain.Category{
		categoryID: {ID: categoryID, Name: "Staff", IsActive: true},
	}}
	service := NewCategoryService(categories, &stubSurveyRepo{})

	_, err := service.Create(context.Background(), UpsertCategoryCommand{Name: "staff"})
	if !apperr.IsConflict(err) {
		t.Fatalf("case-insensitive duplicate should conflict, got %v", err)
	}

	created, err := service.Create(context.Background(), UpsertCategoryCommand{Name: "Visitors"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive {
		t.Fatal("new categories default to active")
	}
}

func TestCategoryDeleteSoftAndForced(t *testing.T) {
	categories := &stubCategoryRepo{categories: map[string]*domain.Category{
		categoryID: {ID: categoryID, Name: "Staff", IsActive: true},
	}}
	surveys := &stubSurveyRepo{surveys: map[string]*domain.Survey{
		surveyID: {ID: surveyID, Title: "T", CategoryID: categoryID},
	}}
	service := NewCategoryService(categories, surveys)

	if err := service.Delete(context.Background(), categoryID, false); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if categories.categories[categoryID].IsActive {
		t.Fatal("soft delete must deactivate")
	}

	err := service.Delete(context.Background(), categoryID, true)
	if !apperr.IsConflict(err) {
		t.Fatalf("forced delete with referencing surveys should conflict, got %v", err)
	}

	surveys.surveys = map[string]*domain.Survey{}
	if err := service.Delete(context.Background(), categoryID, true); err != nil {
		t.Fatalf("forced delete: %v", err)
	}
	if _, ok := categories.categories[categoryID]; ok {
		t.Fatal("forced delete must remove the record")
	}
}
