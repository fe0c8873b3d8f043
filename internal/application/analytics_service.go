package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/surveyclub/survey-services/api/internal/analytics"
	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
	"github.com/surveyclub/survey-services/api/internal/export"
)

// Attachment is a rendered export: body bytes plus the download metadata the
// transport needs to set its headers.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// QuestionOptionsView lists the declared options of one question together
// with the survey that owns it.
type QuestionOptionsView struct {
	SurveyID     string              `json:"surveyId"`
	SurveyTitle  string              `json:"surveyTitle"`
	QuestionID   string              `json:"questionId"`
	QuestionText string              `json:"question"`
	Type         domain.QuestionType `json:"type"`
	Options      []string            `json:"options"`
}

// RespondentAnswers groups one response's answers keyed by question text.
type RespondentAnswers struct {
	ResponseID  string            `json:"responseId"`
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Answers     map[string]string `json:"answers"`
}

// QuestionAnswers groups every answer given to one question.
type QuestionAnswers struct {
	QuestionID   string              `json:"questionId"`
	QuestionText string              `json:"question"`
	Type         domain.QuestionType `json:"type"`
	Answers      []QuestionAnswer    `json:"answers"`
}

// QuestionAnswer is one respondent's flattened answer to a question.
type QuestionAnswer struct {
	ResponseID  string    `json:"responseId"`
	Name        string    `json:"name,omitempty"`
	Answer      string    `json:"answer"`
	Reason      string    `json:"reason,omitempty"`
	VoiceURL    string    `json:"voiceUrl,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// AnalyticsService aggregates responses into statistics and renders export
// attachments.
type AnalyticsService interface {
	Survey(ctx context.Context, surveyID string) (*analytics.SurveyAnalytics, error)
	AllSurveys(ctx context.Context) (*analytics.AllSurveysAnalytics, error)
	QuestionOptions(ctx context.Context, questionID string) (*QuestionOptionsView, error)
	ResponsesByPerson(ctx context.Context, surveyID string) ([]RespondentAnswers, error)
	ResponsesByQuestion(ctx context.Context, surveyID string) ([]QuestionAnswers, error)
	ExportSummary(ctx context.Context, surveyID, format string) (*Attachment, error)
	ExportAnswers(ctx context.Context, surveyID, format string) (*Attachment, error)
	ExportAll(ctx context.Context) (*Attachment, error)
}

type analyticsService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	now       func() time.Time
}

func NewAnalyticsService(surveys SurveyRepository, responses ResponseRepository) AnalyticsService {
	return &analyticsService{surveys: surveys, responses: responses, now: time.Now}
}

func (s *analyticsService) Survey(ctx context.Context, surveyID string) (*analytics.SurveyAnalytics, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	aggregate := analytics.Aggregate(*survey, responses)
	return &aggregate, nil
}

func (s *analyticsService) AllSurveys(ctx context.Context) (*analytics.AllSurveysAnalytics, error) {
	surveys, err := s.surveys.Find(ctx, SurveyFilter{}, Paging{})
	if err != nil {
		return nil, err
	}
	responses, _, err := s.responses.FindBySurvey(ctx, "", Paging{})
	if err != nil {
		return nil, err
	}
	rollup := analytics.Rollup(surveys, responses)
	return &rollup, nil
}

// QuestionOptions scans surveys for the question since questions live
// embedded in their parent documents.
func (s *analyticsService) QuestionOptions(ctx context.Context, questionID string) (*QuestionOptionsView, error) {
	if !domain.IsValidID(questionID) {
		return nil, apperr.Validation("invalid question id: %s", questionID)
	}
	surveys, err := s.surveys.Find(ctx, SurveyFilter{}, Paging{})
	if err != nil {
		return nil, err
	}
	for i := range surveys {
		if q, ok := surveys[i].QuestionByID(questionID); ok {
			return &QuestionOptionsView{
				SurveyID:     surveys[i].ID,
				SurveyTitle:  surveys[i].Title,
				QuestionID:   q.ID,
				QuestionText: q.QuestionText,
				Type:         q.Type,
				Options:      q.Options,
			}, nil
		}
	}
	return nil, apperr.NotFound("question not found: %s", questionID)
}

func (s *analyticsService) ResponsesByPerson(ctx context.Context, surveyID string) ([]RespondentAnswers, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	rows := make([]RespondentAnswers, 0, len(responses))
	for _, r := range responses {
		answers := make(map[string]string, len(survey.Questions))
		for _, q := range survey.Questions {
			if a, ok := r.AnswerTo(q.ID); ok && !a.Value.IsNull() {
				answers[q.QuestionText] = a.Value.Flatten(", ")
			}
		}
		rows = append(rows, RespondentAnswers{
			ResponseID:  r.ID,
			Name:        r.Name,
			Email:       r.Email,
			SubmittedAt: r.CreatedAt,
			Answers:     answers,
		})
	}
	return rows, nil
}

func (s *analyticsService) ResponsesByQuestion(ctx context.Context, surveyID string) ([]QuestionAnswers, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	grouped := make([]QuestionAnswers, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		group := QuestionAnswers{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			Type:         q.Type,
			Answers:      []QuestionAnswer{},
		}
		for _, r := range responses {
			a, ok := r.AnswerTo(q.ID)
			if !ok || a.Value.IsNull() {
				continue
			}
			group.Answers = append(group.Answers, QuestionAnswer{
				ResponseID:  r.ID,
				Name:        r.Name,
				Answer:      a.Value.Flatten(", "),
				Reason:      a.Reason,
				VoiceURL:    a.VoiceAnswerURL,
				SubmittedAt: r.CreatedAt,
			})
		}
		grouped = append(grouped, group)
	}
	return grouped, nil
}

func (s *analyticsService) ExportSummary(ctx context.Context, surveyID, format string) (*Attachment, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	aggregate := analytics.Aggregate(*survey, responses)
	now := s.now()

	switch format {
	case "csv":
		body, err := export.SummaryCSV(aggregate.Questions)
		if err != nil {
			return nil, apperr.Internal("render analytics csv", err)
		}
		return &Attachment{
			Filename:    export.SummaryCSVFilename(survey.Title, now),
			ContentType: "text/csv",
			Content:     body,
		}, nil
	case "json":
		body, err := export.SummaryJSON(aggregate)
		if err != nil {
			return nil, apperr.Internal("render analytics json", err)
		}
		return &Attachment{
			Filename:    export.SummaryJSONFilename(survey.Title, now),
			ContentType: "application/json",
			Content:     body,
		}, nil
	}
	return nil, apperr.Validation("unsupported export format: %s", format)
}

func (s *analyticsService) ExportAnswers(ctx context.Context, surveyID, format string) (*Attachment, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	switch format {
	case "csv":
		body, err := export.AnswersByRespondentCSV(*survey, responses)
		if err != nil {
			return nil, apperr.Internal("render answers csv", err)
		}
		return &Attachment{
			Filename:    export.AnswersCSVFilename(survey.Title, now),
			ContentType: "text/csv",
			Content:     body,
		}, nil
	case "json":
		rows, err := s.ResponsesByPerson(ctx, surveyID)
		if err != nil {
			return nil, err
		}
		body, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, apperr.Internal("render answers json", err)
		}
		return &Attachment{
			Filename:    export.SummaryJSONFilename(survey.Title, now),
			ContentType: "application/json",
			Content:     body,
		}, nil
	}
	return nil, apperr.Validation("unsupported export format: %s", format)
}

func (s *analyticsService) ExportAll(ctx context.Context) (*Attachment, error) {
	rollup, err := s.AllSurveys(ctx)
	if err != nil {
		return nil, err
	}
	body, err := export.CompleteCSV(*rollup)
	if err != nil {
		return nil, apperr.Internal("render complete csv", err)
	}
	return &Attachment{
		Filename:    export.CompleteCSVFilename(s.now()),
		ContentType: "text/csv",
		Content:     body,
	}, nil
}

func (s *analyticsService) load(ctx context.Context, surveyID string) (*domain.Survey, []domain.Response, error) {
	if !domain.IsValidID(surveyID) {
		return nil, nil, apperr.Validation("invalid survey id: %s", surveyID)
	}
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	responses, _, err := s.responses.FindBySurvey(ctx, surveyID, Paging{})
	if err != nil {
		return nil, nil, err
	}
	return survey, responses, nil
}
