package application

import (
	"strings"
	"testing"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

const (
	surveyID   = "64a000000000000000000001"
	questionID = "64a000000000000000000002"
	question2  = "64a000000000000000000003"
)

func TestValidateIdentity(t *testing.T) {
	strict := &domain.Category{Settings: domain.CategorySettings{AllowAnonymous: false}}
	nameOnly := &domain.Category{Settings: domain.CategorySettings{AllowAnonymous: true, NameRequired: true}}
	open := &domain.Category{Settings: domain.CategorySettings{AllowAnonymous: true}}

	cases := []struct {
		name     string
		category *domain.Category
		inName   string
		inEmail  string
		wantErr  bool
	}{
		{"nil category accepts anonymous", nil, "", "", false},
		{"nil category rejects malformed email", nil, "", "not-an-email", true},
		{"strict requires both", strict, "", "", true},
		{"strict requires email too", strict, "Alice", "", true},
		{"strict passes with both", strict, "Alice", "alice@example.com", false},
		{"nameRequired rejects empty name", nameOnly, "", "", true},
		{"nameRequired passes with name", nameOnly, "Alice", "", false},
		{"open category accepts anonymous", open, "", "", false},
		{"email format checked even when optional", open, "", "bad@", true},
		{"whitespace name does not satisfy", strict, "   ", "a@b.co", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIdentity(tc.category, tc.inName, tc.inEmail)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
			if err != nil && !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func testSurvey(questions ...domain.Question) *domain.Survey {
	return &domain.Survey{
		ID:        surveyID,
		Title:     "Test",
		Status:    domain.SurveyOpen,
		Questions: questions,
	}
}

func TestNormalizeAnswersSingleChoice(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionRadio, QuestionText: "Pick", Options: []string{"A", "B"},
	})

	answers, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: "A"},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if answers[0].Value.Kind != domain.ValueText || answers[0].Value.Text != "A" {
		t.Fatalf("value = %+v", answers[0].Value)
	}

	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: "C"},
	}); !apperr.IsValidation(err) {
		t.Fatalf("undeclared option should fail validation, got %v", err)
	}
}

func TestNormalizeAnswersCheckboxWrapsBareString(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionCheckbox, QuestionText: "Pick any", Options: []string{"X", "Y"},
	})

	answers, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: "X"},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	got := answers[0].Value
	if got.Kind != domain.ValueList || len(got.List) != 1 || got.List[0] != "X" {
		t.Fatalf("value = %+v", got)
	}

	// JSON arrays arrive as []any
	answers, err = NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: []any{"X", "Y"}},
	})
	if err != nil {
		t.Fatalf("normalize list: %v", err)
	}
	if len(answers[0].Value.List) != 2 {
		t.Fatalf("value = %+v", answers[0].Value)
	}
}

func TestNormalizeAnswersRatingPassthrough(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionRating, QuestionText: "Rate",
	})

	cases := []struct {
		name string
		in   any
		want domain.AnswerValue
	}{
		{"number", float64(4), domain.NumberValue(4)},
		{"numeric string", "5", domain.TextValue("5")},
		{"non-numeric string kept for aggregation to filter", "x", domain.TextValue("x")},
		{"nil stays null", nil, domain.NullValue()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers, err := NormalizeAnswers(survey, []SubmissionAnswer{
				{QuestionID: questionID, Answer: tc.in},
			})
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			got := answers[0].Value
			if got.Kind != tc.want.Kind || got.Text != tc.want.Text || got.Number != tc.want.Number {
				t.Fatalf("value = %+v, want %+v", got, tc.want)
			}
		})
	}

	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: []any{"3"}},
	}); !apperr.IsValidation(err) {
		t.Fatalf("list rating should fail, got %v", err)
	}
}

func TestNormalizeAnswersRejectsForeignQuestion(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionText, QuestionText: "Comment",
	})

	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: question2, Answer: "hello"},
	}); !apperr.IsValidation(err) {
		t.Fatalf("foreign question should fail, got %v", err)
	}
	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: "not-an-object-id", Answer: "hello"},
	}); !apperr.IsValidation(err) {
		t.Fatalf("malformed question id should fail, got %v", err)
	}
}

func TestNormalizeAnswersReasonRules(t *testing.T) {
	wholeQuestion := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionRadio, QuestionText: "Pick",
		Options: []string{"A", "B"}, RequireReason: true,
	})
	if _, err := NormalizeAnswers(wholeQuestion, []SubmissionAnswer{
		{QuestionID: questionID, Answer: "A"},
	}); !apperr.IsValidation(err) {
		t.Fatalf("missing reason should fail, got %v", err)
	}
	if _, err := NormalizeAnswers(wholeQuestion, []SubmissionAnswer{
		{QuestionID: questionID, Answer: "A", Reason: "because"},
	}); err != nil {
		t.Fatalf("reason supplied, got %v", err)
	}

	perOption := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionCheckbox, QuestionText: "Pick any",
		Options:              []string{"X", "Y"},
		ChoiceReasonSettings: map[string]bool{"Y": true},
	})
	if _, err := NormalizeAnswers(perOption, []SubmissionAnswer{
		{QuestionID: questionID, Answer: []any{"X"}},
	}); err != nil {
		t.Fatalf("X needs no reason, got %v", err)
	}
	if _, err := NormalizeAnswers(perOption, []SubmissionAnswer{
		{QuestionID: questionID, Answer: []any{"X", "Y"}},
	}); !apperr.IsValidation(err) {
		t.Fatalf("Y requires a reason, got %v", err)
	}
}

func TestNormalizeAnswersTextVoice(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionTextVoice, QuestionText: "Tell us",
	})

	// text only
	answers, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, TextAnswer: "spoken and written"},
	})
	if err != nil {
		t.Fatalf("text only: %v", err)
	}
	if answers[0].Value.Text != "spoken and written" || answers[0].HasVoiceFile {
		t.Fatalf("answer = %+v", answers[0])
	}

	// voice only falls back to the placeholder value
	answers, err = NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, VoiceAnswerURL: "http://media/voice.webm"},
	})
	if err != nil {
		t.Fatalf("voice only: %v", err)
	}
	a := answers[0]
	if a.Value.Text != "[voice answer]" || !a.HasVoiceFile || a.VoiceURL != "http://media/voice.webm" {
		t.Fatalf("answer = %+v", a)
	}

	// neither is a validation error
	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID},
	}); !apperr.IsValidation(err) {
		t.Fatalf("empty text+voice should fail, got %v", err)
	}
}

func TestNormalizeAnswersTextRejectsBlank(t *testing.T) {
	survey := testSurvey(domain.Question{
		ID: questionID, Type: domain.QuestionText, QuestionText: "Comment",
	})
	if _, err := NormalizeAnswers(survey, []SubmissionAnswer{
		{QuestionID: questionID, Answer: strings.Repeat(" ", 3)},
	}); !apperr.IsValidation(err) {
		t.Fatalf("blank text should fail, got %v", err)
	}
}
