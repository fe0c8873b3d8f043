package application

import (
	"regexp"
	"strings"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// Submission is the raw inbound payload of one respondent. Answer values are
// still polymorphic at this point; NormalizeAnswers resolves them.
type Submission struct {
	SurveyID string
	Name     string
	Email    string
	Answers  []SubmissionAnswer
}

// SubmissionAnswer is one raw answer. Answer may be a string, float64, a
// []any of strings, or nil, depending on the question type and transport.
type SubmissionAnswer struct {
	QuestionID     string
	Answer         any
	TextAnswer     string
	VoiceAnswerURL string
	Reason         string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// voicePlaceholder stands in for the legacy answer value when a combined
// text+voice question was answered with a recording only.
const voicePlaceholder = "[voice answer]"

// ValidateIdentity enforces the respondent-identity rules configured on the
// survey's category. A nil category imposes no identity requirements.
func ValidateIdentity(category *domain.Category, name, email string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	if category == nil {
		return nil
	}
	settings := category.Settings
	if !settings.AllowAnonymous {
		if strings.TrimSpace(name) == "" {
			return apperr.Validation("name is required for this survey")
		}
		if strings.TrimSpace(email) == "" {
			return apperr.Validation("email is required for this survey")
		}
		return nil
	}
	if settings.NameRequired && strings.TrimSpace(name) == "" {
		return apperr.Validation("name is required for this survey")
	}
	if settings.EmailRequired && strings.TrimSpace(email) == "" {
		return apperr.Validation("email is required for this survey")
	}
	return nil
}

// NormalizeAnswers validates each raw answer against its survey question and
// resolves the polymorphic values into typed ones. The whole batch either
// normalizes or fails; nothing partial escapes.
func NormalizeAnswers(survey *domain.Survey, raw []SubmissionAnswer) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(raw))
	for _, a := range raw {
		if !domain.IsValidID(a.QuestionID) {
			return nil, apperr.Validation("invalid question id: %s", a.QuestionID)
		}
		question, ok := survey.QuestionByID(a.QuestionID)
		if !ok {
			return nil, apperr.Validation("question %s does not belong to this survey", a.QuestionID)
		}
		normalized, err := normalizeAnswer(question, a)
		if err != nil {
			return nil, err
		}
		answers = append(answers, normalized)
	}
	return answers, nil
}

func normalizeAnswer(q domain.Question, raw SubmissionAnswer) (domain.Answer, error) {
	answer := domain.Answer{
		QuestionID: q.ID,
		Type:       q.Type,
		Reason:     raw.Reason,
	}

	switch q.Type {
	case domain.QuestionMCQ, domain.QuestionRadio:
		choice, ok := raw.Answer.(string)
		if !ok || choice == "" {
			return domain.Answer{}, apperr.Validation("question %q expects a single selected option", q.QuestionText)
		}
		if !declaredOption(q, choice) {
			return domain.Answer{}, apperr.Validation("option %q is not declared on question %q", choice, q.QuestionText)
		}
		answer.Value = domain.TextValue(choice)

	case domain.QuestionCheckbox:
		selections, err := stringList(raw.Answer)
		if err != nil || len(selections) == 0 {
			return domain.Answer{}, apperr.Validation("question %q expects at least one selected option", q.QuestionText)
		}
		for _, choice := range selections {
			if !declaredOption(q, choice) {
				return domain.Answer{}, apperr.Validation("option %q is not declared on question %q", choice, q.QuestionText)
			}
		}
		answer.Value = domain.ListValue(selections)

	case domain.QuestionRating:
		value, err := ratingValue(raw.Answer)
		if err != nil {
			return domain.Answer{}, apperr.Validation("question %q expects a numeric rating", q.QuestionText)
		}
		answer.Value = value

	case domain.QuestionText:
		text := scalarText(raw.Answer)
		if strings.TrimSpace(text) == "" {
			return domain.Answer{}, apperr.Validation("question %q expects a text answer", q.QuestionText)
		}
		answer.Value = domain.TextValue(text)

	case domain.QuestionVoice:
		url := raw.VoiceAnswerURL
		if url == "" {
			url = scalarText(raw.Answer)
		}
		if url == "" {
			return domain.Answer{}, apperr.Validation("question %q expects a voice recording", q.QuestionText)
		}
		answer.Value = domain.TextValue(url)
		answer.VoiceAnswerURL = url
		answer.HasVoiceFile = true
		answer.VoiceURL = url

	case domain.QuestionTextVoice:
		text := strings.TrimSpace(raw.TextAnswer)
		if text == "" {
			text = strings.TrimSpace(scalarText(raw.Answer))
		}
		voiceURL := raw.VoiceAnswerURL
		if text == "" && voiceURL == "" {
			return domain.Answer{}, apperr.Validation("question %q expects text, a voice recording, or both", q.QuestionText)
		}
		if text != "" {
			answer.Value = domain.TextValue(text)
		} else {
			answer.Value = domain.TextValue(voicePlaceholder)
		}
		answer.TextAnswer = text
		if voiceURL != "" {
			answer.VoiceAnswerURL = voiceURL
			answer.HasVoiceFile = true
			answer.VoiceURL = voiceURL
		}

	default:
		return domain.Answer{}, apperr.Validation("question %q has unsupported type %q", q.QuestionText, q.Type)
	}

	if q.ReasonRequired(answer.Value.Selections()) && strings.TrimSpace(raw.Reason) == "" {
		return domain.Answer{}, apperr.Validation("question %q requires a reason for the selected option", q.QuestionText)
	}
	return answer, nil
}

func declaredOption(q domain.Question, choice string) bool {
	for _, option := range q.Options {
		if option == choice {
			return true
		}
	}
	return false
}

// stringList accepts either a string or a heterogeneous JSON array and
// returns the string members. A bare string wraps into a one-element list.
func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apperr.Validation("selection list contains a non-string value")
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, apperr.Validation("expected a selection list")
}

// ratingValue keeps the historical permissiveness: numbers and non-empty
// strings pass through untouched, a nil answer stays null, and everything
// else is rejected. Non-numeric strings are filtered later by aggregation,
// not by ingestion.
func ratingValue(value any) (domain.AnswerValue, error) {
	switch v := value.(type) {
	case nil:
		return domain.NullValue(), nil
	case float64:
		return domain.NumberValue(v), nil
	case int:
		return domain.NumberValue(float64(v)), nil
	case string:
		if v == "" {
			return domain.NullValue(), nil
		}
		return domain.TextValue(v), nil
	}
	return domain.AnswerValue{}, apperr.Validation("unsupported rating value")
}

func scalarText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return domain.NumberValue(v).Flatten("")
	}
	return ""
}
