package domain

import (
	"strconv"
	"strings"
	"time"
)

// ValueKind tags the resolved shape of an answer value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueText
	ValueNumber
	ValueList
)

// AnswerValue is the tagged union behind the historically polymorphic
// `answer` field. It is resolved once during ingestion; aggregation never
// re-inspects raw payloads.
type AnswerValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	List   []string
}

func NullValue() AnswerValue              { return AnswerValue{Kind: ValueNull} }
func TextValue(s string) AnswerValue      { return AnswerValue{Kind: ValueText, Text: s} }
func NumberValue(n float64) AnswerValue   { return AnswerValue{Kind: ValueNumber, Number: n} }
func ListValue(l []string) AnswerValue    { return AnswerValue{Kind: ValueList, List: l} }

// IsNull reports whether the respondent left the question unanswered.
func (v AnswerValue) IsNull() bool {
	return v.Kind == ValueNull
}

// Selections returns the value as a list of chosen options.
func (v AnswerValue) Selections() []string {
	switch v.Kind {
	case ValueText:
		if v.Text == "" {
			return nil
		}
		return []string{v.Text}
	case ValueList:
		return v.List
	}
	return nil
}

// Numeric coerces the value to a number where possible.
func (v AnswerValue) Numeric() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Flatten renders the value as a single string for tabular exports.
// List values are joined with sep.
func (v AnswerValue) Flatten(sep string) string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueList:
		return strings.Join(v.List, sep)
	}
	return ""
}

// Answer is one respondent's normalized answer to a single question.
type Answer struct {
	QuestionID     string
	Type           QuestionType
	Value          AnswerValue
	TextAnswer     string
	VoiceAnswerURL string
	Reason         string
	HasVoiceFile   bool
	VoiceURL       string
}

// Response is one respondent's full submission against a survey.
// Responses are immutable once persisted.
type Response struct {
	ID        string
	SurveyID  string
	Answers   []Answer
	Name      string
	Email     string
	CreatedAt time.Time
}

// AnswerTo returns the answer for the given question, if present.
func (r *Response) AnswerTo(questionID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}
