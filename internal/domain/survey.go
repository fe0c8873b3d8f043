package domain

import "time"

// SurveyStatus controls whether a survey accepts new responses.
type SurveyStatus string

const (
	SurveyOpen   SurveyStatus = "open"
	SurveyClosed SurveyStatus = "closed"
)

// Valid reports whether the status is one of the allowed lifecycle values.
func (s SurveyStatus) Valid() bool {
	return s == SurveyOpen || s == SurveyClosed
}

// QuestionType declares the answer shape a question expects.
type QuestionType string

const (
	QuestionText      QuestionType = "text"
	QuestionMCQ       QuestionType = "mcq"
	QuestionCheckbox  QuestionType = "checkbox"
	QuestionRating    QuestionType = "rating"
	QuestionRadio     QuestionType = "radio"
	QuestionVoice     QuestionType = "voice"
	QuestionTextVoice QuestionType = "text+voice"
)

// Valid reports whether the type is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMCQ, QuestionCheckbox, QuestionRating, QuestionRadio, QuestionVoice, QuestionTextVoice:
		return true
	}
	return false
}

// IsChoice reports whether answers select from the declared option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMCQ || t == QuestionRadio || t == QuestionCheckbox
}

// MultiSelect reports whether a single answer may carry several options.
func (t QuestionType) MultiSelect() bool {
	return t == QuestionCheckbox
}

// Question is one survey item embedded in its parent survey.
type Question struct {
	ID                   string
	Type                 QuestionType
	QuestionText         string
	Options              []string
	RequireReason        bool
	ChoiceReasonSettings map[string]bool
}

// ReasonRequired reports whether the given selections oblige the respondent
// to supply a free-text reason. RequireReason applies to the whole question
// for radio/checkbox; ChoiceReasonSettings applies per selected option.
func (q Question) ReasonRequired(selected []string) bool {
	if q.RequireReason && (q.Type == QuestionRadio || q.Type == QuestionCheckbox) {
		return true
	}
	for _, choice := range selected {
		if q.ChoiceReasonSettings[choice] {
			return true
		}
	}
	return false
}

// Survey is a titled, ordered set of questions with an open/closed lifecycle.
type Survey struct {
	ID          string
	Title       string
	Description string
	Status      SurveyStatus
	CategoryID  string
	Questions   []Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuestionByID resolves an embedded question by its identifier.
func (s *Survey) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
