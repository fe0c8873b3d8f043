package public

import (
	"time"

	"github.com/surveyclub/survey-services/api/internal/domain"
)

type submissionAnswerRequest struct {
	QuestionID     string `json:"questionId"`
	Answer         any    `json:"answer"`
	TextAnswer     string `json:"textAnswer,omitempty"`
	VoiceAnswerURL string `json:"voiceAnswerUrl,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type submissionRequest struct {
	SurveyID string                    `json:"surveyId"`
	Name     string                    `json:"name,omitempty"`
	Email    string                    `json:"email,omitempty"`
	Answers  []submissionAnswerRequest `json:"answers"`
}

type questionResponse struct {
	ID                   string          `json:"id"`
	Type                 string          `json:"type"`
	QuestionText         string          `json:"questionText"`
	Options              []string        `json:"options,omitempty"`
	RequireReason        bool            `json:"requireReason,omitempty"`
	ChoiceReasonSettings map[string]bool `json:"choiceReasonSettings,omitempty"`
}

type identityRequirementsResponse struct {
	NameRequired   bool `json:"nameRequired"`
	EmailRequired  bool `json:"emailRequired"`
	AllowAnonymous bool `json:"allowAnonymous"`
}

type respondViewResponse struct {
	ID          string                       `json:"id"`
	Title       string                       `json:"title"`
	Description string                       `json:"description,omitempty"`
	Status      string                       `json:"status"`
	Questions   []questionResponse           `json:"questions"`
	Identity    identityRequirementsResponse `json:"identityRequirements"`
}

type answerResponse struct {
	QuestionID     string `json:"questionId"`
	Type           string `json:"type"`
	Answer         any    `json:"answer"`
	TextAnswer     string `json:"textAnswer,omitempty"`
	VoiceAnswerURL string `json:"voiceAnswerUrl,omitempty"`
	Reason         string `json:"reason,omitempty"`
	HasVoiceFile   bool   `json:"hasVoiceFile,omitempty"`
	VoiceURL       string `json:"voiceUrl,omitempty"`
}

type responseItem struct {
	ID        string           `json:"id"`
	SurveyID  string           `json:"surveyId"`
	Name      string           `json:"name,omitempty"`
	Email     string           `json:"email,omitempty"`
	Answers   []answerResponse `json:"answers"`
	CreatedAt time.Time        `json:"createdAt"`
}

type responseListResponse struct {
	Items []responseItem `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
}

type voiceResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	SurveyID   string    `json:"surveyId,omitempty"`
	QuestionID string    `json:"questionId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func buildRespondViewResponse(survey *domain.Survey, category *domain.Category) respondViewResponse {
	questions := make([]questionResponse, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		questions = append(questions, questionResponse{
			ID:                   q.ID,
			Type:                 string(q.Type),
			QuestionText:         q.QuestionText,
			Options:              q.Options,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	view := respondViewResponse{
		ID:          survey.ID,
		Title:       survey.Title,
		Description: survey.Description,
		Status:      string(survey.Status),
		Questions:   questions,
		Identity:    identityRequirementsResponse{AllowAnonymous: true},
	}
	if category != nil {
		view.Identity = identityRequirementsResponse{
			NameRequired:   category.Settings.NameRequired,
			EmailRequired:  category.Settings.EmailRequired,
			AllowAnonymous: category.Settings.AllowAnonymous,
		}
	}
	return view
}

func buildResponseItem(r domain.Response) responseItem {
	answers := make([]answerResponse, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, answerResponse{
			QuestionID:     a.QuestionID,
			Type:           string(a.Type),
			Answer:         answerWireValue(a.Value),
			TextAnswer:     a.TextAnswer,
			VoiceAnswerURL: a.VoiceAnswerURL,
			Reason:         a.Reason,
			HasVoiceFile:   a.HasVoiceFile,
			VoiceURL:       a.VoiceURL,
		})
	}
	return responseItem{
		ID:        r.ID,
		SurveyID:  r.SurveyID,
		Name:      r.Name,
		Email:     r.Email,
		Answers:   answers,
		CreatedAt: r.CreatedAt,
	}
}

// answerWireValue keeps the historical polymorphic wire shape: string,
// number, array, or null.
func answerWireValue(v domain.AnswerValue) any {
	switch v.Kind {
	case domain.ValueText:
		return v.Text
	case domain.ValueNumber:
		return v.Number
	case domain.ValueList:
		return v.List
	}
	return nil
}

func buildVoiceResponse(v *domain.Voice) voiceResponse {
	return voiceResponse{
		ID:         v.ID,
		URL:        v.URL,
		SurveyID:   v.SurveyID,
		QuestionID: v.QuestionID,
		CreatedAt:  v.CreatedAt,
	}
}
