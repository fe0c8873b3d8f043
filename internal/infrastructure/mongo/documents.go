// Package mongo implements the application repositories on MongoDB
// collections, mapping between domain entities and BSON documents.
package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyclub/survey-services/api/internal/domain"
)

// QuestionDocument is one embedded survey question. Historical documents
// stored the option list under "Option"; both spellings decode and merge.
type QuestionDocument struct {
	ID                   primitive.ObjectID `bson:"_id"`
	Type                 string             `bson:"type"`
	QuestionText         string             `bson:"questionText"`
	Options              []string           `bson:"options,omitempty"`
	LegacyOptions        []string           `bson:"Option,omitempty"`
	RequireReason        bool               `bson:"requireReason,omitempty"`
	ChoiceReasonSettings map[string]bool    `bson:"choiceReasonSettings,omitempty"`
}

// SurveyDocument is the survey schema in MongoDB.
type SurveyDocument struct {
	ID          primitive.ObjectID  `bson:"_id"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	Status      string              `bson:"status"`
	CategoryID  *primitive.ObjectID `bson:"categoryId,omitempty"`
	Questions   []QuestionDocument  `bson:"questions"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

// AnswerDocument keeps the answer value in its native BSON shape: string,
// number, array of strings, or null. encode/decodeAnswerValue translate.
type AnswerDocument struct {
	QuestionID     primitive.ObjectID `bson:"questionId"`
	Type           string             `bson:"type"`
	Answer         interface{}        `bson:"answer"`
	TextAnswer     string             `bson:"textAnswer,omitempty"`
	VoiceAnswerURL string             `bson:"voiceAnswerUrl,omitempty"`
	Reason         string             `bson:"reason,omitempty"`
	HasVoiceFile   bool               `bson:"hasVoiceFile,omitempty"`
	VoiceURL       string             `bson:"voiceUrl,omitempty"`
}

// ResponseDocument is the response schema in MongoDB.
type ResponseDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	SurveyID  primitive.ObjectID `bson:"surveyId"`
	Answers   []AnswerDocument   `bson:"answers"`
	Name      string             `bson:"name,omitempty"`
	Email     string             `bson:"email,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// CategoryDocument is the category schema in MongoDB.
type CategoryDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	Description    string             `bson:"description,omitempty"`
	NameRequired   bool               `bson:"nameRequired"`
	EmailRequired  bool               `bson:"emailRequired"`
	AllowAnonymous bool               `bson:"allowAnonymous"`
	IsActive       bool               `bson:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// VoiceDocument is the standalone voice recording schema in MongoDB.
type VoiceDocument struct {
	ID         primitive.ObjectID  `bson:"_id"`
	URL        string              `bson:"url"`
	SurveyID   *primitive.ObjectID `bson:"surveyId,omitempty"`
	QuestionID *primitive.ObjectID `bson:"questionId,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt"`
}

func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		options := q.Options
		if len(options) == 0 {
			options = q.LegacyOptions
		}
		questions = append(questions, domain.Question{
			ID:                   q.ID.Hex(),
			Type:                 domain.QuestionType(q.Type),
			QuestionText:         q.QuestionText,
			Options:              options,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	survey := domain.Survey{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Status:      domain.SurveyStatus(doc.Status),
		Questions:   questions,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if doc.CategoryID != nil {
		survey.CategoryID = doc.CategoryID.Hex()
	}
	return survey
}

func mapDomainSurveyToDocument(survey *domain.Survey) (SurveyDocument, error) {
	questions, err := mapDomainQuestionsToDocuments(survey.Questions)
	if err != nil {
		return SurveyDocument{}, err
	}
	doc := SurveyDocument{
		Title:       survey.Title,
		Description: survey.Description,
		Status:      string(survey.Status),
		Questions:   questions,
		CreatedAt:   survey.CreatedAt,
		UpdatedAt:   survey.UpdatedAt,
	}
	if survey.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(survey.CategoryID)
		if err != nil {
			return SurveyDocument{}, err
		}
		doc.CategoryID = &categoryID
	}
	return doc, nil
}

func mapDomainQuestionsToDocuments(questions []domain.Question) ([]QuestionDocument, error) {
	docs := make([]QuestionDocument, 0, len(questions))
	for _, q := range questions {
		id, err := primitive.ObjectIDFromHex(q.ID)
		if err != nil {
			return nil, err
		}
		docs = append(docs, QuestionDocument{
			ID:                   id,
			Type:                 string(q.Type),
			QuestionText:         q.QuestionText,
			Options:              q.Options,
			RequireReason:        q.RequireReason,
			ChoiceReasonSettings: q.ChoiceReasonSettings,
		})
	}
	return docs, nil
}

func mapResponseDocument(doc ResponseDocument) domain.Response {
	answers := make([]domain.Answer, 0, len(doc.Answers))
	for _, a := range doc.Answers {
		answers = append(answers, domain.Answer{
			QuestionID:     a.QuestionID.Hex(),
			Type:           domain.QuestionType(a.Type),
			Value:          decodeAnswerValue(a.Answer),
			TextAnswer:     a.TextAnswer,
			VoiceAnswerURL: a.VoiceAnswerURL,
			Reason:         a.Reason,
			HasVoiceFile:   a.HasVoiceFile,
			VoiceURL:       a.VoiceURL,
		})
	}
	return domain.Response{
		ID:        doc.ID.Hex(),
		SurveyID:  doc.SurveyID.Hex(),
		Answers:   answers,
		Name:      doc.Name,
		Email:     doc.Email,
		CreatedAt: doc.CreatedAt,
	}
}

func mapDomainResponseToDocument(response *domain.Response) (ResponseDocument, error) {
	surveyID, err := primitive.ObjectIDFromHex(response.SurveyID)
	if err != nil {
		return ResponseDocument{}, err
	}
	answers := make([]AnswerDocument, 0, len(response.Answers))
	for _, a := range response.Answers {
		questionID, err := primitive.ObjectIDFromHex(a.QuestionID)
		if err != nil {
			return ResponseDocument{}, err
		}
		answers = append(answers, AnswerDocument{
			QuestionID:     questionID,
			Type:           string(a.Type),
			Answer:         encodeAnswerValue(a.Value),
			TextAnswer:     a.TextAnswer,
			VoiceAnswerURL: a.VoiceAnswerURL,
			Reason:         a.Reason,
			HasVoiceFile:   a.HasVoiceFile,
			VoiceURL:       a.VoiceURL,
		})
	}
	return ResponseDocument{
		SurveyID:  surveyID,
		Answers:   answers,
		Name:      response.Name,
		Email:     response.Email,
		CreatedAt: response.CreatedAt,
	}, nil
}

// encodeAnswerValue writes the value in the wire shape the historical
// documents use: plain string, number, string array, or null.
func encodeAnswerValue(v domain.AnswerValue) interface{} {
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

// decodeAnswerValue resolves whatever BSON shape is stored into the tagged
// union. Unknown shapes decode as null rather than failing the read.
func decodeAnswerValue(raw interface{}) domain.AnswerValue {
	switch v := raw.(type) {
	case nil:
		return domain.NullValue()
	case string:
		return domain.TextValue(v)
	case float64:
		return domain.NumberValue(v)
	case int32:
		return domain.NumberValue(float64(v))
	case int64:
		return domain.NumberValue(float64(v))
	case primitive.A:
		list := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return domain.ListValue(list)
	case []string:
		return domain.ListValue(v)
	}
	return domain.NullValue()
}

func mapCategoryDocument(doc CategoryDocument) domain.Category {
	return domain.Category{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Settings: domain.CategorySettings{
			NameRequired:   doc.NameRequired,
			EmailRequired:  doc.EmailRequired,
			AllowAnonymous: doc.AllowAnonymous,
		},
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func mapDomainCategoryToDocument(category *domain.Category) CategoryDocument {
	return CategoryDocument{
		Name:           category.Name,
		Description:    category.Description,
		NameRequired:   category.Settings.NameRequired,
		EmailRequired:  category.Settings.EmailRequired,
		AllowAnonymous: category.Settings.AllowAnonymous,
		IsActive:       category.IsActive,
		CreatedAt:      category.CreatedAt,
		UpdatedAt:      category.UpdatedAt,
	}
}

func mapVoiceDocument(doc VoiceDocument) domain.Voice {
	voice := domain.Voice{
		ID:        doc.ID.Hex(),
		URL:       doc.URL,
		CreatedAt: doc.CreatedAt,
	}
	if doc.SurveyID != nil {
		voice.SurveyID = doc.SurveyID.Hex()
	}
	if doc.QuestionID != nil {
		voice.QuestionID = doc.QuestionID.Hex()
	}
	return voice
}

func mapDomainVoiceToDocument(voice *domain.Voice) (VoiceDocument, error) {
	doc := VoiceDocument{
		URL:       voice.URL,
		CreatedAt: voice.CreatedAt,
	}
	if voice.SurveyID != "" {
		surveyID, err := primitive.ObjectIDFromHex(voice.SurveyID)
		if err != nil {
			return VoiceDocument{}, err
		}
		doc.SurveyID = &surveyID
	}
	if voice.QuestionID != "" {
		questionID, err := primitive.ObjectIDFromHex(voice.QuestionID)
		if err != nil {
			return VoiceDocument{}, err
		}
		doc.QuestionID = &questionID
	}
	return doc, nil
}
