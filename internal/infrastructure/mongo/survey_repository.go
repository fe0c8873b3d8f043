package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// SurveyRepository persists surveys in a MongoDB collection.
type SurveyRepository struct {
	surveys *mongo.Collection
}

func NewSurveyRepository(db *mongo.Database, collection string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(collection)}
}

// Find translates the filter into a Mongo query. Text criteria match
// case-insensitively as substrings; question criteria match any embedded
// question via $elemMatch.
func (r *SurveyRepository) Find(ctx context.Context, filter application.SurveyFilter, paging application.Paging) ([]domain.Survey, error) {
	mongoFilter := bson.M{}
	if title := strings.TrimSpace(filter.Title); title != "" {
		mongoFilter["title"] = containsPattern(title)
	}
	if description := strings.TrimSpace(filter.Description); description != "" {
		mongoFilter["description"] = containsPattern(description)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		mongoFilter["status"] = status
	}

	question := bson.M{}
	if text := strings.TrimSpace(filter.QuestionText); text != "" {
		question["questionText"] = containsPattern(text)
	}
	if questionType := strings.TrimSpace(filter.QuestionType); questionType != "" {
		question["type"] = questionType
	}
	if option := strings.TrimSpace(filter.QuestionOption); option != "" {
		question["$or"] = bson.A{
			bson.M{"options": containsPattern(option)},
			bson.M{"Option": containsPattern(option)},
		}
	}
	if len(question) > 0 {
		mongoFilter["questions"] = bson.M{"$elemMatch": question}
	}

	createdAt := bson.M{}
	if filter.From != nil {
		createdAt["$gte"] = *filter.From
	}
	if filter.To != nil {
		createdAt["$lte"] = *filter.To
	}
	if len(createdAt) > 0 {
		mongoFilter["createdAt"] = createdAt
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		findOpts.SetSkip(int64(paging.Skip()))
	}

	cursor, err := r.surveys.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, apperr.Storage("query surveys", err)
	}
	defer cursor.Close(ctx)

	surveys := make([]domain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode survey", err)
		}
		surveys = append(surveys, mapSurveyDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Storage("iterate surveys", err)
	}
	return surveys, nil
}

func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.Validation("invalid survey id: %s", id)
	}
	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("survey not found: %s", id)
		}
		return nil, apperr.Storage("load survey", err)
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

func (r *SurveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	doc, err := mapDomainSurveyToDocument(survey)
	if err != nil {
		return apperr.Validation("invalid survey payload: %v", err)
	}
	if survey.ID != "" {
		doc.ID, err = primitive.ObjectIDFromHex(survey.ID)
		if err != nil {
			return apperr.Validation("invalid survey id: %s", survey.ID)
		}
	} else {
		doc.ID = primitive.NewObjectID()
	}
	survey.ID = doc.ID.Hex()
	if _, err := r.surveys.InsertOne(ctx, doc); err != nil {
		return apperr.Storage("insert survey", err)
	}
	return nil
}

// Update applies only the fields carried by the partial update and returns
// the post-update document.
func (r *SurveyRepository) Update(ctx context.Context, id string, update application.SurveyUpdate) (*domain.Survey, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.Validation("invalid survey id: %s", id)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.CategoryID != nil {
		if *update.CategoryID == "" {
			set["categoryId"] = nil
		} else {
			categoryID, err := primitive.ObjectIDFromHex(*update.CategoryID)
			if err != nil {
				return nil, apperr.Validation("invalid category id: %s", *update.CategoryID)
			}
			set["categoryId"] = categoryID
		}
	}
	if update.Questions != nil {
		docs, err := mapDomainQuestionsToDocuments(*update.Questions)
		if err != nil {
			return nil, apperr.Validation("invalid question payload: %v", err)
		}
		set["questions"] = docs
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc SurveyDocument
	if err := r.surveys.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("survey not found: %s", id)
		}
		return nil, apperr.Storage("update survey", err)
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

func (r *SurveyRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperr.Validation("invalid survey id: %s", id)
	}
	result, err := r.surveys.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storage("delete survey", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("survey not found: %s", id)
	}
	return nil
}

func (r *SurveyRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(categoryID))
	if err != nil {
		return 0, apperr.Validation("invalid category id: %s", categoryID)
	}
	count, err := r.surveys.CountDocuments(ctx, bson.M{"categoryId": objectID})
	if err != nil {
		return 0, apperr.Storage("count surveys by category", err)
	}
	return count, nil
}

func containsPattern(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}
