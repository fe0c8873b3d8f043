package mongo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// ResponseRepository persists survey responses in a MongoDB collection.
type ResponseRepository struct {
	responses *mongo.Collection
}

func NewResponseRepository(db *mongo.Database, collection string) *ResponseRepository {
	return &ResponseRepository{responses: db.Collection(collection)}
}

func (r *ResponseRepository) Insert(ctx context.Context, response *domain.Response) error {
	doc, err := mapDomainResponseToDocument(response)
	if err != nil {
		return apperr.Validation("invalid response payload: %v", err)
	}
	if response.ID != "" {
		doc.ID, err = primitive.ObjectIDFromHex(response.ID)
		if err != nil {
			return apperr.Validation("invalid response id: %s", response.ID)
		}
	} else {
		doc.ID = primitive.NewObjectID()
	}
	response.ID = doc.ID.Hex()
	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		return apperr.Storage("insert response", err)
	}
	return nil
}

// FindBySurvey lists responses newest-first together with the total count
// for the filter. An empty surveyID lists responses across every survey.
func (r *ResponseRepository) FindBySurvey(ctx context.Context, surveyID string, paging application.Paging) ([]domain.Response, int64, error) {
	filter, err := surveyFilter(surveyID)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.responses.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage("count responses", err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		findOpts.SetSkip(int64(paging.Skip()))
	}

	cursor, err := r.responses.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, apperr.Storage("query responses", err)
	}
	defer cursor.Close(ctx)

	responses := make([]domain.Response, 0)
	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, apperr.Storage("decode response", err)
		}
		responses = append(responses, mapResponseDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, apperr.Storage("iterate responses", err)
	}
	return responses, total, nil
}

func (r *ResponseRepository) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	filter, err := surveyFilter(surveyID)
	if err != nil {
		return 0, err
	}
	count, err := r.responses.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Storage("count responses", err)
	}
	return count, nil
}

func (r *ResponseRepository) DeleteBySurvey(ctx context.Context, surveyID string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(surveyID))
	if err != nil {
		return 0, apperr.Validation("invalid survey id: %s", surveyID)
	}
	result, err := r.responses.DeleteMany(ctx, bson.M{"surveyId": objectID})
	if err != nil {
		return 0, apperr.Storage("delete responses", err)
	}
	return result.DeletedCount, nil
}

func surveyFilter(surveyID string) (bson.M, error) {
	if strings.TrimSpace(surveyID) == "" {
		return bson.M{}, nil
	}
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(surveyID))
	if err != nil {
		return nil, apperr.Validation("invalid survey id: %s", surveyID)
	}
	return bson.M{"surveyId": objectID}, nil
}
