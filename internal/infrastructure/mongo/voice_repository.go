package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// VoiceRepository persists voice recording metadata in a MongoDB collection.
type VoiceRepository struct {
	voices *mongo.Collection
}

func NewVoiceRepository(db *mongo.Database, collection string) *VoiceRepository {
	return &VoiceRepository{voices: db.Collection(collection)}
}

func (r *VoiceRepository) Insert(ctx context.Context, voice *domain.Voice) error {
	doc, err := mapDomainVoiceToDocument(voice)
	if err != nil {
		return apperr.Validation("invalid voice payload: %v", err)
	}
	if voice.ID != "" {
		doc.ID, err = primitive.ObjectIDFromHex(voice.ID)
		if err != nil {
			return apperr.Validation("invalid voice id: %s", voice.ID)
		}
	} else {
		doc.ID = primitive.NewObjectID()
	}
	voice.ID = doc.ID.Hex()
	if _, err := r.voices.InsertOne(ctx, doc); err != nil {
		return apperr.Storage("insert voice", err)
	}
	return nil
}

func (r *VoiceRepository) Find(ctx context.Context) ([]domain.Voice, error) {
	cursor, err := r.voices.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperr.Storage("query voices", err)
	}
	defer cursor.Close(ctx)

	voices := make([]domain.Voice, 0)
	for cursor.Next(ctx) {
		var doc VoiceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode voice", err)
		}
		voices = append(voices, mapVoiceDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Storage("iterate voices", err)
	}
	return voices, nil
}

func (r *VoiceRepository) FindByID(ctx context.Context, id string) (*domain.Voice, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.Validation("invalid voice id: %s", id)
	}
	var doc VoiceDocument
	if err := r.voices.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("voice not found: %s", id)
		}
		return nil, apperr.Storage("load voice", err)
	}
	voice := mapVoiceDocument(doc)
	return &voice, nil
}
