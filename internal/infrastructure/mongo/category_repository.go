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
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// CategoryRepository persists categories in a MongoDB collection.
type CategoryRepository struct {
	categories *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database, collection string) *CategoryRepository {
	return &CategoryRepository{categories: db.Collection(collection)}
}

func (r *CategoryRepository) Find(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}
	cursor, err := r.categories.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apperr.Storage("query categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]domain.Category, 0)
	for cursor.Next(ctx) {
		var doc CategoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode category", err)
		}
		categories = append(categories, mapCategoryDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Storage("iterate categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperr.Validation("invalid category id: %s", id)
	}
	var doc CategoryDocument
	if err := r.categories.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found: %s", id)
		}
		return nil, apperr.Storage("load category", err)
	}
	category := mapCategoryDocument(doc)
	return &category, nil
}

// FindByName matches the whole name case-insensitively, which backs the
// uniqueness rule on category names.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$", Options: "i"}
	var doc CategoryDocument
	if err := r.categories.FindOne(ctx, bson.M{"name": pattern}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found: %s", name)
		}
		return nil, apperr.Storage("load category", err)
	}
	category := mapCategoryDocument(doc)
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	doc := mapDomainCategoryToDocument(category)
	if category.ID != "" {
		id, err := primitive.ObjectIDFromHex(category.ID)
		if err != nil {
			return apperr.Validation("invalid category id: %s", category.ID)
		}
		doc.ID = id
	} else {
		doc.ID = primitive.NewObjectID()
	}
	category.ID = doc.ID.Hex()
	if _, err := r.categories.InsertOne(ctx, doc); err != nil {
		return apperr.Storage("insert category", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(category.ID))
	if err != nil {
		return apperr.Validation("invalid category id: %s", category.ID)
	}
	doc := mapDomainCategoryToDocument(category)
	set := bson.M{
		"name":           doc.Name,
		"description":    doc.Description,
		"nameRequired":   doc.NameRequired,
		"emailRequired":  doc.EmailRequired,
		"allowAnonymous": doc.AllowAnonymous,
		"isActive":       doc.IsActive,
		"updatedAt":      doc.UpdatedAt,
	}
	result, err := r.categories.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return apperr.Storage("update category", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("category not found: %s", category.ID)
	}
	return nil
}

func (r *CategoryRepository) SetActive(ctx context.Context, id string, active bool) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperr.Validation("invalid category id: %s", id)
	}
	set := bson.M{"isActive": active, "updatedAt": time.Now().UTC()}
	result, err := r.categories.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return apperr.Storage("update category", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("category not found: %s", id)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperr.Validation("invalid category id: %s", id)
	}
	result, err := r.categories.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Storage("delete category", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("category not found: %s", id)
	}
	return nil
}
