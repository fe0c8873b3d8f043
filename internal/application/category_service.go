package application

import (
	"context"
	"strings"
	"time"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// CategoryService covers category management. Names are unique
// case-insensitively; deletion is soft unless forced.
type CategoryService interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Category, error)
	Detail(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, cmd UpsertCategoryCommand) (*domain.Category, error)
	Update(ctx context.Context, id string, cmd UpsertCategoryCommand) (*domain.Category, error)
	Delete(ctx context.Context, id string, force bool) error
}

// UpsertCategoryCommand carries inputs for category create/update.
type UpsertCategoryCommand struct {
	Name        string
	Description string
	Settings    domain.CategorySettings
	IsActive    *bool
}

type categoryService struct {
	categories CategoryRepository
	surveys    SurveyRepository
}

func NewCategoryService(categories CategoryRepository, surveys SurveyRepository) CategoryService {
	return &categoryService{categories: categories, surveys: surveys}
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	return s.categories.Find(ctx, includeInactive)
}

func (s *categoryService) Detail(ctx context.Context, id string) (*domain.Category, error) {
	if !domain.IsValidID(id) {
		return nil, apperr.Validation("invalid category id: %s", id)
	}
	return s.categories.FindByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, cmd UpsertCategoryCommand) (*domain.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          domain.NewID(),
		Name:        name,
		Description: cmd.Description,
		Settings:    cmd.Settings,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cmd.IsActive != nil {
		category.IsActive = *cmd.IsActive
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, cmd UpsertCategoryCommand) (*domain.Category, error) {
	category, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = cmd.Description
	category.Settings = cmd.Settings
	if cmd.IsActive != nil {
		category.IsActive = *cmd.IsActive
	}
	category.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete deactivates the category. Forced deletion removes the record
// permanently, but only while no survey references it.
func (s *categoryService) Delete(ctx context.Context, id string, force bool) error {
	if _, err := s.Detail(ctx, id); err != nil {
		return err
	}
	if !force {
		return s.categories.SetActive(ctx, id, false)
	}
	count, err := s.surveys.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("category is referenced by %d surveys", count)
	}
	return s.categories.Delete(ctx, id)
}

func (s *categoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperr.Conflict("category %q already exists", name)
	}
	return nil
}
