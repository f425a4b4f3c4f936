package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categories catalog.CategoryRepository
	recorder   *appHistory.Recorder
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository, recorder *appHistory.Recorder) *CategoryService {
	return &CategoryService{categories: categories, recorder: recorder}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, actor appHistory.Actor, req CategoryRequest) (*CategoryResponse, error) {
	if existing, err := s.categories.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Category added",
		fmt.Sprintf("Added category '%s'", category.Name))

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, actor appHistory.Actor, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Category updated",
		fmt.Sprintf("Updated category '%s'", category.Name))

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, actor appHistory.Actor, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Category deleted",
		fmt.Sprintf("Deleted category '%s'", category.Name))

	return nil
}

// Get returns a single category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns all categories
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	f := shared.DefaultFilter()
	f.PageSize = 100
	f.OrderBy = "name"
	f.OrderDir = "asc"

	categories, err := s.categories.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out, nil
}
