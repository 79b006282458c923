// Package service implements the category business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/pkg/slug"
	"github.com/quitanda/ecommerce/services/category/internal/domain"
	"github.com/quitanda/ecommerce/services/category/internal/event"
	"github.com/quitanda/ecommerce/services/category/internal/repository"
)

// maxAncestorDepth bounds the parent walk when resolving inherited
// attributes so a corrupted hierarchy cannot loop forever.
const maxAncestorDepth = 32

// CategoryService implements the business logic for category operations.
type CategoryService struct {
	repo     repository.CategoryRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCategoryService creates a new category service. producer may be nil.
func NewCategoryService(repo repository.CategoryRepository, producer *event.Producer, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name         string
	Description  string
	ImageURL     string
	ParentID     *string
	DisplayOrder int
	Attributes   map[string]any
	URLSlug      string
}

// UpdateCategoryInput holds the parameters for a partial category update.
// A nil field leaves the current value untouched. ParentID distinguishes
// "not provided" (nil) from "move to root" (pointer to nil).
type UpdateCategoryInput struct {
	Name         *string
	Description  *string
	ImageURL     *string
	ParentID     **string
	Status       *string
	DisplayOrder *int
	Attributes   map[string]any
	URLSlug      *string
}

// Create validates and stores a new category. Root categories get level 1;
// children get their parent's level plus one.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	level := 1
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := s.repo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get parent category: %w", err)
		}
		level = parent.Level + 1
	} else {
		input.ParentID = nil
	}

	urlSlug := input.URLSlug
	if urlSlug == "" {
		urlSlug = slug.Generate(input.Name)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		ParentID:     input.ParentID,
		Level:        level,
		Status:       domain.CategoryStatusActive,
		DisplayOrder: input.DisplayOrder,
		Attributes:   input.Attributes,
		URLSlug:      urlSlug,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish category.created event",
				slog.String("category_id", category.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("url_slug", category.URLSlug),
		slog.Int("level", category.Level),
	)

	return category, nil
}

// GetByID retrieves a category by its ID.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a category by its URL slug.
func (s *CategoryService) GetBySlug(ctx context.Context, urlSlug string) (*domain.Category, error) {
	return s.repo.GetBySlug(ctx, urlSlug)
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// ListSubcategories returns the direct children of a category.
func (s *CategoryService) ListSubcategories(ctx context.Context, id string) ([]domain.Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return s.repo.ListByParent(ctx, id)
}

// Update applies partial updates to an existing category. Changing the
// parent recalculates the level; a category cannot become its own parent.
func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = *input.ImageURL
	}
	if input.ParentID != nil {
		newParent := *input.ParentID
		if newParent != nil && *newParent == id {
			return nil, apperrors.InvalidInput("category cannot be its own parent")
		}
		if newParent != nil {
			parent, err := s.repo.GetByID(ctx, *newParent)
			if err != nil {
				return nil, fmt.Errorf("get new parent category: %w", err)
			}
			category.Level = parent.Level + 1
		} else {
			category.Level = 1
		}
		category.ParentID = newParent
	}
	if input.Status != nil {
		status := domain.CategoryStatus(*input.Status)
		if !domain.IsValidCategoryStatus(status) {
			return nil, apperrors.InvalidInput("invalid category status: " + *input.Status)
		}
		category.Status = status
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.Attributes != nil {
		category.Attributes = input.Attributes
	}
	if input.URLSlug != nil {
		if *input.URLSlug == "" {
			return nil, apperrors.InvalidInput("url_slug must not be empty")
		}
		category.URLSlug = *input.URLSlug
	}

	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishCategoryUpdated(ctx, category); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish category.updated event",
				slog.String("category_id", category.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return category, nil
}

// Delete removes a category. Categories with subcategories cannot be
// deleted; the children must be moved or removed first.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category for delete: %w", err)
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count subcategories: %w", err)
	}
	if children > 0 {
		return apperrors.InvalidState(fmt.Sprintf("category has %d subcategories and cannot be deleted", children))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishCategoryDeleted(ctx, category); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
				slog.String("category_id", category.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))
	return nil
}

// Hierarchy returns the full category tree starting from the root level.
func (s *CategoryService) Hierarchy(ctx context.Context) ([]domain.CategoryNode, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	childrenOf := make(map[string][]domain.Category)
	for _, c := range categories {
		if c.ParentID != nil {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
		}
	}

	var build func(c domain.Category, depth int) domain.CategoryNode
	build = func(c domain.Category, depth int) domain.CategoryNode {
		node := domain.CategoryNode{
			ID:            c.ID,
			Name:          c.Name,
			URLSlug:       c.URLSlug,
			Subcategories: []domain.CategoryNode{},
		}
		if depth >= maxAncestorDepth {
			return node
		}
		for _, child := range childrenOf[c.ID] {
			node.Subcategories = append(node.Subcategories, build(child, depth+1))
		}
		return node
	}

	roots := make([]domain.CategoryNode, 0)
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, build(c, 0))
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })

	return roots, nil
}

// ResolveAttributes returns a category's attributes merged with those
// inherited from its ancestors. The category's own values win over any
// ancestor's; the walk is depth-bounded and stops on a repeated ancestor.
func (s *CategoryService) ResolveAttributes(ctx context.Context, id string) (map[string]any, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	resolved := make(map[string]any, len(category.Attributes))
	for k, v := range category.Attributes {
		resolved[k] = v
	}

	seen := map[string]bool{category.ID: true}
	parentID := category.ParentID
	for depth := 0; parentID != nil && depth < maxAncestorDepth; depth++ {
		if seen[*parentID] {
			s.logger.WarnContext(ctx, "cycle detected in category hierarchy",
				slog.String("category_id", id),
				slog.String("ancestor_id", *parentID),
			)
			break
		}
		seen[*parentID] = true

		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("get ancestor category: %w", err)
		}
		for k, v := range parent.Attributes {
			if _, ok := resolved[k]; !ok {
				resolved[k] = v
			}
		}
		parentID = parent.ParentID
	}

	return resolved, nil
}
