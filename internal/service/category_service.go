package service

import (
	"context"
	"errors"
	"fmt"
	"go-cms-app/internal/data"
	"strings"
	"unicode/utf8"
)

// CategoryRow is one line of the category list.
type CategoryRow struct {
	ID           int64
	Name         string
	ArticleCount int
}

// CategoryService provides the category workflow.
type CategoryService struct {
	repo  CategoryRepository
	stats StatsInvalidator
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo CategoryRepository, stats StatsInvalidator) *CategoryService {
	return &CategoryService{repo: repo, stats: stats}
}

// List returns all categories with the number of articles referencing each.
func (s *CategoryService) List(ctx context.Context) ([]CategoryRow, error) {
	categories, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]CategoryRow, len(categories))
	for i, c := range categories {
		rows[i] = CategoryRow{ID: c.ID, Name: c.Name, ArticleCount: c.ArticleCount}
	}
	return rows, nil
}

// Create adds a category. A blank name is ignored and yields (nil, nil).
func (s *CategoryService) Create(ctx context.Context, name string) (*data.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return nil, ErrNameTooLong
	}
	category := &data.Category{Name: name}
	if _, err := s.repo.Save(ctx, category); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	s.stats.Invalidate()
	return category, nil
}

// Delete removes a category that no article references.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	refs, err := s.repo.DeleteUnreferenced(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return err
	}
	if refs > 0 {
		return ErrCategoryInUse
	}
	s.stats.Invalidate()
	return nil
}
