package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// ListWithCounts returns every category in creation order together with the
// number of articles that currently reference it.
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]*CategoryWithCount, error) {
	var categories []*CategoryWithCount
	query := `
		SELECT c.id, c.name, COUNT(a.id) AS article_count
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	if err := r.DB.SelectContext(ctx, &categories, "SELECT id, name FROM categories ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT id, name FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// Save creates a new category and returns its ID. A name that already exists
// yields ErrDuplicate.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	var id int64
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, "SELECT COUNT(*) FROM categories WHERE name = ?", category.Name); err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("category %q: %w", category.Name, ErrDuplicate)
		}
		res, err := tx.NamedExecContext(ctx, "INSERT INTO categories (name) VALUES (:name)", category)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("category %q: %w", category.Name, ErrDuplicate)
			}
			return fmt.Errorf("failed to create category: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	category.ID = id
	return id, nil
}

// DeleteUnreferenced removes the category only if no article references it.
// The reference count and the delete share one transaction; the count seen
// is returned and nothing is deleted when it is non-zero.
func (r *CategoryRepository) DeleteUnreferenced(ctx context.Context, id int64) (int, error) {
	var refs int
	err := withTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM categories WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		if err := tx.GetContext(ctx, &refs, "SELECT COUNT(*) FROM articles WHERE category_id = ?", id); err != nil {
			return fmt.Errorf("failed to count category articles: %w", err)
		}
		if refs > 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return refs, nil
}
