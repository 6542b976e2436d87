package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLArticleRepository is the sqlx implementation of the article store.
type SQLArticleRepository struct {
	db *sqlx.DB
}

// NewSQLArticleRepository creates a new SQLArticleRepository.
func NewSQLArticleRepository(db *sqlx.DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// ListWithCategory returns all articles in creation order, joined to their category name.
func (r *SQLArticleRepository) ListWithCategory(ctx context.Context) ([]*ArticleWithCategory, error) {
	var articles []*ArticleWithCategory
	query := `
		SELECT a.id, a.title, a.content, a.category_id, a.published, a.created_at, c.name AS category_name
		FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id
		ORDER BY a.created_at, a.id`
	if err := r.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// GetArticleByID retrieves a single article by its ID.
func (r *SQLArticleRepository) GetArticleByID(ctx context.Context, id int64) (*Article, error) {
	var article Article
	query := `SELECT id, title, content, category_id, published, created_at FROM articles WHERE id = ?`
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}
	return &article, nil
}

// CreateArticle inserts a new article after verifying, in the same
// transaction, that its category exists. The generated ID is set on article.
func (r *SQLArticleRepository) CreateArticle(ctx context.Context, article *Article) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := requireCategory(ctx, tx, article.CategoryID); err != nil {
			return err
		}
		query := `INSERT INTO articles (title, content, category_id, published, created_at)
			VALUES (:title, :content, :category_id, :published, :created_at)`
		res, err := tx.NamedExecContext(ctx, query, article)
		if err != nil {
			return fmt.Errorf("failed to execute create article query: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get article id: %w", err)
		}
		article.ID = id
		return nil
	})
}

// UpdateArticle writes the mutable fields of an existing article. created_at
// is never changed.
func (r *SQLArticleRepository) UpdateArticle(ctx context.Context, article *Article) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := requireCategory(ctx, tx, article.CategoryID); err != nil {
			return err
		}
		query := `UPDATE articles SET title = :title, content = :content, category_id = :category_id, published = :published WHERE id = :id`
		result, err := tx.NamedExecContext(ctx, query, article)
		if err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("article %d: %w", article.ID, ErrNotFound)
		}
		return nil
	})
}

// DeleteArticle removes an article from the database by its ID.
func (r *SQLArticleRepository) DeleteArticle(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// Stats counts categories, articles and published articles.
func (r *SQLArticleRepository) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM articles) AS articles,
			(SELECT COUNT(*) FROM articles WHERE published = ?) AS published`
	if err := r.db.GetContext(ctx, &stats, query, true); err != nil {
		return nil, fmt.Errorf("failed to count stats: %w", err)
	}
	return &stats, nil
}

func requireCategory(ctx context.Context, tx *sqlx.Tx, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	var n int
	if err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM categories WHERE id = ?", *categoryID); err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", *categoryID, ErrNotFound)
	}
	return nil
}
