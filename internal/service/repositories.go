package service

import (
	"context"
	"go-cms-app/internal/data"
	"time"
)

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	Create(ctx context.Context, user *data.User) (int64, error)
}

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	ListWithCounts(ctx context.Context) ([]*data.CategoryWithCount, error)
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	DeleteUnreferenced(ctx context.Context, id int64) (int, error)
}

// ArticleRepository defines the interface for database operations on articles.
type ArticleRepository interface {
	ListWithCategory(ctx context.Context) ([]*data.ArticleWithCategory, error)
	GetArticleByID(ctx context.Context, id int64) (*data.Article, error)
	CreateArticle(ctx context.Context, article *data.Article) error
	UpdateArticle(ctx context.Context, article *data.Article) error
	DeleteArticle(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*data.Stats, error)
}

// Cache is the key/value store used for dashboard counters.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// StatsInvalidator is notified after every write that changes the counters.
type StatsInvalidator interface {
	Invalidate()
}
