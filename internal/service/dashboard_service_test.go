//go:build unit

package service

import (
	"context"
	"errors"
	"go-cms-app/internal/cache"
	"go-cms-app/internal/config"
	"go-cms-app/internal/data"
	"go-cms-app/internal/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache creates a new in-memory cache for testing.
func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(config.CacheConfig{FilePath: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDashboardService_StatsAreCachedUntilInvalidated(t *testing.T) {
	store := newMemoryStore()
	articles := mockArticleRepository{store}
	svc := NewDashboardService(articles, newTestCache(t), time.Minute, logger.Nop())
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.Stats{}, *stats)

	require.NoError(t, articles.CreateArticle(ctx, &data.Article{Title: "A", Published: true, CreatedAt: time.Now()}))

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Articles, "second read should come from the cache")

	svc.Invalidate()
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.Stats{Articles: 1, Published: 1}, *stats)
}

func TestDashboardService_WorkflowsInvalidate(t *testing.T) {
	store := newMemoryStore()
	dashboard := NewDashboardService(mockArticleRepository{store}, newTestCache(t), time.Minute, logger.Nop())
	categories := NewCategoryService(mockCategoryRepository{store}, dashboard)
	ctx := context.Background()

	_, err := dashboard.Stats(ctx)
	require.NoError(t, err)

	_, err = categories.Create(ctx, "News")
	require.NoError(t, err)

	stats, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Categories)
}

func TestDashboardService_RepositoryError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("db down")
	svc := NewDashboardService(mockArticleRepository{store}, newTestCache(t), time.Minute, logger.Nop())

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

// racingArticleRepository simulates a write from another session landing
// while the counts are being read.
type racingArticleRepository struct {
	mockArticleRepository
	onStats func()
}

func (r racingArticleRepository) Stats(ctx context.Context) (*data.Stats, error) {
	stats, err := r.mockArticleRepository.Stats(ctx)
	if r.onStats != nil {
		r.onStats()
	}
	return stats, err
}

func TestDashboardService_StaleCountsAreNotCached(t *testing.T) {
	store := newMemoryStore()
	articles := mockArticleRepository{store}
	repo := &racingArticleRepository{mockArticleRepository: articles}
	svc := NewDashboardService(repo, newTestCache(t), time.Minute, logger.Nop())
	ctx := context.Background()

	repo.onStats = func() {
		repo.onStats = nil
		require.NoError(t, articles.CreateArticle(ctx, &data.Article{Title: "A", CreatedAt: time.Now()}))
		svc.Invalidate()
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Articles, "the read started before the write")

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Articles, "the stale read must not have been cached")
}
