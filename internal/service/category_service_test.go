//go:build unit

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-cms-app/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	store := newMemoryStore()
	stats := &countingInvalidator{}
	svc := NewCategoryService(mockCategoryRepository{store}, stats)
	ctx := context.Background()

	t.Run("blank names are ignored", func(t *testing.T) {
		for _, name := range []string{"", "   ", "\t\n"} {
			category, err := svc.Create(ctx, name)
			assert.NoError(t, err)
			assert.Nil(t, category)
		}
		assert.Zero(t, store.writes)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		category, err := svc.Create(ctx, "  News  ")
		require.NoError(t, err)
		assert.Equal(t, "News", category.Name)
		assert.Equal(t, 1, stats.calls)
	})

	t.Run("duplicate is reported", func(t *testing.T) {
		_, err := svc.Create(ctx, "News")
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestCategoryService_ListCountsArticles(t *testing.T) {
	store := newMemoryStore()
	categories := mockCategoryRepository{store}
	articles := mockArticleRepository{store}
	svc := NewCategoryService(categories, &countingInvalidator{})
	ctx := context.Background()

	news, err := svc.Create(ctx, "News")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Sports")
	require.NoError(t, err)
	require.NoError(t, articles.CreateArticle(ctx, &data.Article{Title: "A1", CategoryID: &news.ID, CreatedAt: time.Now()}))

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryRow{
		{ID: news.ID, Name: "News", ArticleCount: 1},
		{ID: news.ID + 1, Name: "Sports", ArticleCount: 0},
	}, rows)
}

func TestCategoryService_Delete(t *testing.T) {
	store := newMemoryStore()
	stats := &countingInvalidator{}
	articles := mockArticleRepository{store}
	svc := NewCategoryService(mockCategoryRepository{store}, stats)
	ctx := context.Background()

	news, err := svc.Create(ctx, "News")
	require.NoError(t, err)
	article := &data.Article{Title: "A1", CategoryID: &news.ID, CreatedAt: time.Now()}
	require.NoError(t, articles.CreateArticle(ctx, article))
	callsBefore := stats.calls

	assert.ErrorIs(t, svc.Delete(ctx, news.ID), ErrCategoryInUse)
	assert.Equal(t, callsBefore, stats.calls)

	require.NoError(t, articles.DeleteArticle(ctx, article.ID))
	require.NoError(t, svc.Delete(ctx, news.ID))
	assert.Equal(t, callsBefore+1, stats.calls)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, svc.Delete(ctx, news.ID), ErrNotFound)
}

func TestCategoryService_CreateNameLimit(t *testing.T) {
	store := newMemoryStore()
	stats := &countingInvalidator{}
	svc := NewCategoryService(mockCategoryRepository{store}, stats)
	ctx := context.Background()

	_, err := svc.Create(ctx, strings.Repeat("n", MaxCategoryNameLength+1))
	assert.ErrorIs(t, err, ErrNameTooLong)
	assert.Zero(t, store.writes)
	assert.Zero(t, stats.calls)

	// The limit counts characters, not bytes, and applies after trimming.
	name := strings.Repeat("ü", MaxCategoryNameLength)
	category, err := svc.Create(ctx, "  "+name+"  ")
	require.NoError(t, err)
	assert.Equal(t, name, category.Name)
}
