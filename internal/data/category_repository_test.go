//go:build integration

package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_Save(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	category := &Category{Name: "Science"}
	id, err := repo.Save(ctx, category)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, category.ID)
}

func TestCategoryRepository_SaveDuplicate(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, &Category{Name: "News"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &Category{Name: "News"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCategoryRepository_GetByID(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	id, err := repo.Save(ctx, &Category{Name: "Movies"})
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Movies", found.Name)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepository_GetAll(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, &Category{Name: "Music"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &Category{Name: "Books"})
	require.NoError(t, err)

	categories, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Music", categories[1].Name)
}

func TestCategoryRepository_ListWithCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	articles := NewSQLArticleRepository(db)
	ctx := context.Background()

	newsID, err := repo.Save(ctx, &Category{Name: "News"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &Category{Name: "Empty"})
	require.NoError(t, err)

	for _, title := range []string{"A1", "A2"} {
		require.NoError(t, articles.CreateArticle(ctx, &Article{Title: title, CategoryID: &newsID, CreatedAt: time.Now().UTC()}))
	}

	list, err := repo.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "News", list[0].Name)
	assert.Equal(t, 2, list[0].ArticleCount)
	assert.Equal(t, "Empty", list[1].Name)
	assert.Equal(t, 0, list[1].ArticleCount)
}

func TestCategoryRepository_DeleteUnreferenced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	articles := NewSQLArticleRepository(db)
	ctx := context.Background()

	id, err := repo.Save(ctx, &Category{Name: "News"})
	require.NoError(t, err)
	article := &Article{Title: "A1", CategoryID: &id, CreatedAt: time.Now().UTC()}
	require.NoError(t, articles.CreateArticle(ctx, article))

	refs, err := repo.DeleteUnreferenced(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, refs)
	_, err = repo.GetByID(ctx, id)
	require.NoError(t, err, "referenced category must survive")

	require.NoError(t, articles.DeleteArticle(ctx, article.ID))

	refs, err = repo.DeleteUnreferenced(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, refs)
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.DeleteUnreferenced(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
