//go:build unit

package service

import (
	"context"
	"fmt"
	"go-cms-app/internal/data"
	"sort"
	"sync"
)

// mockUserRepository is an in-memory implementation of UserRepository.
type mockUserRepository struct {
	users       map[string]*data.User
	createCalls int
}

var _ UserRepository = (*mockUserRepository)(nil)

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[string]*data.User{}}
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %q: %w", username, data.ErrNotFound)
}

func (m *mockUserRepository) Create(ctx context.Context, user *data.User) (int64, error) {
	m.createCalls++
	if _, ok := m.users[user.Username]; ok {
		return 0, data.ErrDuplicate
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.Username] = user
	return user.ID, nil
}

// memoryStore backs both the category and the article mocks so reference
// counts stay consistent.
type memoryStore struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]*data.Category
	articles   map[int64]*data.Article
	err        error
	writes     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{categories: map[int64]*data.Category{}, articles: map[int64]*data.Article{}}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct{ *memoryStore }

var _ CategoryRepository = mockCategoryRepository{}

func (m mockCategoryRepository) ListWithCounts(ctx context.Context) ([]*data.CategoryWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*data.CategoryWithCount
	for _, c := range m.categories {
		row := &data.CategoryWithCount{Category: *c}
		for _, a := range m.articles {
			if a.CategoryID != nil && *a.CategoryID == c.ID {
				row.ArticleCount++
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*data.Category
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m mockCategoryRepository) GetByID(ctx context.Context, id int64) (*data.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, data.ErrNotFound
}

func (m mockCategoryRepository) Save(ctx context.Context, category *data.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == category.Name {
			return 0, fmt.Errorf("category %q: %w", category.Name, data.ErrDuplicate)
		}
	}
	category.ID = m.id()
	cp := *category
	m.categories[category.ID] = &cp
	m.writes++
	return category.ID, nil
}

func (m mockCategoryRepository) DeleteUnreferenced(ctx context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return 0, data.ErrNotFound
	}
	refs := 0
	for _, a := range m.articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			refs++
		}
	}
	if refs == 0 {
		delete(m.categories, id)
		m.writes++
	}
	return refs, nil
}

// mockArticleRepository is a mock implementation of the ArticleRepository interface.
type mockArticleRepository struct{ *memoryStore }

var _ ArticleRepository = mockArticleRepository{}

func (m mockArticleRepository) ListWithCategory(ctx context.Context) ([]*data.ArticleWithCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*data.ArticleWithCategory
	for _, a := range m.articles {
		row := &data.ArticleWithCategory{Article: *a}
		if a.CategoryID != nil {
			if c, ok := m.categories[*a.CategoryID]; ok {
				row.CategoryName.String, row.CategoryName.Valid = c.Name, true
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockArticleRepository) GetArticleByID(ctx context.Context, id int64) (*data.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.articles[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, fmt.Errorf("article %d: %w", id, data.ErrNotFound)
}

func (m mockArticleRepository) checkCategory(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := m.categories[*id]; !ok {
		return fmt.Errorf("category %d: %w", *id, data.ErrNotFound)
	}
	return nil
}

func (m mockArticleRepository) CreateArticle(ctx context.Context, article *data.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if err := m.checkCategory(article.CategoryID); err != nil {
		return err
	}
	article.ID = m.id()
	cp := *article
	m.articles[article.ID] = &cp
	m.writes++
	return nil
}

func (m mockArticleRepository) UpdateArticle(ctx context.Context, article *data.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkCategory(article.CategoryID); err != nil {
		return err
	}
	existing, ok := m.articles[article.ID]
	if !ok {
		return fmt.Errorf("article %d: %w", article.ID, data.ErrNotFound)
	}
	existing.Title = article.Title
	existing.Content = article.Content
	existing.CategoryID = article.CategoryID
	existing.Published = article.Published
	m.writes++
	return nil
}

func (m mockArticleRepository) DeleteArticle(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return fmt.Errorf("article %d: %w", id, data.ErrNotFound)
	}
	delete(m.articles, id)
	m.writes++
	return nil
}

func (m mockArticleRepository) Stats(ctx context.Context) (*data.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stats := &data.Stats{Categories: len(m.categories), Articles: len(m.articles)}
	for _, a := range m.articles {
		if a.Published {
			stats.Published++
		}
	}
	return stats, nil
}

// countingInvalidator records how often the stats were invalidated.
type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }
