package service

import (
	"context"
	"errors"
	"fmt"
	"go-cms-app/internal/data"
	"go-cms-app/internal/draft"
	"time"
	"unicode/utf8"
)

const (
	noCategoryLabel = "No Category"
	createdAtLayout = "2006-01-02 15:04"
)

// ArticleRow is one line of the article list.
type ArticleRow struct {
	ID             int64
	Title          string
	CategoryName   string
	PublishedLabel string
	CreatedAt      string
}

// EditForm is an open draft together with the selectable categories.
type EditForm struct {
	Draft      *draft.Draft
	Categories []*data.Category
}

// DraftInput carries the form fields submitted with a save.
type DraftInput struct {
	Title      string
	CategoryID *int64
	Published  bool
}

// ArticleService provides the article workflow, including the edit dialog.
type ArticleService struct {
	articles    ArticleRepository
	categories  CategoryRepository
	drafts      *draft.Registry
	content     *ContentRenderer
	stats       StatsInvalidator
	saveTimeout time.Duration
	now         func() time.Time
}

// NewArticleService creates a new ArticleService. saveTimeout bounds how long
// a save waits for the editor to deliver its content.
func NewArticleService(
	articles ArticleRepository,
	categories CategoryRepository,
	drafts *draft.Registry,
	content *ContentRenderer,
	stats StatsInvalidator,
	saveTimeout time.Duration,
) *ArticleService {
	return &ArticleService{
		articles:    articles,
		categories:  categories,
		drafts:      drafts,
		content:     content,
		stats:       stats,
		saveTimeout: saveTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// List returns all articles in creation order.
func (s *ArticleService) List(ctx context.Context) ([]ArticleRow, error) {
	articles, err := s.articles.ListWithCategory(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]ArticleRow, len(articles))
	for i, a := range articles {
		row := ArticleRow{
			ID:             a.ID,
			Title:          a.Title,
			CategoryName:   noCategoryLabel,
			PublishedLabel: "No",
			CreatedAt:      a.CreatedAt.Format(createdAtLayout),
		}
		if a.CategoryName.Valid {
			row.CategoryName = a.CategoryName.String
		}
		if a.Published {
			row.PublishedLabel = "Yes"
		}
		rows[i] = row
	}
	return rows, nil
}

// StartCreate opens an empty draft for owner.
func (s *ArticleService) StartCreate(ctx context.Context, owner string) (*EditForm, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	d := s.drafts.Open(owner, 0, draft.Fields{}, "")
	return &EditForm{Draft: d, Categories: categories}, nil
}

// StartEdit opens a draft prefilled from article id.
func (s *ArticleService) StartEdit(ctx context.Context, owner string, id int64) (*EditForm, error) {
	article, err := s.articles.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	fields := draft.Fields{
		Title:      article.Title,
		CategoryID: article.CategoryID,
		Published:  article.Published,
	}
	d := s.drafts.Open(owner, article.ID, fields, article.Content)
	return &EditForm{Draft: d, Categories: categories}, nil
}

// Form returns an already open draft, e.g. to show it again after a failed save.
func (s *ArticleService) Form(ctx context.Context, owner, draftID string) (*EditForm, error) {
	d, err := s.draft(owner, draftID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &EditForm{Draft: d, Categories: categories}, nil
}

// DeliverContent hands the editor's content to the draft. This is the
// response half of the editor round trip a save waits for.
func (s *ArticleService) DeliverContent(owner, draftID, body, format string) error {
	d, err := s.draft(owner, draftID)
	if err != nil {
		return err
	}
	html, err := s.content.Render(body, format)
	if err != nil {
		return err
	}
	return draftError(d.Deliver(html))
}

// Save validates the submitted fields, waits for the editor content and
// writes the article. Nothing is written when a category is missing, the
// editor does not respond in time, or the draft is cancelled meanwhile.
// Every attempt waits for its own content delivery.
func (s *ArticleService) Save(ctx context.Context, owner, draftID string, in DraftInput) (*data.Article, error) {
	d, err := s.draft(owner, draftID)
	if err != nil {
		return nil, err
	}
	fields := draft.Fields{Title: in.Title, CategoryID: in.CategoryID, Published: in.Published}
	if err := d.SetFields(fields); err != nil {
		return nil, draftError(err)
	}
	// A rejected attempt must not let the next one reuse this delivery.
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		d.Rearm()
		return nil, ErrTitleTooLong
	}
	if in.CategoryID == nil {
		d.Rearm()
		return nil, ErrCategoryRequired
	}
	if err := d.BeginSave(); err != nil {
		return nil, draftError(err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if _, err := d.AwaitContent(waitCtx); err != nil {
		d.AbortSave()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrEditorTimeout
		}
		return nil, draftError(err)
	}

	var saved *data.Article
	err = d.Commit(func(f draft.Fields, content string) error {
		article := &data.Article{
			ID:         d.ArticleID,
			Title:      f.Title,
			Content:    content,
			CategoryID: f.CategoryID,
			Published:  f.Published,
		}
		if d.IsNew() {
			article.CreatedAt = s.now()
			if err := s.articles.CreateArticle(ctx, article); err != nil {
				return err
			}
		} else if err := s.articles.UpdateArticle(ctx, article); err != nil {
			return err
		}
		saved = article
		return nil
	})
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, fmt.Errorf("%v: %w", err, ErrNotFound)
		}
		return nil, draftError(err)
	}

	s.drafts.Discard(owner, draftID)
	s.stats.Invalidate()
	return saved, nil
}

// Cancel discards the draft without touching the store.
func (s *ArticleService) Cancel(owner, draftID string) {
	s.drafts.Discard(owner, draftID)
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	if err := s.articles.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return err
	}
	s.stats.Invalidate()
	return nil
}

func (s *ArticleService) draft(owner, draftID string) (*draft.Draft, error) {
	d, err := s.drafts.Get(owner, draftID)
	if err != nil {
		return nil, draftError(err)
	}
	return d, nil
}

// draftError maps draft lifecycle errors onto workflow errors.
func draftError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, draft.ErrNotFound):
		return fmt.Errorf("draft: %w", ErrNotFound)
	case errors.Is(err, draft.ErrBusy):
		return ErrDraftBusy
	case errors.Is(err, draft.ErrClosed):
		return ErrDraftClosed
	default:
		return err
	}
}
