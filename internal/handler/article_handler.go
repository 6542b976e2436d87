package handler

import (
	"errors"
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/service"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const articlesPath = "/articles"

// ArticleHandler serves the article list and the edit dialog. Drafts are
// owned by the session token, so they are only visible to the session that
// opened them.
type ArticleHandler struct {
	base
	articles *service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(b base, a *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{base: b, articles: a}
}

func (h *ArticleHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	rows, err := h.articles.List(r.Context())
	if err != nil {
		return internalError(err, "Failed to retrieve articles")
	}
	return h.render(w, r, "articles.html", map[string]interface{}{"Articles": rows})
}

// create opens an empty draft and shows it.
func (h *ArticleHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	form, err := h.articles.StartCreate(r.Context(), owner)
	if err != nil {
		return internalError(err, "Failed to open editor")
	}
	return redirect(w, r, withMode(r, draftPath(form.Draft.ID)))
}

// edit opens a draft prefilled from an existing article and shows it.
func (h *ArticleHandler) edit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	id, ok := idParam(r, "id")
	if !ok {
		return notFound(errors.New("invalid article id"))
	}
	form, err := h.articles.StartEdit(r.Context(), owner, id)
	if errors.Is(err, service.ErrNotFound) {
		h.flash(r.Context(), flashError, "Article no longer exists")
		return redirect(w, r, articlesPath)
	}
	if err != nil {
		return internalError(err, "Failed to open editor")
	}
	return redirect(w, r, withMode(r, draftPath(form.Draft.ID)))
}

// form renders an open draft.
func (h *ArticleHandler) form(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	form, err := h.articles.Form(r.Context(), owner, chi.URLParam(r, "draftID"))
	if errors.Is(err, service.ErrNotFound) {
		h.flash(r.Context(), flashError, "This edit is no longer open")
		return redirect(w, r, articlesPath)
	}
	if err != nil {
		return internalError(err, "Failed to open editor")
	}
	return h.render(w, r, "article_edit.html", map[string]interface{}{
		"Draft":      form.Draft,
		"Categories": form.Categories,
	})
}

// content receives the editor's serialised content for a draft. It is
// called by the editor script just before the form is submitted.
func (h *ArticleHandler) content(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	err := h.articles.DeliverContent(owner, chi.URLParam(r, "draftID"), r.FormValue("body"), r.FormValue("format"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Draft not found", http.StatusNotFound)
	case errors.Is(err, service.ErrDraftClosed):
		http.Error(w, "Draft closed", http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
	return nil
}

// save writes the draft. Without JavaScript the content arrives with the
// form itself and is delivered before the save starts waiting for it.
func (h *ArticleHandler) save(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	draftID := chi.URLParam(r, "draftID")
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form", Code: http.StatusBadRequest}
	}

	in := service.DraftInput{
		Title:     r.PostForm.Get("title"),
		Published: r.PostForm.Get("published") == "true",
	}
	if raw := r.PostForm.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &middleware.AppError{Error: err, Message: "Invalid category", Code: http.StatusBadRequest}
		}
		in.CategoryID = &id
	}

	if _, ok := r.PostForm["content"]; ok {
		err := h.articles.DeliverContent(owner, draftID, r.PostForm.Get("content"), r.PostForm.Get("format"))
		if err != nil {
			return h.saveFailed(w, r, owner, draftID, err)
		}
	}

	article, err := h.articles.Save(r.Context(), owner, draftID, in)
	if err != nil {
		return h.saveFailed(w, r, owner, draftID, err)
	}
	h.flash(r.Context(), flashSuccess, "Article "+article.Title+" saved")
	return redirect(w, r, articlesPath)
}

// saveFailed shows a failed save as a notification. The draft stays open
// unless it no longer exists.
func (h *ArticleHandler) saveFailed(w http.ResponseWriter, r *http.Request, owner, draftID string, err error) *middleware.AppError {
	switch {
	case errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrEditorTimeout),
		errors.Is(err, service.ErrDraftBusy):
		h.flashErr(r.Context(), err)
	case errors.Is(err, service.ErrDraftClosed):
		h.flashErr(r.Context(), err)
		return redirect(w, r, articlesPath)
	case errors.Is(err, service.ErrNotFound):
		if _, formErr := h.articles.Form(r.Context(), owner, draftID); formErr != nil {
			h.flash(r.Context(), flashError, "This edit is no longer open")
			return redirect(w, r, articlesPath)
		}
		h.flash(r.Context(), flashError, "The article or its category no longer exists")
	default:
		return internalError(err, "Failed to save article")
	}
	return redirect(w, r, withMode(r, draftPath(draftID)))
}

// cancel closes the dialog without saving.
func (h *ArticleHandler) cancel(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	owner, appErr := h.owner(r)
	if appErr != nil {
		return appErr
	}
	h.articles.Cancel(owner, chi.URLParam(r, "draftID"))
	return redirect(w, r, articlesPath)
}

func (h *ArticleHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, ok := idParam(r, "id")
	if !ok {
		return notFound(errors.New("invalid article id"))
	}
	err := h.articles.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.flash(r.Context(), flashError, "Article no longer exists")
	case err != nil:
		return internalError(err, "Failed to delete article")
	default:
		h.flash(r.Context(), flashSuccess, "Article deleted")
	}
	return redirect(w, r, articlesPath)
}

// owner returns the session token that drafts are keyed by.
func (h *ArticleHandler) owner(r *http.Request) (string, *middleware.AppError) {
	token := h.sessions.Token(r.Context())
	if token == "" {
		return "", &middleware.AppError{Error: errors.New("no session token"), Message: "Session expired", Code: http.StatusUnauthorized}
	}
	return token, nil
}

func draftPath(id string) string {
	return "/drafts/" + id
}
