package handler

import (
	"errors"
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/service"
	"net/http"
)

const categoriesPath = "/categories"

// CategoryHandler serves the category list and its actions.
type CategoryHandler struct {
	base
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(b base, c *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{base: b, categories: c}
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	rows, err := h.categories.List(r.Context())
	if err != nil {
		return internalError(err, "Failed to retrieve categories")
	}
	return h.render(w, r, "categories.html", map[string]interface{}{"Categories": rows})
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category, err := h.categories.Create(r.Context(), r.FormValue("name"))
	switch {
	case errors.Is(err, service.ErrDuplicateName), errors.Is(err, service.ErrNameTooLong):
		h.flashErr(r.Context(), err)
	case err != nil:
		return internalError(err, "Failed to create category")
	case category != nil:
		h.flash(r.Context(), flashSuccess, "Category "+category.Name+" created")
	}
	return redirect(w, r, categoriesPath)
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, ok := idParam(r, "id")
	if !ok {
		return notFound(errors.New("invalid category id"))
	}
	err := h.categories.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrCategoryInUse):
		h.flashErr(r.Context(), err)
	case errors.Is(err, service.ErrNotFound):
		h.flash(r.Context(), flashError, "Category no longer exists")
	case err != nil:
		return internalError(err, "Failed to delete category")
	default:
		h.flash(r.Context(), flashSuccess, "Category deleted")
	}
	return redirect(w, r, categoriesPath)
}
