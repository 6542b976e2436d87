package handler

import (
	"context"
	"go-cms-app/internal/logger"
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/session"
	"go-cms-app/internal/view"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

// Flash kinds understood by the base layout.
const (
	flashError   = "error"
	flashSuccess = "success"
)

// base holds the dependencies shared by all page handlers.
type base struct {
	view     *view.View
	sessions session.Manager
	log      logger.Logger
}

// render adds the caller and any pending flash message to data and renders
// the page.
func (b *base) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) *middleware.AppError {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["User"] = middleware.GetUserInfo(r.Context())
	if _, ok := data["Flash"]; !ok {
		data["FlashKind"] = b.sessions.PopString(r.Context(), session.KeyFlashKind)
		data["Flash"] = b.sessions.PopString(r.Context(), session.KeyFlash)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := b.view.Render(w, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// flash stores a one-time notification shown on the next rendered page.
func (b *base) flash(ctx context.Context, kind, msg string) {
	b.sessions.Put(ctx, session.KeyFlashKind, kind)
	b.sessions.Put(ctx, session.KeyFlash, msg)
}

// flashErr stores err as an error notification.
func (b *base) flashErr(ctx context.Context, err error) {
	b.flash(ctx, flashError, notice(err))
}

// notice turns an error into a sentence for the user.
func notice(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// idParam parses the named URL parameter as a positive id.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// withMode keeps the basic-mode switch on a redirect target.
func withMode(r *http.Request, target string) string {
	if !view.IsBasicMode(r.Context()) {
		return target
	}
	if strings.Contains(target, "?") {
		return target + "&basic=true"
	}
	return target + "?basic=true"
}

// redirect sends a 303 so that a POST is followed by a GET.
func redirect(w http.ResponseWriter, r *http.Request, target string) *middleware.AppError {
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}

func notFound(err error) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
}

func internalError(err error, msg string) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: msg, Code: http.StatusInternalServerError}
}
