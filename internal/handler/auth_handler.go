package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"go-cms-app/internal/auth"
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/service"
	"go-cms-app/internal/session"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const stateCookie = "oidc_state"

// OIDCProvider is the part of auth.Authenticator used by the login flow.
type OIDCProvider interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	VerifyCode(ctx context.Context, code string) (*auth.Claims, error)
}

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	base
	auth *service.AuthService
	oidc OIDCProvider
}

// NewAuthHandler creates a new AuthHandler. oidc may be nil, which disables
// single sign-on.
func NewAuthHandler(b base, a *service.AuthService, oidc OIDCProvider) *AuthHandler {
	return &AuthHandler{base: b, auth: a, oidc: oidc}
}

// loginForm shows the login page. An authenticated session goes straight to
// the dashboard.
func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusFound)
		return nil
	}
	return h.render(w, r, "login.html", map[string]interface{}{
		"RedirectTo":  r.URL.Query().Get("redirect_to"),
		"Username":    "",
		"OIDCEnabled": h.oidc != nil,
	})
}

// login checks the submitted credentials and, on success, sends the user to
// the page they originally asked for.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid form", Code: http.StatusBadRequest}
	}
	username := r.PostForm.Get("username")
	redirectTo := r.PostForm.Get("redirect_to")

	err := h.auth.Login(r.Context(), username, r.PostForm.Get("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		return h.render(w, r, "login.html", map[string]interface{}{
			"RedirectTo":  redirectTo,
			"Username":    username,
			"OIDCEnabled": h.oidc != nil,
			"Flash":       notice(err),
			"FlashKind":   flashError,
		})
	}
	if err != nil {
		return internalError(err, "Failed to log in")
	}

	h.log.Info("User logged in: " + username)
	return redirect(w, r, localRedirect(redirectTo))
}

// logout clears the session and returns to the login page.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.auth.Logout(r.Context()); err != nil {
		return internalError(err, "Failed to log out")
	}
	return redirect(w, r, middleware.LoginPath)
}

// oidcLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) oidcLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return notFound(errors.New("oidc login is not configured"))
	}
	state, err := randString(16)
	if err != nil {
		return internalError(err, "Failed to start login")
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/oidc",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.sessions.Put(r.Context(), session.KeyOIDCRedirect, r.URL.Query().Get("redirect_to"))
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
	return nil
}

// oidcCallback is the redirect URL for the OIDC provider. The verified
// identity must match a local user.
func (h *AuthHandler) oidcCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return notFound(errors.New("oidc login is not configured"))
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Login state not found", Code: http.StatusBadRequest}
	}
	if r.URL.Query().Get("state") != cookie.Value {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "Login state did not match", Code: http.StatusBadRequest}
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth/oidc", MaxAge: -1})

	claims, err := h.oidc.VerifyCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to verify login", Code: http.StatusUnauthorized}
	}

	redirectTo := h.sessions.PopString(r.Context(), session.KeyOIDCRedirect)
	err = h.auth.LoginExternal(r.Context(), claims.Username())
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.flash(r.Context(), flashError, "No local account for "+claims.Username())
		return redirect(w, r, middleware.LoginPath)
	}
	if err != nil {
		return internalError(err, "Failed to log in")
	}

	h.log.Info("User logged in via OIDC: " + claims.Username())
	return redirect(w, r, localRedirect(redirectTo))
}

// localRedirect returns target if it is a path on this site, "/" otherwise.
func localRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	if strings.HasPrefix(target, middleware.LoginPath) {
		return "/"
	}
	return target
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
