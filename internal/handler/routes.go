package handler

import (
	"go-cms-app/internal/logger"
	"go-cms-app/internal/middleware"
	"go-cms-app/internal/service"
	"go-cms-app/internal/session"
	"go-cms-app/internal/view"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Services bundles the workflows the router exposes.
type Services struct {
	Auth       *service.AuthService
	Dashboard  *service.DashboardService
	Categories *service.CategoryService
	Articles   *service.ArticleService
}

// RouterConfig holds everything NewRouter needs.
type RouterConfig struct {
	Services Services
	View     *view.View
	Sessions session.Manager
	Enforcer middleware.Enforcer
	Log      logger.Logger
	StaticFS fs.FS
	// OIDC is nil when single sign-on is disabled.
	OIDC OIDCProvider
}

// NewRouter creates and configures a new chi router. Every route sits behind
// the session gate; the access policy decides which ones anonymous callers
// may reach.
func NewRouter(cfg RouterConfig) *chi.Mux {
	b := base{view: cfg.View, sessions: cfg.Sessions, log: cfg.Log}
	authHandler := NewAuthHandler(b, cfg.Services.Auth, cfg.OIDC)
	dashboardHandler := NewDashboardHandler(b, cfg.Services.Dashboard)
	categoryHandler := NewCategoryHandler(b, cfg.Services.Categories)
	articleHandler := NewArticleHandler(b, cfg.Services.Articles)

	errorMiddleware := middleware.Error(cfg.Log, cfg.View)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.SettingsMiddleware)
	r.Use(cfg.Sessions.LoadAndSave)
	r.Use(middleware.SessionGate(cfg.Enforcer, cfg.Sessions, cfg.Log))

	// Public routes
	r.Get("/robots.txt", robotsHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(cfg.StaticFS))))
	r.Method(http.MethodGet, "/login", errorMiddleware(authHandler.loginForm))
	r.Method(http.MethodPost, "/login", errorMiddleware(authHandler.login))
	r.Method(http.MethodGet, "/logout", errorMiddleware(authHandler.logout))
	r.Method(http.MethodPost, "/logout", errorMiddleware(authHandler.logout))
	r.Method(http.MethodGet, "/auth/oidc/login", errorMiddleware(authHandler.oidcLogin))
	r.Method(http.MethodGet, "/auth/oidc/callback", errorMiddleware(authHandler.oidcCallback))

	// Admin routes
	r.Method(http.MethodGet, "/", errorMiddleware(dashboardHandler.show))

	r.Method(http.MethodGet, "/categories", errorMiddleware(categoryHandler.list))
	r.Method(http.MethodPost, "/categories", errorMiddleware(categoryHandler.create))
	r.Method(http.MethodPost, "/categories/{id}/delete", errorMiddleware(categoryHandler.delete))

	r.Method(http.MethodGet, "/articles", errorMiddleware(articleHandler.list))
	r.Method(http.MethodGet, "/articles/new", errorMiddleware(articleHandler.create))
	r.Method(http.MethodGet, "/articles/{id}/edit", errorMiddleware(articleHandler.edit))
	r.Method(http.MethodPost, "/articles/{id}/delete", errorMiddleware(articleHandler.delete))

	r.Method(http.MethodGet, "/drafts/{draftID}", errorMiddleware(articleHandler.form))
	r.Method(http.MethodPost, "/drafts/{draftID}", errorMiddleware(articleHandler.save))
	r.Method(http.MethodPost, "/drafts/{draftID}/content", errorMiddleware(articleHandler.content))
	r.Method(http.MethodPost, "/drafts/{draftID}/cancel", errorMiddleware(articleHandler.cancel))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorMiddleware(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
			return &middleware.AppError{Error: nil, Message: "Page not found", Code: http.StatusNotFound}
		}).ServeHTTP(w, r)
	})

	return r
}
