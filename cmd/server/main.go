package main

import (
	"context"
	"errors"
	"fmt"
	"go-cms-app/internal/auth"
	"go-cms-app/internal/cache"
	"go-cms-app/internal/config"
	"go-cms-app/internal/data"
	"go-cms-app/internal/draft"
	"go-cms-app/internal/handler"
	"go-cms-app/internal/logger"
	"go-cms-app/internal/service"
	"go-cms-app/internal/session"
	"go-cms-app/internal/view"
	"go-cms-app/migrations"
	"go-cms-app/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Pre-flight Checks ---
	if cfg.Admin.Password == config.DefaultAdminPassword {
		log.Warn("The admin account uses the default password. Set CMS_ADMIN_PASSWORD before exposing this server.")
	}
	if cfg.Session.Store == session.StoreMemory {
		log.Warn("Sessions are kept in memory and will not survive a restart.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db, cfg.DB.Driver, migrations.FS); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager, err := session.New(cfg.Session, db, cfg.DB.Driver, cfg.Server.TLS.Enabled)
	if err != nil {
		log.Fatal(err, "Failed to initialize session manager")
	}

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	driverName := cfg.DB.Driver
	if driverName == "" {
		driverName = data.DriverSQLite
	}
	enforcer, err := auth.NewEnforcer(driverName, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	if err := auth.SeedDefaultPolicies(enforcer, log); err != nil {
		log.Fatal(err, "Failed to seed access policies")
	}

	var oidcProvider handler.OIDCProvider
	if cfg.OIDC.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		authenticator, err := auth.NewAuthenticator(ctx, &cfg.OIDC)
		cancel()
		if err != nil {
			log.Fatal(err, "Failed to initialize OIDC authenticator")
		}
		oidcProvider = authenticator
		log.Info("OIDC login enabled.")
	}

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	statsCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer statsCache.Close()

	// --- Dependency Injection ---
	userRepository := data.NewUserRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	articleRepository := data.NewSQLArticleRepository(db)

	authService := service.NewAuthService(userRepository, sessionManager)
	created, err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal(err, "Failed to seed admin user")
	}
	if created {
		log.Info(fmt.Sprintf("Created admin user %q.", cfg.Admin.Username))
	}

	dashboardService := service.NewDashboardService(articleRepository, statsCache, cfg.Cache.TTL, log)
	categoryService := service.NewCategoryService(categoryRepository, dashboardService)
	articleService := service.NewArticleService(
		articleRepository,
		categoryRepository,
		draft.NewRegistry(cfg.Editor.DraftTTL),
		service.NewContentRenderer(),
		dashboardService,
		cfg.Editor.SaveTimeout,
	)

	// --- Router Setup ---
	router := handler.NewRouter(handler.RouterConfig{
		Services: handler.Services{
			Auth:       authService,
			Dashboard:  dashboardService,
			Categories: categoryService,
			Articles:   articleService,
		},
		View:     viewService,
		Sessions: sessionManager,
		Enforcer: enforcer,
		Log:      log,
		StaticFS: web.StaticFS,
		OIDC:     oidcProvider,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
