package main

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/cache"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/handler"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"go-portfolio-app/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
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
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	if cfg.Admin.Password == "" {
		log.Fatal(errors.New("admin password not set"), "Please set the PORTFOLIO_ADMIN_PASSWORD environment variable.")
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
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager := newSessionManager(cfg, db)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	authenticator, err := auth.NewAuthenticator(context.Background(), &cfg.OIDC)
	if err != nil {
		log.Fatal(err, "Failed to initialize authenticator")
	}
	if authenticator == nil {
		log.Info("OIDC issuer not configured; external sign-in disabled.")
	}
	enforcer, err := auth.NewEnforcer(db)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	renderCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer renderCache.Close()
	log.Info("Cache initialized.")

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	hasher := auth.NewPasswordHasher(cfg.Security.BcryptCost)
	userService := service.NewUserService(data.NewUserRepository(db), hasher)
	commentService := service.NewCommentService(data.NewCommentRepository(db), cfg.Comments)
	profileService := service.NewProfileService(
		data.NewAboutRepository(db),
		data.NewWorkRepository(db),
		data.NewEducationRepository(db),
		data.NewSkillRepository(db),
		service.NewRenderer(renderCache, log),
	)

	// --- Admin Bootstrap ---
	created, err := userService.EnsureAdmin(context.Background(), cfg.Admin)
	if err != nil {
		log.Fatal(err, "Failed to create admin user")
	}
	if created {
		log.Info(fmt.Sprintf("Admin user %q created.", cfg.Admin.Username))
	}

	throttle := middleware.NewLoginThrottle(cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handler.Router{
		Auth:         handler.NewAuthHandler(userService, sessionManager, viewService, log, throttle, authenticator),
		Profile:      handler.NewProfileHandler(profileService, sessionManager, viewService, log),
		Comments:     handler.NewCommentHandler(commentService, sessionManager, viewService, log),
		Seo:          handler.NewSeoHandler(cfg.Server.BaseURL),
		Sessions:     sessionManager,
		LoadUser:     middleware.LoadUser(sessionManager, userService, log),
		Authz:        middleware.Authorizer(enforcer, viewService, log),
		CSRF:         middleware.CSRF(sessionManager, log),
		RequestLog:   middleware.RequestLogger(log),
		Error:        middleware.Error(log, viewService),
		Throttle:     throttle,
		AllowOrigins: cfg.Server.CORSAllowedOrigins,
		TrustProxy:   cfg.Server.TrustProxy,
	})

	// --- Background Cache Maintenance ---
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeCache(purgeCtx, renderCache, log)

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

// newSessionManager stores sessions in the application database, using the
// scs store that matches the configured driver.
func newSessionManager(cfg *config.Config, db *sqlx.DB) *scs.SessionManager {
	sessionManager := scs.New()
	switch cfg.DB.Driver {
	case data.DriverMySQL:
		sessionManager.Store = mysqlstore.New(db.DB)
	default:
		sessionManager.Store = sqlite3store.New(db.DB)
	}
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Name = cfg.Session.CookieName
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled
	return sessionManager
}

// purgeCache removes expired render cache entries once an hour.
func purgeCache(ctx context.Context, c *cache.Cache, log logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.PurgeExpired(ctx)
			if err != nil {
				log.Error(err, "Failed to purge render cache")
				continue
			}
			log.Debug(fmt.Sprintf("Purged %d expired cache entries", n))
		}
	}
}
