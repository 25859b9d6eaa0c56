// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	router "github.com/saakcy7/kindfund/internal/api"
	"github.com/saakcy7/kindfund/internal/api/handler"
	apimw "github.com/saakcy7/kindfund/internal/api/middleware"
	"github.com/saakcy7/kindfund/internal/config"
	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/repository"
	"github.com/saakcy7/kindfund/internal/repository/memory"
	"github.com/saakcy7/kindfund/internal/repository/postgres"
	"github.com/saakcy7/kindfund/internal/service"
	"github.com/saakcy7/kindfund/internal/util"
	"github.com/saakcy7/kindfund/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB // nil with the memory backend

	// Storage
	LedgerStore repository.LedgerStore

	// Services
	DonationService service.DonationService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads configuration from the environment and builds every component.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWithConfig(ctx, cfg)
}

// InitializeWithConfig builds every component from an already loaded configuration.
func (app *Application) InitializeWithConfig(ctx context.Context, cfg *config.AppConfig) error {
	app.Config = cfg

	// 1. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.",
		"network", cfg.Chain.Network,
		"charity_address", cfg.Chain.CharityAddress,
		"ledger_backend", cfg.LedgerBackend,
	)
	if !domain.PackageConfigured(cfg.Chain.PackageID) {
		app.Logger.Warn("PACKAGE_ID is not configured; update it after deploying the Move contract")
	}

	// 2. Initialize the ledger store
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		database, err := db.NewPostgresDB(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = database
		store := postgres.NewLedgerStore(database)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = database.Close()
			app.DB = nil
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		app.LedgerStore = store
		app.Logger.Info("Postgres ledger store initialized.")
	default:
		app.LedgerStore = memory.NewLedgerStore()
		app.Logger.Info("In-memory ledger store initialized; donations will not survive a restart.")
	}

	// 3. Initialize Services
	app.DonationService = service.NewDonationService(app.LedgerStore, cfg.Chain, app.Logger, time.Now, uuid.NewString)
	app.Logger.Info("Services initialized.")

	// 4. Initialize HTTP Handlers and Router
	donationHandler := handler.NewDonationHandler(app.DonationService, app.Logger)
	app.HTTPHandler = router.NewRouter(donationHandler, app.Logger, router.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:    apimw.NewRateLimiter(cfg.RateLimitPerMinute),
		TrustProxy:     cfg.TrustProxy,
	})
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
