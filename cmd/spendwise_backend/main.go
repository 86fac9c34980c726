package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsrepo "github.com/spendwise-app/spendwise/internal/core/ports/repositories"
	"github.com/spendwise-app/spendwise/internal/core/services"
	"github.com/spendwise-app/spendwise/internal/handlers"
	"github.com/spendwise-app/spendwise/internal/middleware"
	"github.com/spendwise-app/spendwise/internal/repositories/database/pgsql"
	"github.com/spendwise-app/spendwise/internal/repositories/filestore"
	"github.com/spendwise-app/spendwise/pkg/config"
	"github.com/spendwise-app/spendwise/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	kv, err := openKVStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize persistence", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := kv.Close(); cerr != nil {
			logger.Error("Error closing persistence store", slog.String("error", cerr.Error()))
		}
	}()

	serviceContainer := services.NewContainer(kv, time.Now)
	if err := serviceContainer.Transaction.Load(context.Background()); err != nil {
		logger.Error("Failed to load transactions from persistence", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, serviceContainer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	// Final write so a degraded persistence state gets one more chance
	// before exit.
	if err := serviceContainer.Transaction.Flush(shutdownCtx); err != nil {
		logger.Error("Failed to flush transactions on shutdown", slog.String("error", err.Error()))
	}
}

// openKVStore selects the persistence backend: PostgreSQL when PGSQL_URL is
// set (running migrations first), the file-backed store otherwise.
func openKVStore(cfg *config.Config, logger *slog.Logger) (portsrepo.KVStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using file-backed persistence", slog.String("data_dir", cfg.DataDir))
		return filestore.New(cfg.DataDir)
	}

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection pool established")
	return pgsql.NewKVRepository(dbPool), nil
}

// runMigrations applies all pending migrations through a temporary
// database/sql connection, using the pgx stdlib driver to stay compatible
// with the main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
