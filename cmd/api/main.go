package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"breachguard/docs"
	"breachguard/internal/config"
	"breachguard/internal/database"
	"breachguard/internal/database/migration"
	"breachguard/internal/hibp"
	handlers "breachguard/internal/http/handler"
	"breachguard/internal/http/middleware"
	"breachguard/internal/logger"
	"breachguard/internal/otel"
	"breachguard/internal/repository"
	"breachguard/internal/repository/archive"
	"breachguard/internal/repository/postgres"
	"breachguard/internal/service"
	"breachguard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title BreachGuard API
// @version 1.0
// @description Checks email addresses against known data breaches.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger.Setup(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error(ctx, "server stopped", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the service and blocks until ctx is cancelled or the listener
// fails. Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.AppConfig) error {
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		return fmt.Errorf("could not initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn(sctx, "tracing shutdown failed", zap.Error(err))
		}
	}()

	opts := service.Options{PersistTimeout: cfg.PersistTimeout()}

	// History is optional: without DB_HOST checks are served but not stored.
	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
			return fmt.Errorf("could not migrate database: %w", err)
		}
		opts.History = postgres.NewCheckPostgres(db)
	} else {
		logger.Info(ctx, "database disabled, check history will not be stored")
	}

	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return fmt.Errorf("could not initialize object storage: %w", err)
		}
		opts.Recorders = []repository.CheckRecorder{archive.NewCheckArchive(objStore)}
	}

	if cfg.HIBP.APIKey != "" {
		httpClient := &http.Client{
			Timeout:   cfg.HIBP.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		opts.Lookup = hibp.New(httpClient, hibp.Options{
			BaseURL:   cfg.HIBP.BaseURL,
			APIKey:    cfg.HIBP.APIKey,
			UserAgent: cfg.HIBP.UserAgent,
		})
		logger.Info(ctx, "breach lookups use HIBP",
			zap.String("base_url", cfg.HIBP.BaseURL),
			zap.Duration("timeout", cfg.HIBP.Timeout()),
		)
	} else {
		logger.Warn(ctx, "HIBP_API_KEY not set, serving demo data")
	}

	checkSvc := service.NewCheckService(opts)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("could not register metrics: %w", err)
	}

	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	// RequestID middleware adds/propagates X-Request-ID and scopes the logger
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, checkSvc)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
