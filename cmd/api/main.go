package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"questionapi/docs"
	"questionapi/internal/config"
	"questionapi/internal/database"
	"questionapi/internal/database/migration"
	handlers "questionapi/internal/http/handler"
	"questionapi/internal/http/middleware"
	"questionapi/internal/logger"
	"questionapi/internal/otel"
	"questionapi/internal/repository"
	"questionapi/internal/repository/bolt"
	"questionapi/internal/repository/memory"
	"questionapi/internal/repository/postgres"
	"questionapi/internal/service"
	"questionapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	log := logger.New(cfg.Log, loc)
	defer log.Sync()

	if err := run(cfg, log, loc); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger, loc *time.Location) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	repo, db, closeRepo, err := openDocumentStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init blob storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svcMetrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register service metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	questionSvc := service.NewQuestionService(blobs, repo,
		service.WithLogger(log),
		service.WithMetrics(svcMetrics),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Upload.MaxBytes)*8 + 1<<20,
	})

	// RequestID first so every later middleware and log line sees it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	var pinger handlers.Pinger
	if db != nil {
		pinger = db
	}
	handlers.RegisterRoutes(app, pinger, questionSvc,
		handlers.WithLogger(log),
		handlers.WithUploadMaxBytes(cfg.Upload.MaxBytes),
	)

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

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting",
			zap.String("addr", ":"+cfg.Port),
			zap.String("document_backend", cfg.DocumentBackend),
			zap.String("blob_backend", cfg.BlobBackend),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// openDocumentStore returns the configured document store, the SQL handle used for health
// checks (nil unless postgres) and a close func.
func openDocumentStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (repository.DocumentStore, *sql.DB, func(), error) {
	switch cfg.DocumentBackend {
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
				_ = db.Close()
				return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		return postgres.NewDocumentPostgres(db), db, func() { _ = db.Close() }, nil
	case "bolt":
		store, err := bolt.Open(cfg.Bolt.Path, bolt.WithLogger(log))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		return store, nil, func() { _ = store.Close() }, nil
	case "memory":
		log.Warn("using in-memory document store, data is lost on restart")
		return memory.NewDocumentStore(), nil, func() {}, nil
	default:
		return nil, nil, nil, errors.New("unknown DOCUMENT_BACKEND " + cfg.DocumentBackend)
	}
}

func openBlobStore(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.BlobBackend {
	case "minio":
		return storage.NewMinIO(ctx, cfg.MinIO)
	case "s3":
		return storage.NewS3(ctx, cfg.S3)
	case "memory":
		return storage.NewMemory("questions"), nil
	default:
		return nil, errors.New("unknown BLOB_BACKEND " + cfg.BlobBackend)
	}
}
