// Package app wires configuration into the running object graph shared by the
// HTTP server and the wrapctl CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/platform/gcs"
	"github.com/phrazzld/wallet-wrapped/internal/platform/gemini"
	"github.com/phrazzld/wallet-wrapped/internal/platform/imagefetch"
	"github.com/phrazzld/wallet-wrapped/internal/platform/memory"
	"github.com/phrazzld/wallet-wrapped/internal/platform/onchain"
	"github.com/phrazzld/wallet-wrapped/internal/platform/openai"
	"github.com/phrazzld/wallet-wrapped/internal/platform/postgres"
	"github.com/phrazzld/wallet-wrapped/internal/platform/redis"
	"github.com/phrazzld/wallet-wrapped/internal/platform/sanitize"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/store"
	"github.com/phrazzld/wallet-wrapped/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// imageFetchTimeout bounds NFT artwork downloads.
const imageFetchTimeout = 15 * time.Second

// App holds the application dependencies and releases them on Close.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *prometheus.Registry
	Registry *generators.Registry
	Service  *service.WrappedService
	Tracker  *task.Tracker
	Runner   *task.TaskRunner

	closers []func() error
}

// Backends are the storage collaborators selected by configuration.
type Backends struct {
	Cache   store.Cache
	Objects store.ObjectStore
	// Upload is nil when the archive backend cannot serve public media URLs.
	Upload generation.Uploader
}

// New builds the application. The task runner is created but not started.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: prometheus.NewRegistry(),
	}
	a.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, logger := a.Config, a.Logger

	ai, err := gemini.NewClient(ctx, logger.With("component", "llm_client"), cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("LLM client initialized", "model", cfg.LLM.ModelName)

	caps := generation.Capabilities{
		AI:        ai,
		Sanitizer: sanitize.NewSVG(),
		TempDir:   cfg.Generation.TempDir,
	}
	if cfg.Images.OpenAIAPIKey != "" {
		images, err := openai.NewImageGenerator(logger.With("component", "image_generator"), cfg.Images)
		if err != nil {
			return fmt.Errorf("failed to initialize image generator: %w", err)
		}
		caps.Images = images
		logger.Info("image generator initialized", "model", cfg.Images.Model)
	} else {
		logger.Info("no image API key configured, image cards fall back to SVG")
	}

	backends, err := a.openBackends(ctx)
	if err != nil {
		return err
	}
	caps.Upload = backends.Upload

	deps := generators.Deps{
		Images: imagefetch.New(imageFetchTimeout, logger),
	}
	if cfg.Onchain.ReputationURL != "" {
		client, err := onchain.NewClient(cfg.Onchain, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize onchain client: %w", err)
		}
		deps.Reputation = client
	}

	a.Registry, err = generators.NewDefaultRegistry(deps)
	if err != nil {
		return fmt.Errorf("failed to build generator registry: %w", err)
	}
	if cfg.Generation.GeneratorsFile != "" {
		n, err := a.Registry.LoadFile(cfg.Generation.GeneratorsFile)
		if err != nil {
			return fmt.Errorf("failed to load generators file: %w", err)
		}
		logger.Info("loaded generators from file", "path", cfg.Generation.GeneratorsFile, "count", n)
	}

	builder, err := generation.NewBuilder(caps, logger,
		generation.WithCallTimeout(time.Duration(cfg.LLM.CallTimeoutSeconds)*time.Second),
		generation.WithMetrics(generation.NewMetrics(a.Metrics)))
	if err != nil {
		return fmt.Errorf("failed to create card builder: %w", err)
	}
	orchestrator, err := generation.NewOrchestrator(builder, logger, cfg.Generation.MaxConcurrency)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	collections, err := store.NewCollectionStore(backends.Cache, logger,
		store.WithTTL(time.Duration(cfg.Cache.TTLHours)*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to create collection store: %w", err)
	}
	archive, err := store.NewDeckArchive(backends.Objects, logger)
	if err != nil {
		return fmt.Errorf("failed to create deck archive: %w", err)
	}

	a.Service, err = service.NewWrappedService(a.Registry, builder, orchestrator, collections, archive, logger)
	if err != nil {
		return fmt.Errorf("failed to create wrapped service: %w", err)
	}

	a.Tracker = task.NewTracker(task.DefaultJobTTL, 10*time.Minute)
	a.Runner = task.NewTaskRunner(a.Tracker, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: 30 * time.Minute,
	}, logger)

	logger.Info("application initialized",
		"generators", a.Registry.Len(),
		"cache_backend", cfg.Cache.Backend,
		"archive_backend", cfg.Archive.Backend)
	return nil
}

// openBackends connects the cache and archive backends named in the config.
func (a *App) openBackends(ctx context.Context) (Backends, error) {
	var b Backends
	cfg, logger := a.Config, a.Logger

	switch cfg.Cache.Backend {
	case "redis":
		c, err := redis.Open(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return b, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		b.Cache = c
	default:
		b.Cache = memory.NewCache(time.Minute)
	}

	switch cfg.Archive.Backend {
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return b, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		objects, err := gcs.NewObjectStore(gcs.NewBucket(client, cfg.Archive.Bucket),
			cfg.Archive.Bucket, cfg.Archive.PublicBaseURL, logger)
		if err != nil {
			return b, fmt.Errorf("failed to create gcs object store: %w", err)
		}
		b.Objects, b.Upload = objects, objects
	case "postgres":
		db, err := OpenDatabase(ctx, cfg.Archive.DatabaseURL, logger)
		if err != nil {
			return b, err
		}
		a.closers = append(a.closers, db.Close)
		b.Objects = postgres.NewObjectStore(db, cfg.Archive.PublicBaseURL)
	default:
		objects := memory.NewObjectStore(cfg.Archive.PublicBaseURL)
		b.Objects = objects
		if strings.HasPrefix(cfg.Archive.PublicBaseURL, "https://") {
			b.Upload = objects
		}
	}
	return b, nil
}

// OpenDatabase connects to Postgres and applies pending migrations.
func OpenDatabase(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}

// Close stops the task runner and releases backend connections in reverse
// order of creation.
func (a *App) Close() {
	if a.Runner != nil {
		a.Runner.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("error releasing resources", "error", err)
	}
}
