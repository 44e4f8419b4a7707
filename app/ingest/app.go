package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/momentumlabs/docflow/core/config"
	"github.com/momentumlabs/docflow/core/health"
	"github.com/momentumlabs/docflow/core/logger"
	"github.com/momentumlabs/docflow/core/router"
	"github.com/momentumlabs/docflow/core/server"
	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/integration/storage/s3"
	"github.com/momentumlabs/docflow/internal/ingest"
	"github.com/momentumlabs/docflow/internal/store"
	"github.com/momentumlabs/docflow/internal/workerclient"
	"github.com/momentumlabs/docflow/middleware"
	"github.com/momentumlabs/docflow/pkg/ratelimiter"
)

// App wires the upload endpoint (C4, the ingest orchestrator): it owns the
// document store, the object storage backend and the worker RPC client, and
// has no event bus dependency of its own — progress delivery is the worker's
// and bridge's job.
type App struct {
	config Config
	router router.Router[*Context]
	server *server.Server
	logger *slog.Logger

	pool    *pgxpool.Pool
	service *ingest.Service
}

type AppOption func(*App) error

func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		logger: logger.New(logger.WithProduction(cfg.AppName)),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	ctx := context.Background()

	if app.pool == nil {
		pool, err := pg.Connect(ctx, app.config.DB)
		if err != nil {
			return nil, fmt.Errorf("ingest: connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, app.config.DB, app.logger); err != nil {
			return nil, fmt.Errorf("ingest: migrate: %w", err)
		}
		app.pool = pool
	}

	if app.service == nil {
		st := store.NewPostgresStore(app.pool)

		dialTimeout, err := time.ParseDuration(app.config.WorkerDialTTL)
		if err != nil {
			dialTimeout = 10 * time.Second
		}
		wc := workerclient.New(app.config.WorkerBaseURL, &http.Client{Timeout: dialTimeout})

		stg, err := s3.New(ctx, app.config.Storage.toS3Config())
		if err != nil {
			return nil, fmt.Errorf("ingest: init storage: %w", err)
		}

		app.service = ingest.NewService(st, stg, wc, app.logger)
	}

	if app.router == nil {
		r := router.New(router.WithContextFactory(newContext), router.WithLogger[*Context](app.logger))
		r.Use(
			middleware.RequestID[*Context](),
			middleware.Logging[*Context](),
			middleware.ClientIP[*Context](),
			middleware.BodyLimitWithSize[*Context](ingest.MaxUploadSize),
		)
		r.Get("/health/live", health.Liveness[*Context])
		r.Get("/health/ready", health.Readiness[*Context](app.logger, pg.Healthcheck(app.pool)))

		uploadLimiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       app.config.UploadRateLimitBurst,
			RefillRate:     app.config.UploadRateLimitPerMinute,
			RefillInterval: time.Minute,
		})
		if err != nil {
			return nil, fmt.Errorf("ingest: init rate limiter: %w", err)
		}

		r.Group(func(r router.Router[*Context]) {
			r.Use(
				middleware.JWT[*Context](app.config.JWTSigningKey),
				middleware.RateLimit[*Context](middleware.RateLimitConfig{
					Limiter:    uploadLimiter,
					SetHeaders: true,
				}),
			)
			ingest.RegisterRoutes[*Context](r, app.service)
		})

		app.router = r
	}

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server)
		if err != nil {
			return nil, fmt.Errorf("ingest: init server: %w", err)
		}
		app.server = s
	}

	return app, nil
}

// Run blocks serving HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.server.Start(ctx, a.router); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down gracefully and releases the database pool.
func (a *App) Stop() error {
	err := a.server.Stop()
	if a.pool != nil {
		a.pool.Close()
	}
	return err
}

func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

func WithRouter(r router.Router[*Context]) AppOption {
	return func(app *App) error {
		if r == nil {
			return errors.New("router cannot be nil")
		}
		app.router = r
		return nil
	}
}

func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}
