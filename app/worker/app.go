package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/momentumlabs/docflow/core/config"
	"github.com/momentumlabs/docflow/core/health"
	"github.com/momentumlabs/docflow/core/logger"
	"github.com/momentumlabs/docflow/core/router"
	"github.com/momentumlabs/docflow/core/server"
	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/integration/database/redis"
	"github.com/momentumlabs/docflow/internal/enrichment"
	"github.com/momentumlabs/docflow/internal/eventbus"
	"github.com/momentumlabs/docflow/internal/store"
	"github.com/momentumlabs/docflow/internal/worker"
	"github.com/momentumlabs/docflow/middleware"
)

// App wires the worker RPC surface (C3, the processing pipeline): document
// ingestion dispatches jobs here over HTTP, and every status change is
// published to the event bus (C1) for the bridge to relay onward.
type App struct {
	config Config
	router router.Router[*Context]
	server *server.Server
	logger *slog.Logger

	pool    *pgxpool.Pool
	service *worker.Service
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
			return nil, fmt.Errorf("worker: connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, app.config.DB, app.logger); err != nil {
			return nil, fmt.Errorf("worker: migrate: %w", err)
		}
		app.pool = pool
	}

	if app.service == nil {
		publisher, err := redis.Connect(ctx, app.config.RedisPublisher)
		if err != nil {
			return nil, fmt.Errorf("worker: connect redis publisher: %w", err)
		}
		subscriber, err := redis.Connect(ctx, app.config.RedisSubscriber)
		if err != nil {
			return nil, fmt.Errorf("worker: connect redis subscriber: %w", err)
		}

		bus := eventbus.New(publisher, subscriber, app.logger)
		st := store.NewPostgresStore(app.pool)

		var serviceOpts []worker.ServiceOption
		if app.config.OpenAIAPIKey != "" {
			enricher, err := enrichment.New(app.config.OpenAIAPIKey)
			if err != nil {
				return nil, fmt.Errorf("worker: init enrichment: %w", err)
			}
			serviceOpts = append(serviceOpts, worker.WithEnricher(enricher))
		}

		app.service = worker.NewService(st, bus, app.logger, serviceOpts...)
	}

	if app.router == nil {
		r := router.New(router.WithContextFactory(newContext), router.WithLogger[*Context](app.logger))
		r.Use(
			middleware.RequestID[*Context](),
			middleware.Logging[*Context](),
		)
		r.Get("/health/live", health.Liveness[*Context])
		r.Get("/health/ready", health.Readiness[*Context](app.logger, pg.Healthcheck(app.pool)))

		worker.RegisterRoutes[*Context](r, app.service)

		app.router = r
	}

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server)
		if err != nil {
			return nil, fmt.Errorf("worker: init server: %w", err)
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
