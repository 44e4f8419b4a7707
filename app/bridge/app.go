package bridge

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
	"github.com/momentumlabs/docflow/internal/bridge"
	"github.com/momentumlabs/docflow/internal/eventbus"
	"github.com/momentumlabs/docflow/internal/store"
	"github.com/momentumlabs/docflow/middleware"
	"github.com/momentumlabs/docflow/pkg/jwt"
)

// App wires the progress stream bridge (C5): an SSE endpoint that relays a
// single job's progress events and a websocket endpoint fanning out
// real-time collaboration events across every bridge instance sharing the
// event bus.
type App struct {
	config Config
	router router.Router[*Context]
	server *server.Server
	logger *slog.Logger

	pool     *pgxpool.Pool
	streamer *bridge.Streamer
	hub      *bridge.Hub
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
			return nil, fmt.Errorf("bridge: connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, app.config.DB, app.logger); err != nil {
			return nil, fmt.Errorf("bridge: migrate: %w", err)
		}
		app.pool = pool
	}

	var bus eventbus.EventBus
	if app.streamer == nil || app.hub == nil {
		publisher, err := redis.Connect(ctx, app.config.RedisPublisher)
		if err != nil {
			return nil, fmt.Errorf("bridge: connect redis publisher: %w", err)
		}
		subscriber, err := redis.Connect(ctx, app.config.RedisSubscriber)
		if err != nil {
			return nil, fmt.Errorf("bridge: connect redis subscriber: %w", err)
		}
		bus = eventbus.New(publisher, subscriber, app.logger)
	}

	if app.streamer == nil {
		st := store.NewPostgresStore(app.pool)
		app.streamer = bridge.NewStreamer(st, bus, app.logger)
	}

	if app.hub == nil {
		app.hub = bridge.NewHub(bus, app.logger)
	}

	if app.router == nil {
		jwtService, err := jwt.NewFromString(app.config.JWTSigningKey)
		if err != nil {
			return nil, fmt.Errorf("bridge: init jwt service: %w", err)
		}

		r := router.New(router.WithContextFactory(newContext), router.WithLogger[*Context](app.logger))
		r.Use(
			middleware.RequestID[*Context](),
			middleware.Logging[*Context](),
			middleware.CORSWithConfig[*Context](middleware.CORSConfig{AllowOrigins: app.config.CORSAllowOrigins}),
			middleware.SecurityHeadersWithPreset[*Context](middleware.SecurityPresetStrict),
		)
		r.Get("/health/live", health.Liveness[*Context])
		r.Get("/health/ready", health.Readiness[*Context](app.logger, pg.Healthcheck(app.pool)))

		r.Group(func(r router.Router[*Context]) {
			// EventSource and the browser WebSocket API cannot set an
			// Authorization header, so the bearer token may also travel as
			// a query parameter on these two routes.
			r.Use(middleware.JWTWithConfig[*Context](middleware.JWTConfig{
				Service:        jwtService,
				StoreInContext: true,
				TokenExtractor: middleware.JWTFromMultiple(
					middleware.JWTFromAuthHeader(),
					middleware.JWTFromQuery("token"),
				),
				ClaimsFactory: func() any { return &jwt.StandardClaims{} },
			}))
			bridge.RegisterRoutes[*Context](r, app.streamer, app.hub)
		})

		app.router = r
	}

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server)
		if err != nil {
			return nil, fmt.Errorf("bridge: init server: %w", err)
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
