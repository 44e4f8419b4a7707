package bridge

import (
	"github.com/momentumlabs/docflow/core/server"
	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/integration/database/redis"
)

// Config is the bridge app's environment surface: the document/job store for
// progress snapshots and the two Redis connections the event bus needs
// (publisher role for collaboration fan-out, subscriber role for both the
// per-job progress channel and the per-document room channel).
type Config struct {
	DB              pg.Config
	RedisPublisher  redis.Config
	RedisSubscriber redis.Config
	Server          server.Config

	AppName       string `env:"APP_NAME" envDefault:"docflow-bridge"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`

	// CORSAllowOrigins lists the origins allowed to open the SSE and
	// websocket connections this app serves to browser clients.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
}
