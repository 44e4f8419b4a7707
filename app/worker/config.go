package worker

import (
	"github.com/momentumlabs/docflow/core/server"
	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/integration/database/redis"
)

// Config is the worker app's environment surface: the document/job store and
// the two Redis connections the event bus needs (publisher and subscriber
// roles use distinct *redis.Client instances, never a shared one).
type Config struct {
	DB              pg.Config
	RedisPublisher  redis.Config
	RedisSubscriber redis.Config
	Server          server.Config

	AppName  string `env:"APP_NAME" envDefault:"docflow-worker"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// OpenAIAPIKey enables the optional page-summary enrichment step when
	// set; left empty, completed jobs simply get no Result.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}
