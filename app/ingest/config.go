package ingest

import (
	"github.com/momentumlabs/docflow/core/server"
	"github.com/momentumlabs/docflow/integration/database/pg"
	"github.com/momentumlabs/docflow/integration/storage/s3"
)

// Config is the ingest app's environment surface: the document store, the
// object storage backend documents land in, the worker RPC endpoint jobs are
// dispatched to, and the bearer JWT signing key that authenticates uploaders.
type Config struct {
	DB      pg.Config
	Storage S3Config
	Server  server.Config

	AppName        string `env:"APP_NAME" envDefault:"docflow-ingest"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSigningKey  string `env:"JWT_SIGNING_KEY,required"`
	WorkerBaseURL  string `env:"WORKER_BASE_URL,required"`
	WorkerDialTTL  string `env:"WORKER_DIAL_TIMEOUT" envDefault:"10s"`

	// UploadRateLimit throttles per-IP upload traffic: a token bucket of
	// UploadRateLimitBurst capacity refilling at UploadRateLimitPerMinute
	// tokens/minute, protecting the storage backend and worker queue from a
	// single noisy uploader.
	UploadRateLimitPerMinute int `env:"UPLOAD_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	UploadRateLimitBurst     int `env:"UPLOAD_RATE_LIMIT_BURST" envDefault:"10"`
}

// S3Config mirrors integration/storage/s3.S3Config with env tags; the
// integration package's own struct has no env annotations since callers are
// expected to assemble it in code.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	BaseURL        string `env:"S3_BASE_URL"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

func (c S3Config) toS3Config() s3.S3Config {
	return s3.S3Config{
		Bucket:         c.Bucket,
		Region:         c.Region,
		AccessKeyID:    c.AccessKeyID,
		SecretKey:      c.SecretKey,
		Endpoint:       c.Endpoint,
		BaseURL:        c.BaseURL,
		ForcePathStyle: c.ForcePathStyle,
	}
}
