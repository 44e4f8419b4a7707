package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	loadEnvOnce sync.Once

	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}
)

// Load parses environment variables into cfg, a pointer to a struct tagged
// with `env` tags understood by caarlos0/env. The first call in the process
// attempts to load a .env file (missing file is not an error). Each distinct
// struct type is parsed only once per process; subsequent calls copy the
// cached value into cfg instead of re-reading the environment.
func Load(cfg any) error {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: Load requires a pointer to a struct, got %T", cfg)
	}
	t := v.Elem().Type()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[t]; ok {
		v.Elem().Set(reflect.ValueOf(cached).Elem())
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to parse environment into %s: %w", t, err)
	}

	stored := reflect.New(t)
	stored.Elem().Set(v.Elem())
	cache[t] = stored.Interface()

	return nil
}

// MustLoad is Load, panicking on error. Intended for startup code paths
// where a missing or invalid configuration should abort the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
