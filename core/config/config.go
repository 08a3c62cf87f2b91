package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsing is returned when environment variables cannot be parsed into the target struct.
var ErrParsing = errors.New("failed to parse environment configuration")

var (
	cache      sync.Map // reflect.Type -> T
	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// The first successful load of a type is cached; later calls for the same type
// receive the cached value regardless of environment changes.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env is the normal case in production.
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return errors.Join(ErrParsing, err)
	}

	actual, _ := cache.LoadOrStore(typ, fresh)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
