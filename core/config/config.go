package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> loaded value
)

// Load populates cfg from environment variables and caches the result per type.
// Subsequent calls for the same type copy the cached value into cfg.
func Load[T any](cfg *T) error {
	key := reflect.TypeFor[T]()
	if v, ok := cache.Load(key); ok {
		*cfg = v.(T)
		return nil
	}

	if err := Parse(cfg); err != nil {
		return err
	}

	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse populates cfg from environment variables without caching.
// A .env file in the working directory is loaded once per process; a missing file is not an error.
func Parse[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}

// ParseFile populates cfg from the environment, then overlays the YAML file at path.
// Keys present in the file win; fields the file omits keep their environment or default value.
// It is not cached.
func ParseFile[T any](path string, cfg *T) error {
	if err := Parse(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFile, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return nil
}
