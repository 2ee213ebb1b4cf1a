package eventbus

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/eventbus/core/config"
	"github.com/dmitrymomot/eventbus/core/logger"
)

// Config holds bus settings that can come from the environment.
type Config struct {
	TrackPhases   bool   `env:"EVENTBUS_TRACK_PHASES" envDefault:"true" yaml:"track_phases"`
	StartShutdown bool   `env:"EVENTBUS_START_SHUTDOWN" envDefault:"false" yaml:"start_shutdown"`
	LogLevel      string `env:"EVENTBUS_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	LogFormat     string `env:"EVENTBUS_LOG_FORMAT" envDefault:"text" yaml:"log_format"` // text or json
}

// Validate checks that the log settings are understood.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// ConfigFromEnv reads Config from the environment without caching.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromFile reads Config from the environment and overlays the YAML file at path.
//
//	track_phases: false
//	log_level: debug
//	log_format: json
func ConfigFromFile(path string) (Config, error) {
	var cfg Config
	if err := config.ParseFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithConfig applies cfg: phase tracking, initial shutdown state and a logger built from the
// log settings. Invalid log settings fall back to info level text output.
func WithConfig(cfg Config) Option {
	return func(b *Bus) {
		b.trackPhases = cfg.TrackPhases
		b.shutdown.Store(cfg.StartShutdown)

		lvl, _ := cfg.level()
		opts := []logger.Option{
			logger.WithLevel(lvl),
			logger.WithAttr(logger.Component("eventbus")),
		}
		if strings.EqualFold(cfg.LogFormat, "json") {
			opts = append(opts, logger.WithJSONFormatter())
		} else {
			opts = append(opts, logger.WithTextFormatter())
		}
		b.logger = logger.New(opts...)
	}
}

// NewFromEnv creates a bus configured from the environment (loaded once per process),
// then applies opts on top.
func NewFromEnv(opts ...Option) (*Bus, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append([]Option{WithConfig(cfg)}, opts...)...), nil
}

// MustNewFromEnv is like NewFromEnv but panics on failure. Useful during startup.
func MustNewFromEnv(opts ...Option) *Bus {
	var cfg Config
	config.MustLoad(&cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
