// Package logger builds the service's zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config controls logger construction. Empty fields take environment
// dependent defaults.
type Config struct {
	Level          string `validate:"oneof=debug info warn error"`
	Format         string `validate:"oneof=json console"`
	Env            string `validate:"oneof=dev staging prod"`
	TimeFormat     string `validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	WithCaller     bool
	Fields         map[string]interface{}

	// Output defaults to stdout for JSON and stderr for console logs.
	Output io.Writer `validate:"-"`
}

var timeFormats = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"unix":        zerolog.TimeFormatUnix,
	"unix_ms":     zerolog.TimeFormatUnixMs,
}

// New validates cfg and returns a logger tagged with service, version and
// env. The global level is set from cfg.Level.
func New(cfg Config) (zerolog.Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("logger config validation error: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = timeFormats[cfg.TimeFormat]

	var writer io.Writer
	switch cfg.Format {
	case "console":
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	default:
		writer = cfg.Output
		if writer == nil {
			writer = os.Stdout
		}
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Str("env", cfg.Env).
		Logger()

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	if len(cfg.Fields) > 0 {
		logger = logger.With().Fields(cfg.Fields).Logger()
	}

	zerolog.SetGlobalLevel(level)
	return logger, nil
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}
	if c.ServiceName == "" {
		c.ServiceName = "nhl-stats-tracker"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
}
