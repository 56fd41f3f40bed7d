// Package config defines the tracker's configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Cache backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	Env       string `koanf:"env" validate:"oneof=dev staging prod"`
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=json console"`

	// HTTPPort serves the REST API. WSPort serves refresh pushes; zero
	// disables the WebSocket server.
	HTTPPort    int      `koanf:"http_port" validate:"min=1,max=65535"`
	WSPort      int      `koanf:"ws_port" validate:"min=0,max=65535"`
	CORSOrigins []string `koanf:"cors_origins"`

	NHLBaseURL               string        `koanf:"nhl_base_url" validate:"required,url"`
	PuckpediaBaseURL         string        `koanf:"puckpedia_base_url" validate:"required,url"`
	PuckpediaBrowserFallback bool          `koanf:"puckpedia_browser_fallback"`
	PuckpediaMinInterval     time.Duration `koanf:"puckpedia_min_interval" validate:"min=0"`

	TimeZone     string `koanf:"time_zone" validate:"required,timezone"`
	DefaultTeam  string `koanf:"default_team" validate:"required"`
	SeasonWindow int    `koanf:"season_window" validate:"min=1,max=100"`

	CacheBackend string        `koanf:"cache_backend" validate:"oneof=memory redis postgres"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"gt=0"`
	RedisURL     string        `koanf:"redis_url" validate:"required_if=CacheBackend redis,required_if=PublishRefreshEvents true"`
	PostgresDSN  string        `koanf:"postgres_dsn" validate:"required_if=CacheBackend postgres"`

	PublishRefreshEvents bool `koanf:"publish_refresh_events"`

	ScheduleTimeout  time.Duration `koanf:"schedule_timeout" validate:"gt=0"`
	StatsTimeout     time.Duration `koanf:"stats_timeout" validate:"gt=0"`
	StandingsTimeout time.Duration `koanf:"standings_timeout" validate:"gt=0"`
	InjuryTimeout    time.Duration `koanf:"injury_timeout" validate:"gt=0"`

	EnableDailyRefresh bool          `koanf:"enable_daily_refresh"`
	DailyRefreshHour   int           `koanf:"daily_refresh_hour" validate:"min=0,max=23"`
	WarmTeams          []string      `koanf:"warm_teams"`
	MaxRetries         int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryDelay         time.Duration `koanf:"retry_delay" validate:"min=0"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Env:                  "prod",
		LogLevel:             "info",
		HTTPPort:             8080,
		WSPort:               8081,
		NHLBaseURL:           "https://api-web.nhle.com/v1",
		PuckpediaBaseURL:     "https://puckpedia.com",
		PuckpediaMinInterval: 2 * time.Second,
		TimeZone:             "America/Los_Angeles",
		DefaultTeam:          teams.DefaultTeamID,
		SeasonWindow:         25,
		CacheBackend:         BackendMemory,
		CacheTTL:             24 * time.Hour,
		ScheduleTimeout:      10 * time.Second,
		StatsTimeout:         15 * time.Second,
		StandingsTimeout:     10 * time.Second,
		InjuryTimeout:        10 * time.Second,
		DailyRefreshHour:     5,
		MaxRetries:           3,
		RetryDelay:           time.Minute,
	}
}

// Validate checks field constraints and team codes. Empty lists take their
// defaults: every origin, and the default team for warming.
func (c *Config) Validate() error {
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c.DefaultTeam = strings.ToUpper(c.DefaultTeam)
	if _, ok := teams.Lookup(c.DefaultTeam); !ok {
		return fmt.Errorf("%w: unknown default_team %q", ErrInvalidConfig, c.DefaultTeam)
	}
	if len(c.WarmTeams) == 0 {
		c.WarmTeams = []string{c.DefaultTeam}
	}
	for i, id := range c.WarmTeams {
		id = strings.ToUpper(strings.TrimSpace(id))
		if _, ok := teams.Lookup(id); !ok {
			return fmt.Errorf("%w: unknown warm_teams entry %q", ErrInvalidConfig, id)
		}
		c.WarmTeams[i] = id
	}
	return nil
}
