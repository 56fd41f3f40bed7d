// Package scheduler keeps the cache warm by re-aggregating the current season
// of the configured teams once a day.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// Loader force-refreshes a team-season. *cache.Manager satisfies it.
type Loader interface {
	Load(ctx context.Context, team teams.Info, seasonID string, force bool) (*cache.Result, error)
}

// Config holds scheduler configuration
type Config struct {
	Teams      []string      // Team codes to warm. Default: the default team
	DailyHour  int           // League-local hour. Default: 5 (5 AM)
	MaxRetries int           // Attempts per team. Default: 3
	RetryDelay time.Duration // Default: 1m
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Teams:      []string{teams.DefaultTeamID},
		DailyHour:  5,
		MaxRetries: 3,
		RetryDelay: time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Teams) == 0 {
		c.Teams = d.Teams
	}
	if c.DailyHour < 0 || c.DailyHour > 23 {
		c.DailyHour = d.DailyHour
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = d.RetryDelay
	}
	return c
}

// TeamResult is the outcome of warming one team.
type TeamResult struct {
	Team     string `json:"team"`
	Season   string `json:"season"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

// RunReport summarises one warm-up pass.
type RunReport struct {
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Results    []TeamResult `json:"results"`
}

// Failed reports how many teams could not be refreshed.
func (r RunReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" {
			n++
		}
	}
	return n
}

// Status is the scheduler state exposed to operators.
type Status struct {
	Teams     []string   `json:"teams"`
	DailyHour int        `json:"dailyHour"`
	NextRun   time.Time  `json:"nextRun"`
	LastRun   *RunReport `json:"lastRun,omitempty"`
}

// Orchestrator manages the daily cache warm-up.
type Orchestrator struct {
	loader Loader
	config Config
	clock  clockwork.Clock
	norm   *gametime.Normalizer
	log    zerolog.Logger

	mu      sync.Mutex
	lastRun *RunReport
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock that drives the schedule.
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithNormalizer sets the league-local time zone the daily hour is read in.
func WithNormalizer(norm *gametime.Normalizer) Option {
	return func(o *Orchestrator) { o.norm = norm }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log.With().Str("component", "scheduler").Logger() }
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(loader Loader, config Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		loader: loader,
		config: config.withDefaults(),
		clock:  clockwork.NewRealClock(),
		norm:   gametime.Default(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run refreshes once a day until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	o.log.Info().Strs("teams", o.config.Teams).Int("hour", o.config.DailyHour).Msg("daily refresh scheduler started")

	for {
		now := o.norm.Now(o.clock)
		next := o.NextRun(now)
		o.log.Info().Time("next_run", next).Dur("in", next.Sub(now).Round(time.Second)).Msg("next daily refresh scheduled")

		select {
		case <-ctx.Done():
			o.log.Info().Msg("daily refresh scheduler stopped")
			return
		case <-o.clock.After(next.Sub(now)):
			o.RefreshNow(ctx)
		}
	}
}

// NextRun returns the first occurrence of the daily hour strictly after now,
// in league-local time.
func (o *Orchestrator) NextRun(now time.Time) time.Time {
	now = now.In(o.norm.Location())
	next := time.Date(now.Year(), now.Month(), now.Day(), o.config.DailyHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, o.config.DailyHour, 0, 0, 0, now.Location())
	}
	return next
}

// RefreshNow force-refreshes the current season of every configured team.
func (o *Orchestrator) RefreshNow(ctx context.Context) RunReport {
	now := o.norm.Now(o.clock)
	current := season.Current(now)
	report := RunReport{StartedAt: now}

	for _, code := range o.config.Teams {
		team, ok := teams.Lookup(code)
		if !ok {
			o.log.Warn().Str("team", code).Msg("skipping unknown team")
			report.Results = append(report.Results, TeamResult{Team: code, Season: current.ID, Error: "unknown team"})
			continue
		}
		if !team.ExistedIn(current.StartYear) {
			o.log.Info().Str("team", team.ID).Str("season", current.ID).Msg("skipping team not active this season")
			continue
		}

		attempts, err := o.refreshWithRetry(ctx, team, current.ID)
		res := TeamResult{Team: team.ID, Season: current.ID, Attempts: attempts}
		if err != nil {
			res.Error = err.Error()
		}
		report.Results = append(report.Results, res)

		if ctx.Err() != nil {
			break
		}
	}

	report.FinishedAt = o.norm.Now(o.clock)
	o.mu.Lock()
	o.lastRun = &report
	o.mu.Unlock()

	o.log.Info().
		Int("teams", len(report.Results)).
		Int("failed", report.Failed()).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("daily refresh complete")
	return report
}

var errStale = errors.New("refresh failed, stale entry served")

func (o *Orchestrator) refreshWithRetry(ctx context.Context, team teams.Info, seasonID string) (int, error) {
	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		var res *cache.Result
		res, err = o.loader.Load(ctx, team, seasonID, true)
		if err == nil && res.Stale {
			err = fmt.Errorf("%w: %s", errStale, res.Warning)
		}
		if err == nil {
			return attempt, nil
		}

		o.log.Warn().Err(err).Str("team", team.ID).Int("attempt", attempt).Int("max_attempts", o.config.MaxRetries).Msg("refresh attempt failed")
		if attempt == o.config.MaxRetries {
			return attempt, err
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-o.clock.After(o.config.RetryDelay):
		}
	}
	return o.config.MaxRetries, err
}

// Status returns current scheduler status
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := Status{
		Teams:     append([]string(nil), o.config.Teams...),
		DailyHour: o.config.DailyHour,
		NextRun:   o.NextRun(o.norm.Now(o.clock)),
	}
	if o.lastRun != nil {
		last := *o.lastRun
		last.Results = append([]TeamResult(nil), o.lastRun.Results...)
		st.LastRun = &last
	}
	return st
}
