// Package cache serves team-season snapshots from a persistent store and
// refreshes them from the aggregator when they expire.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/service"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// DefaultTTL is how long an entry is served without refreshing.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "nhl-stats:team-season"

// Key returns the store key for a team-season.
func Key(teamID, seasonID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, teamID, seasonID)
}

// Store persists cached entries. Load returns store.ErrCacheMiss when no entry
// exists.
type Store interface {
	Load(ctx context.Context, key string) (*store.CachedEntry, error)
	Save(ctx context.Context, key string, entry store.CachedEntry) error
}

// Aggregator builds a fresh snapshot. *service.Aggregator satisfies it.
type Aggregator interface {
	Aggregate(ctx context.Context, team teams.Info, seasonID string) (*store.TeamStats, error)
}

// Notifier is told about every successful refresh.
type Notifier interface {
	NotifyRefresh(ctx context.Context, event store.RefreshEvent) error
}

// Result is the outcome of a Load.
type Result struct {
	Stats     *store.TeamStats
	CachedAt  time.Time
	FromCache bool
	Stale     bool
	Warning   string
}

type namedNotifier struct {
	name     string
	notifier Notifier
}

// Manager coordinates the store, the aggregator and refresh notifications.
type Manager struct {
	store      Store
	aggregator Aggregator
	ttl        time.Duration
	clock      clockwork.Clock
	notifiers  []namedNotifier
	group      singleflight.Group
	metrics    *metrics.Manager
	log        zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock sets the clock used for capture times and freshness.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithNotifier registers a refresh listener under name.
func WithNotifier(name string, n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifiers = append(m.notifiers, namedNotifier{name: name, notifier: n})
		}
	}
}

// WithMetrics records cache lookups on mm.
func WithMetrics(mm *metrics.Manager) Option {
	return func(m *Manager) { m.metrics = mm }
}

// NewManager creates a cache manager.
func NewManager(st Store, aggregator Aggregator, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      st,
		aggregator: aggregator,
		ttl:        DefaultTTL,
		clock:      clockwork.NewRealClock(),
		log:        log.With().Str("component", "cache").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the freshness window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load returns the snapshot for team in seasonID. A fresh entry is served
// without contacting upstream unless force is set. Otherwise the snapshot is
// rebuilt; if that fails, any previous entry is returned marked stale.
func (m *Manager) Load(ctx context.Context, team teams.Info, seasonID string, force bool) (*Result, error) {
	if _, ok := season.ByID(seasonID); !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownSeason, seasonID)
	}

	key := Key(team.ID, seasonID)
	cached := m.read(ctx, key)

	if cached != nil && !force && cached.FreshAt(m.clock.Now(), m.ttl) {
		m.metrics.IncCacheLookup(metrics.CacheHit)
		return &Result{Stats: &cached.Stats, CachedAt: cached.CapturedAt, FromCache: true}, nil
	}
	m.metrics.IncCacheLookup(metrics.CacheMiss)

	// The shared refresh outlives any single caller; it is bounded by the
	// aggregator's per-fetch deadlines.
	refreshCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		return m.refresh(refreshCtx, key, team, seasonID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		if cached == nil {
			return nil, res.Err
		}
		m.metrics.IncCacheLookup(metrics.CacheStale)
		m.log.Warn().Err(res.Err).Str("key", key).Time("captured_at", cached.CapturedAt).Msg("refresh failed, serving stale entry")
		return &Result{
			Stats:     &cached.Stats,
			CachedAt:  cached.CapturedAt,
			FromCache: true,
			Stale:     true,
			Warning:   staleWarning(cached.CapturedAt, res.Err),
		}, nil
	}

	entry := res.Val.(*store.CachedEntry)
	return &Result{Stats: &entry.Stats, CachedAt: entry.CapturedAt}, nil
}

// read returns the stored entry, or nil on a miss or read failure.
func (m *Manager) read(ctx context.Context, key string) *store.CachedEntry {
	entry, err := m.store.Load(ctx, key)
	switch {
	case err == nil:
		return entry
	case errors.Is(err, store.ErrCacheMiss):
		return nil
	default:
		m.metrics.IncCacheLookup(metrics.CacheError)
		m.log.Error().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return nil
	}
}

// refresh aggregates and persists one key. It only ever writes the key it was
// launched for.
func (m *Manager) refresh(ctx context.Context, key string, team teams.Info, seasonID string) (*store.CachedEntry, error) {
	runID := uuid.NewString()
	stats, err := m.aggregator.Aggregate(service.ContextWithRunID(ctx, runID), team, seasonID)
	if err != nil {
		return nil, err
	}

	entry := store.CachedEntry{Stats: *stats, CapturedAt: m.clock.Now().UTC()}
	if err := m.store.Save(ctx, key, entry); err != nil {
		m.log.Error().Err(err).Str("key", key).Msg("cache write failed")
	}

	m.notify(ctx, store.RefreshEvent{
		Team:       team.ID,
		Season:     seasonID,
		CapturedAt: entry.CapturedAt,
		Games:      len(stats.Games),
		RunID:      runID,
	})
	return &entry, nil
}

func (m *Manager) notify(ctx context.Context, event store.RefreshEvent) {
	for _, n := range m.notifiers {
		if err := n.notifier.NotifyRefresh(ctx, event); err != nil {
			m.metrics.IncRefreshNotification(n.name, metrics.OutcomeError)
			m.log.Warn().Err(err).Str("notifier", n.name).Str("team", event.Team).Str("season", event.Season).Msg("refresh notification failed")
			continue
		}
		m.metrics.IncRefreshNotification(n.name, metrics.OutcomeSuccess)
	}
}

func staleWarning(capturedAt time.Time, err error) string {
	msg := "upstream unavailable"
	if service.IsTimeout(err) {
		msg = "upstream timed out"
	}
	return fmt.Sprintf("%s; showing data cached at %s", msg, capturedAt.UTC().Format(time.RFC3339))
}
