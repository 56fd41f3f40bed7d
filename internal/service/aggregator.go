package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// NoInjuriesName is the placeholder entry used when no injuries are known.
const NoInjuriesName = "No current injuries reported"

// Upstream source labels used in logs and metrics.
const (
	SourceRoster    = "roster"
	SourceStandings = "standings"
	SourceInjuries  = "injuries"
)

// LeagueSource is the league data API. *nhl.Client satisfies it.
type LeagueSource interface {
	FetchSchedule(ctx context.Context, abbrev, seasonID string) ([]store.Game, error)
	FetchPlayerStats(ctx context.Context, abbrev, seasonID string) (*nhl.PlayerStatsPayload, error)
	FetchRoster(ctx context.Context, abbrev, seasonID string) ([]nhl.PlayerRecord, error)
	FetchCurrentStandings(ctx context.Context, abbrev string) (store.StandingsInfo, error)
	FetchSeasonStandings(ctx context.Context, abbrev, seasonID string) (store.StandingsInfo, error)
}

// InjurySource supplies current injuries. *puckpedia.Collector satisfies it.
type InjurySource interface {
	Collect(ctx context.Context, team teams.Info) ([]store.InjuredPlayer, error)
}

// Timeouts bounds each upstream fetch of an aggregation.
type Timeouts struct {
	Schedule  time.Duration
	Stats     time.Duration
	Standings time.Duration
	Injuries  time.Duration
}

// DefaultTimeouts returns the standard fetch deadlines.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Schedule:  10 * time.Second,
		Stats:     15 * time.Second,
		Standings: 10 * time.Second,
		Injuries:  10 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Schedule <= 0 {
		t.Schedule = d.Schedule
	}
	if t.Stats <= 0 {
		t.Stats = d.Stats
	}
	if t.Standings <= 0 {
		t.Standings = d.Standings
	}
	if t.Injuries <= 0 {
		t.Injuries = d.Injuries
	}
	return t
}

type runIDKey struct{}

// ContextWithRunID tags ctx with the id an aggregation run logs under.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run id carried by ctx, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// Aggregator builds one team-season snapshot from the upstream sources.
type Aggregator struct {
	league   LeagueSource
	injuries InjurySource
	timeouts Timeouts
	clock    clockwork.Clock
	norm     *gametime.Normalizer
	metrics  *metrics.Manager
	log      zerolog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithTimeouts overrides the fetch deadlines. Zero fields keep their default.
func WithTimeouts(t Timeouts) AggregatorOption {
	return func(a *Aggregator) { a.timeouts = t.withDefaults() }
}

// WithClock sets the clock used to decide the current season.
func WithClock(clock clockwork.Clock) AggregatorOption {
	return func(a *Aggregator) { a.clock = clock }
}

// WithNormalizer sets the league-local time zone.
func WithNormalizer(norm *gametime.Normalizer) AggregatorOption {
	return func(a *Aggregator) { a.norm = norm }
}

// WithMetrics records upstream outcomes on m.
func WithMetrics(m *metrics.Manager) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

// WithLogger sets the aggregator's logger.
func WithLogger(log zerolog.Logger) AggregatorOption {
	return func(a *Aggregator) { a.log = log.With().Str("component", "aggregator").Logger() }
}

// NewAggregator creates an aggregator. injuries may be nil, in which case the
// injury list is always the placeholder.
func NewAggregator(league LeagueSource, injuries InjurySource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		league:   league,
		injuries: injuries,
		timeouts: DefaultTimeouts(),
		clock:    clockwork.NewRealClock(),
		norm:     gametime.Default(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fetches and assembles the stats for team in seasonID.
func (a *Aggregator) Aggregate(ctx context.Context, team teams.Info, seasonID string) (*store.TeamStats, error) {
	info, ok := season.ByID(seasonID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeason, seasonID)
	}

	if !team.ExistedIn(info.StartYear) {
		a.log.Info().Str("team", team.ID).Str("season", seasonID).Msg("team did not exist in season")
		a.metrics.IncAggregation(metrics.OutcomeSkipped)
		return store.EmptyTeamStats(team.ID, seasonID), nil
	}

	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	log := a.log.With().Str("run_id", runID).Str("team", team.ID).Str("season", seasonID).Logger()
	log.Info().Msg("aggregation started")
	start := a.clock.Now()

	var (
		wg sync.WaitGroup

		games       []store.Game
		scheduleErr error

		payload  *nhl.PlayerStatsPayload
		roster   []nhl.PlayerRecord
		statsErr error

		standings    store.StandingsInfo
		standingsErr error

		injuries    []store.InjuredPlayer
		injuriesErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		scheduleErr = a.timed(ctx, SourceSchedule, a.timeouts.Schedule, func(ctx context.Context) error {
			var err error
			games, err = a.league.FetchSchedule(ctx, team.NHLAbbrev, seasonID)
			return err
		})
	}()
	go func() {
		defer wg.Done()
		payload, roster, statsErr = a.fetchStatsBundle(ctx, team, seasonID, log)
	}()
	go func() {
		defer wg.Done()
		standingsErr = a.timed(ctx, SourceStandings, a.timeouts.Standings, func(ctx context.Context) error {
			var err error
			if season.IsCurrent(seasonID, a.norm.Now(a.clock)) {
				standings, err = a.league.FetchCurrentStandings(ctx, team.NHLAbbrev)
			} else {
				standings, err = a.league.FetchSeasonStandings(ctx, team.NHLAbbrev, seasonID)
			}
			return err
		})
	}()
	go func() {
		defer wg.Done()
		if a.injuries == nil {
			return
		}
		injuriesErr = a.timed(ctx, SourceInjuries, a.timeouts.Injuries, func(ctx context.Context) error {
			var err error
			injuries, err = a.injuries.Collect(ctx, team)
			return err
		})
	}()
	wg.Wait()

	if scheduleErr != nil {
		if statsErr != nil {
			log.Error().Err(statsErr).Msg("stats fetch also failed")
		}
		a.metrics.IncAggregation(metrics.OutcomeError)
		return nil, newAggregationError(SourceSchedule, scheduleErr)
	}
	if statsErr != nil {
		a.metrics.IncAggregation(metrics.OutcomeError)
		return nil, newAggregationError(SourceStats, statsErr)
	}

	if standingsErr != nil {
		log.Warn().Err(standingsErr).Str("source", SourceStandings).Msg("degraded source, using empty standings")
		standings = store.StandingsInfo{}
	}
	if injuriesErr != nil {
		log.Warn().Err(injuriesErr).Str("source", SourceInjuries).Msg("degraded source, using placeholder")
		injuries = nil
	}

	stats := assemble(team, seasonID, games, payload, roster, standings, injuries)

	a.metrics.IncAggregation(metrics.OutcomeSuccess)
	log.Info().
		Int("games", len(stats.Games)).
		Int("roster", len(stats.Roster)).
		Int("injuries", len(injuries)).
		Dur("duration", a.clock.Since(start)).
		Msg("aggregation finished")

	return stats, nil
}

// fetchStatsBundle fetches stats and roster under one deadline. The roster is
// optional inside the bundle; the stats payload is not.
func (a *Aggregator) fetchStatsBundle(ctx context.Context, team teams.Info, seasonID string, log zerolog.Logger) (*nhl.PlayerStatsPayload, []nhl.PlayerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeouts.Stats)
	defer cancel()

	var (
		wg        sync.WaitGroup
		payload   *nhl.PlayerStatsPayload
		roster    []nhl.PlayerRecord
		rosterErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		rosterErr = a.timed(ctx, SourceRoster, a.timeouts.Stats, func(ctx context.Context) error {
			var err error
			roster, err = a.league.FetchRoster(ctx, team.NHLAbbrev, seasonID)
			return err
		})
	}()

	statsErr := a.timed(ctx, SourceStats, a.timeouts.Stats, func(ctx context.Context) error {
		var err error
		payload, err = a.league.FetchPlayerStats(ctx, team.NHLAbbrev, seasonID)
		return err
	})
	wg.Wait()

	if rosterErr != nil {
		log.Warn().Err(rosterErr).Str("source", SourceRoster).Msg("roster unavailable, building from stats")
		roster = nil
	}
	if statsErr != nil {
		return nil, nil, statsErr
	}
	return payload, roster, nil
}

// timed runs fn under its own deadline and records the outcome.
func (a *Aggregator) timed(ctx context.Context, source string, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := a.clock.Now()
	err := fn(ctx)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		if !IsTimeout(err) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		outcome = metrics.OutcomeError
		if IsTimeout(err) {
			outcome = metrics.OutcomeTimeout
		}
	}
	a.metrics.ObserveUpstream(source, outcome, a.clock.Since(start))
	return err
}

func assemble(team teams.Info, seasonID string, games []store.Game, payload *nhl.PlayerStatsPayload,
	roster []nhl.PlayerRecord, standings store.StandingsInfo, injuries []store.InjuredPlayer) *store.TeamStats {
	stats := store.EmptyTeamStats(team.ID, seasonID)
	stats.TeamExisted = true

	if games != nil {
		stats.Games = games
	}

	boards := BuildLeaderboards(payload)
	stats.PointLeaders = boards.Points
	stats.GoalLeaders = boards.Goals
	stats.AssistLeaders = boards.Assists
	stats.PlusMinusLeaders = boards.PlusMinus
	stats.AvgShiftsLeaders = boards.AvgShifts
	stats.GoalieStats = boards.Goalies

	stats.Roster = BuildRoster(roster, payload)

	if !standings.Found() {
		standings = store.StandingsInfo{}
	}
	stats.Standings = standings

	if len(injuries) == 0 {
		injuries = []store.InjuredPlayer{{Name: NoInjuriesName, DaysOut: 0}}
	}
	stats.Injuries = injuries

	stats.Summary = DeriveSummary(stats.Games, standings)
	return stats
}
