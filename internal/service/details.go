package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const detailTimeout = 10 * time.Second

// Source labels for the detail lookups.
const (
	SourceGame   = "gamecenter"
	SourceCareer = "player-career"
)

// DetailSource fetches single-game and single-player views.
type DetailSource interface {
	FetchGameDetail(ctx context.Context, gameID string) (*store.GameDetail, error)
	FetchPlayerCareer(ctx context.Context, playerID string) (*store.PlayerCareer, error)
}

// DetailService serves game and player drill-downs.
type DetailService struct {
	source  DetailSource
	timeout time.Duration
	metrics *metrics.Manager
	log     zerolog.Logger
}

// NewDetailService creates a detail service. A non-positive timeout uses the
// default.
func NewDetailService(source DetailSource, timeout time.Duration, m *metrics.Manager, log zerolog.Logger) *DetailService {
	if timeout <= 0 {
		timeout = detailTimeout
	}
	return &DetailService{
		source:  source,
		timeout: timeout,
		metrics: m,
		log:     log.With().Str("component", "details").Logger(),
	}
}

// GameDetail returns the boxscore view of one game.
func (s *DetailService) GameDetail(ctx context.Context, gameID string) (*store.GameDetail, error) {
	if !numericID(gameID) {
		return nil, fmt.Errorf("game %q: %w", gameID, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	detail, err := s.source.FetchGameDetail(ctx, gameID)
	if err != nil {
		return nil, s.classify(SourceGame, gameID, start, err)
	}
	s.metrics.ObserveUpstream(SourceGame, metrics.OutcomeSuccess, time.Since(start))
	return detail, nil
}

// PlayerCareer returns a player's career totals.
func (s *DetailService) PlayerCareer(ctx context.Context, playerID string) (*store.PlayerCareer, error) {
	if !numericID(playerID) {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	career, err := s.source.FetchPlayerCareer(ctx, playerID)
	if err != nil {
		return nil, s.classify(SourceCareer, playerID, start, err)
	}
	s.metrics.ObserveUpstream(SourceCareer, metrics.OutcomeSuccess, time.Since(start))
	return career, nil
}

func (s *DetailService) classify(source, id string, start time.Time, err error) error {
	elapsed := time.Since(start)
	switch {
	case nhl.IsNotFound(err):
		s.metrics.ObserveUpstream(source, metrics.OutcomeError, elapsed)
		return fmt.Errorf("%s %s: %w", source, id, ErrNotFound)
	case IsTimeout(err):
		s.metrics.ObserveUpstream(source, metrics.OutcomeTimeout, elapsed)
		return fmt.Errorf("%s %s: %w: %w", source, id, ErrTimeout, err)
	default:
		s.metrics.ObserveUpstream(source, metrics.OutcomeError, elapsed)
		s.log.Warn().Err(err).Str("source", source).Str("id", id).Msg("detail fetch failed")
		return fmt.Errorf("%s %s: %w: %w", source, id, ErrUpstreamUnavailable, err)
	}
}

func numericID(id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	return err == nil && n > 0
}
