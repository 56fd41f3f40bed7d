package puckpedia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// ErrAllStrategiesFailed is returned when no strategy produced a report.
var ErrAllStrategiesFailed = errors.New("all injury strategies failed")

// Strategy is one way of obtaining a team's injury report.
type Strategy interface {
	Name() string
	Collect(ctx context.Context, slug string) ([]store.InjuredPlayer, error)
}

// PageFetcher returns the markup of a PuckPedia page.
type PageFetcher interface {
	FetchPage(ctx context.Context, path string) (string, error)
}

// JSONStrategy reads the JSON injuries endpoint.
type JSONStrategy struct {
	client *Client
}

func NewJSONStrategy(client *Client) *JSONStrategy {
	return &JSONStrategy{client: client}
}

func (s *JSONStrategy) Name() string { return "json" }

func (s *JSONStrategy) Collect(ctx context.Context, slug string) ([]store.InjuredPlayer, error) {
	body, err := s.client.FetchJSON(ctx, fmt.Sprintf("/api/teams/%s/injuries", slug))
	if err != nil {
		return nil, err
	}
	return ParseInjuryFeed(body)
}

// MarkupStrategy parses the injuries page obtained through a PageFetcher.
type MarkupStrategy struct {
	name    string
	fetcher PageFetcher
	clock   clockwork.Clock
	loc     *time.Location
}

// NewMarkupStrategy builds a markup strategy. Days out are counted from the
// clock's current time in loc.
func NewMarkupStrategy(name string, fetcher PageFetcher, clock clockwork.Clock, loc *time.Location) *MarkupStrategy {
	if loc == nil {
		loc = time.UTC
	}
	return &MarkupStrategy{name: name, fetcher: fetcher, clock: clock, loc: loc}
}

func (s *MarkupStrategy) Name() string { return s.name }

func (s *MarkupStrategy) Collect(ctx context.Context, slug string) ([]store.InjuredPlayer, error) {
	html, err := s.fetcher.FetchPage(ctx, fmt.Sprintf("/team/%s/injuries", slug))
	if err != nil {
		return nil, err
	}
	return ParseInjuryMarkup(html, s.clock.Now().In(s.loc))
}

// DefaultStrategies returns the JSON strategy, then markup over plain HTTP,
// then markup rendered by browser when one is given.
func DefaultStrategies(client *Client, browser PageFetcher, clock clockwork.Clock, loc *time.Location) []Strategy {
	strategies := []Strategy{
		NewJSONStrategy(client),
		NewMarkupStrategy("markup", client, clock, loc),
	}
	if browser != nil {
		strategies = append(strategies, NewMarkupStrategy("browser", browser, clock, loc))
	}
	return strategies
}

// Collector runs strategies in order until one succeeds.
type Collector struct {
	strategies []Strategy
	log        zerolog.Logger
}

func NewCollector(log zerolog.Logger, strategies ...Strategy) *Collector {
	return &Collector{
		strategies: strategies,
		log:        log.With().Str("component", "puckpedia").Logger(),
	}
}

// Collect returns team's injury report from the first strategy that
// succeeds. A team without a slug yields an empty report.
func (c *Collector) Collect(ctx context.Context, team teams.Info) ([]store.InjuredPlayer, error) {
	if team.PuckpediaSlug == "" {
		c.log.Warn().Str("team", team.ID).Msg("no puckpedia slug configured")
		return []store.InjuredPlayer{}, nil
	}

	var errs []error
	for _, strategy := range c.strategies {
		injuries, err := strategy.Collect(ctx, team.PuckpediaSlug)
		if err != nil {
			c.log.Warn().Err(err).Str("strategy", strategy.Name()).Str("team", team.ID).Msg("injury strategy failed")
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c.log.Debug().Str("strategy", strategy.Name()).Str("team", team.ID).Int("injuries", len(injuries)).Msg("injuries collected")
		return injuries, nil
	}

	if len(errs) == 0 {
		return nil, ErrAllStrategiesFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, errors.Join(errs...))
}
