package backfill

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

// ErrStaleRefresh means the cache served a previous entry because the
// refresh failed.
var ErrStaleRefresh = errors.New("refresh failed, stale entry kept")

// Loader force-refreshes a team-season. *cache.Manager satisfies it.
type Loader interface {
	Load(ctx context.Context, team teams.Info, seasonID string, force bool) (*cache.Result, error)
}

// Runner executes backfill specs through the cache.
type Runner struct {
	loader Loader
	log    zerolog.Logger
}

// NewRunner constructs a runner.
func NewRunner(loader Loader, log zerolog.Logger) *Runner {
	return &Runner{
		loader: loader,
		log:    log.With().Str("component", "backfill").Logger(),
	}
}

// Run refreshes every season in spec, reporting progress via the Reporter if
// provided. A failing season does not stop the job; all failures are
// returned together.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter == nil {
		reporter = nopReporter{}
	}
	reporter.OnJobStart(spec)

	team, ok := teams.Lookup(spec.Team)
	if !ok {
		err := fmt.Errorf("unknown team %q", spec.Team)
		reporter.OnJobError("", err)
		return err
	}

	total := len(spec.Seasons)
	if spec.DryRun {
		reporter.OnProgress(fmt.Sprintf("Dry-run mode: would refresh %d seasons of %s", total, team.ID), 0, total)
		reporter.OnJobComplete()
		return nil
	}

	var errs []error
	for idx, seasonID := range spec.Seasons {
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.OnSeasonStart(seasonID, idx, total)

		res, err := r.loader.Load(ctx, team, seasonID, true)
		if err == nil && res.Stale {
			err = fmt.Errorf("%w: %s", ErrStaleRefresh, res.Warning)
		}
		if err != nil {
			r.log.Warn().Err(err).Str("team", team.ID).Str("season", seasonID).Msg("season refresh failed")
			reporter.OnJobError(seasonID, err)
			errs = append(errs, fmt.Errorf("season %s: %w", seasonID, err))
		} else {
			reporter.OnSeasonRefreshed(seasonID, len(res.Stats.Games))
		}

		reporter.OnProgress(fmt.Sprintf("Processed %s", seasonID), idx+1, total)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	reporter.OnJobComplete()
	return nil
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec) {}
func (nopReporter) OnSeasonStart(string, int, int) {}
func (nopReporter) OnSeasonRefreshed(string, int) {}
func (nopReporter) OnProgress(string, int, int) {}
func (nopReporter) OnJobComplete() {}
func (nopReporter) OnJobError(string, error) {}
