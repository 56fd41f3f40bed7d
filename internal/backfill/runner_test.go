package backfill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

type fakeLoader struct {
	mu      sync.Mutex
	calls   []string
	forced  []bool
	failing map[string]error
	stale   map[string]bool
	block   chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context, team teams.Info, seasonID string, force bool) (*cache.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, seasonID)
	f.forced = append(f.forced, force)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.failing[seasonID]; err != nil {
		return nil, err
	}
	stats := store.EmptyTeamStats(team.ID, seasonID)
	stats.Games = []store.Game{{ID: "1"}, {ID: "2"}}
	if f.stale[seasonID] {
		return &cache.Result{Stats: stats, FromCache: true, Stale: true, Warning: "upstream unavailable"}, nil
	}
	return &cache.Result{Stats: stats}, nil
}

func (f *fakeLoader) seasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingReporter struct {
	started   bool
	refreshed map[string]int
	progress  []int
	errors    map[string]error
	completed bool
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{refreshed: map[string]int{}, errors: map[string]error{}}
}

func (r *recordingReporter) OnJobStart(JobSpec) { r.started = true }
func (r *recordingReporter) OnSeasonStart(string, int, int) {}
func (r *recordingReporter) OnSeasonRefreshed(seasonID string, games int) {
	r.refreshed[seasonID] = games
}
func (r *recordingReporter) OnProgress(_ string, current int, _ int) {
	r.progress = append(r.progress, current)
}
func (r *recordingReporter) OnJobComplete() { r.completed = true }
func (r *recordingReporter) OnJobError(seasonID string, err error) { r.errors[seasonID] = err }

func TestRunnerRefreshesEverySeason(t *testing.T) {
	loader := &fakeLoader{}
	runner := NewRunner(loader, zerolog.Nop())
	reporter := newRecordingReporter()

	spec := JobSpec{Type: JobTypeSeasons, Team: "VGK", Seasons: []string{"20222023", "20232024"}}
	require.NoError(t, runner.Run(context.Background(), spec, reporter))

	assert.Equal(t, []string{"20222023", "20232024"}, loader.seasons())
	assert.Equal(t, []bool{true, true}, loader.forced)
	assert.True(t, reporter.started)
	assert.True(t, reporter.completed)
	assert.Equal(t, map[string]int{"20222023": 2, "20232024": 2}, reporter.refreshed)
	assert.Equal(t, []int{1, 2}, reporter.progress)
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	upstream := errors.New("league api down")
	loader := &fakeLoader{
		failing: map[string]error{"20222023": upstream},
		stale:   map[string]bool{"20232024": true},
	}
	runner := NewRunner(loader, zerolog.Nop())
	reporter := newRecordingReporter()

	spec := JobSpec{Type: JobTypeSeasons, Team: "VGK", Seasons: []string{"20222023", "20232024", "20242025"}}
	err := runner.Run(context.Background(), spec, reporter)

	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.ErrorIs(t, err, ErrStaleRefresh)
	assert.Len(t, loader.seasons(), 3)
	assert.False(t, reporter.completed)
	assert.Contains(t, reporter.errors, "20222023")
	assert.Contains(t, reporter.errors, "20232024")
	assert.Equal(t, map[string]int{"20242025": 2}, reporter.refreshed)
}

func TestRunnerDryRunSkipsLoads(t *testing.T) {
	loader := &fakeLoader{}
	runner := NewRunner(loader, zerolog.Nop())
	reporter := newRecordingReporter()

	spec := JobSpec{Type: JobTypeRecent, Team: "VGK", Seasons: []string{"20242025"}, DryRun: true}
	require.NoError(t, runner.Run(context.Background(), spec, reporter))

	assert.Empty(t, loader.seasons())
	assert.True(t, reporter.completed)
}

func TestRunnerUnknownTeam(t *testing.T) {
	runner := NewRunner(&fakeLoader{}, zerolog.Nop())
	err := runner.Run(context.Background(), JobSpec{Team: "XYZ", Seasons: []string{"20242025"}}, nil)
	assert.Error(t, err)
}

func TestRunnerStopsOnCancellation(t *testing.T) {
	loader := &fakeLoader{}
	runner := NewRunner(loader, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, JobSpec{Team: "VGK", Seasons: []string{"20242025"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, loader.seasons())
}

func TestBuildSpec(t *testing.T) {
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     Request
		want    JobSpec
		wantErr bool
	}{
		{
			name: "explicit seasons deduplicated",
			req:  Request{Team: " vgk ", Seasons: []string{"20222023", "20232024", "20222023"}},
			want: JobSpec{Type: JobTypeSeasons, Team: "VGK", Seasons: []string{"20222023", "20232024"}},
		},
		{
			name: "recent seasons oldest first",
			req:  Request{Team: "SEA", Recent: 3, DryRun: true},
			want: JobSpec{Type: JobTypeRecent, Team: "SEA", Seasons: []string{"20222023", "20232024", "20242025"}, DryRun: true},
		},
		{name: "nothing requested", req: Request{Team: "VGK"}, wantErr: true},
		{name: "unknown team", req: Request{Team: "XYZ", Recent: 1}, wantErr: true},
		{name: "malformed season", req: Request{Team: "VGK", Seasons: []string{"2024"}}, wantErr: true},
		{name: "too many recent", req: Request{Team: "VGK", Recent: MaxRecentSeasons + 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSpec(tt.req, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
