package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/backfill"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/service"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

type loadCall struct {
	team   string
	season string
	force  bool
}

type fakeStats struct {
	calls  []loadCall
	result *cache.Result
	err    error
}

func (f *fakeStats) Load(_ context.Context, team teams.Info, seasonID string, force bool) (*cache.Result, error) {
	f.calls = append(f.calls, loadCall{team: team.ID, season: seasonID, force: force})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	stats := store.EmptyTeamStats(team.ID, seasonID)
	stats.TeamExisted = true
	return &cache.Result{Stats: stats, CachedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}, nil
}

type fakeDetails struct {
	err error
}

func (f fakeDetails) GameDetail(_ context.Context, gameID string) (*store.GameDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &store.GameDetail{ID: gameID, State: store.GameStateFinal}, nil
}

func (f fakeDetails) PlayerCareer(_ context.Context, playerID string) (*store.PlayerCareer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &store.PlayerCareer{PlayerID: 8478403, Name: "Jack Eichel", Position: "C"}, nil
}

// January in Las Vegas, midway through 2024-2025.
var midseason = time.Date(2025, time.January, 15, 20, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, stats StatsLoader, details DetailProvider, bf BackfillService) http.Handler {
	t.Helper()
	h := NewHandler(stats, details,
		WithHandlerClock(clockwork.NewFakeClockAt(midseason)),
		WithDefaultTeam("SEA"),
		WithSeasonWindow(3),
	)
	var bh *BackfillHandler
	if bf != nil {
		bh = NewBackfillHandler(bf)
	}
	return NewRouter(h, bh, metrics.NewManager(), nil, zerolog.Nop())
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthCheck(t *testing.T) {
	router := NewRouter(NewHandler(&fakeStats{}, fakeDetails{},
		WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
	), nil, nil, nil, zerolog.Nop())

	rec, body := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]interface{}{"redis": "connection refused"}, body["dependencies"])

	router = newTestRouter(t, &fakeStats{}, fakeDetails{}, nil)
	rec, body = do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestGetTeamsAndTeam(t *testing.T) {
	router := newTestRouter(t, &fakeStats{}, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SEA", body["defaultTeam"])
	assert.EqualValues(t, len(teams.List()), body["count"])

	rec, body = do(t, router, http.MethodGet, "/api/v1/teams/vgk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "VGK", body["id"])

	rec, body = do(t, router, http.MethodGet, "/api/v1/teams/XYZ", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SEA", body["id"])
}

func TestGetSeasons(t *testing.T) {
	router := newTestRouter(t, &fakeStats{}, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/seasons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20242025", body["current"])
	assert.Len(t, body["seasons"], 4)

	rec, body = do(t, router, http.MethodGet, "/api/v1/seasons?window=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	seasons := body["seasons"].([]interface{})
	require.Len(t, seasons, 2)
	assert.Equal(t, "20232024", seasons[0].(map[string]interface{})["id"])

	rec, _ = do(t, router, http.MethodGet, "/api/v1/seasons?window=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, router, http.MethodGet, "/api/v1/seasons/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20242025", body["id"])
	assert.Equal(t, "2024-2025", body["displayName"])
}

func TestGetTeamSeasonStats(t *testing.T) {
	stats := &fakeStats{}
	router := newTestRouter(t, stats, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/VGK/seasons/20232024/stats?refresh=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []loadCall{{team: "VGK", season: "20232024", force: true}}, stats.calls)
	assert.Equal(t, "VGK", body["team"].(map[string]interface{})["id"])
	assert.Equal(t, "20232024", body["season"].(map[string]interface{})["id"])
	assert.Equal(t, "2025-01-15T12:00:00Z", body["cachedAt"])
	assert.Equal(t, false, body["stale"])
	assert.NotContains(t, body, "message")
}

func TestGetTeamSeasonStatsUnknownTeamUsesDefault(t *testing.T) {
	stats := &fakeStats{}
	router := newTestRouter(t, stats, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/NOPE/seasons/20232024/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []loadCall{{team: "SEA", season: "20232024"}}, stats.calls)
	assert.Equal(t, "SEA", body["team"].(map[string]interface{})["id"])
}

func TestGetTeamSeasonStatsTeamDidNotExist(t *testing.T) {
	stats := &fakeStats{result: &cache.Result{Stats: store.EmptyTeamStats("SEA", "20182019")}}
	router := newTestRouter(t, stats, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/SEA/seasons/20182019/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Seattle Kraken did not play in the 2018-2019 season.", body["message"])
	assert.NotContains(t, body, "cachedAt")
}

func TestGetTeamSeasonStatsStale(t *testing.T) {
	stats := &fakeStats{result: &cache.Result{
		Stats:     store.EmptyTeamStats("VGK", "20242025"),
		CachedAt:  midseason.Add(-48 * time.Hour),
		FromCache: true,
		Stale:     true,
		Warning:   "upstream timed out; showing data cached at 2025-01-13T20:00:00Z",
	}}
	stats.result.Stats.TeamExisted = true
	router := newTestRouter(t, stats, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/VGK/seasons/20242025/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["stale"])
	assert.Equal(t, true, body["fromCache"])
	assert.Contains(t, body["warning"], "upstream timed out")
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown season", fmt.Errorf("%w: %q", service.ErrUnknownSeason, "x"), http.StatusBadRequest},
		{"timeout", &service.AggregationError{Source: service.SourceSchedule, Kind: service.ErrTimeout, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"upstream failure", &service.AggregationError{Source: service.SourceStats, Kind: service.ErrUpstreamUnavailable, Err: errors.New("500")}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeStats{err: tt.err}, fakeDetails{}, nil)
			rec, body := do(t, router, http.MethodGet, "/api/v1/teams/VGK/seasons/20242025/stats", "")
			assert.Equal(t, tt.want, rec.Code)
			assert.EqualValues(t, tt.want, body["status"])
			assert.Contains(t, body, "details")
		})
	}
}

func TestInvalidSeasonRejectedBeforeLoad(t *testing.T) {
	stats := &fakeStats{}
	router := newTestRouter(t, stats, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/VGK/seasons/2024/summary", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "Invalid season")
	assert.Empty(t, stats.calls)
}

func TestGetTeamSeasonSummary(t *testing.T) {
	router := newTestRouter(t, &fakeStats{}, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/teams/VGK/seasons/20242025/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "VGK", body["team"])
	assert.Equal(t, true, body["teamExisted"])
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, "derived", summary["regular"].(map[string]interface{})["source"])
}

func TestDetailRoutes(t *testing.T) {
	router := newTestRouter(t, &fakeStats{}, fakeDetails{}, nil)

	rec, body := do(t, router, http.MethodGet, "/api/v1/games/2024020500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024020500", body["id"])

	rec, body = do(t, router, http.MethodGet, "/api/v1/players/8478403/career", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jack Eichel", body["name"])

	router = newTestRouter(t, &fakeStats{}, fakeDetails{err: fmt.Errorf("gamecenter 1: %w", service.ErrNotFound)}, nil)
	rec, _ = do(t, router, http.MethodGet, "/api/v1/games/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	router = newTestRouter(t, &fakeStats{}, fakeDetails{err: fmt.Errorf("x: %w", service.ErrTimeout)}, nil)
	rec, _ = do(t, router, http.MethodGet, "/api/v1/players/1/career", "")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(&fakeStats{}, fakeDetails{})
	router := NewRouter(h, nil, nil, []string{"https://tracker.example.com"}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://tracker.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://tracker.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBackfillRoutes(t *testing.T) {
	bf := &fakeBackfill{}
	router := newTestRouter(t, &fakeStats{}, fakeDetails{}, bf)

	rec, body := do(t, router, http.MethodGet, "/api/v1/backfill/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "idle", body["status"])
	assert.Equal(t, []interface{}{}, body["history"])

	rec, body = do(t, router, http.MethodPost, "/api/v1/backfill", `{"team":"VGK","season":"20242025","seasons":["20232024"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"20232024", "20242025"}, bf.last.Seasons)
	job := body["job"].(map[string]interface{})
	assert.Equal(t, "job-1", job["job_id"])

	rec, _ = do(t, router, http.MethodGet, "/api/v1/backfill/jobs/job-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodGet, "/api/v1/backfill/jobs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/api/v1/backfill", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bf.err = backfill.ErrQueueFull
	rec, _ = do(t, router, http.MethodPost, "/api/v1/backfill", `{"team":"VGK","recent":2}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type fakeBackfill struct {
	last backfill.Request
	job  *backfill.Job
	err  error
}

func (f *fakeBackfill) Enqueue(_ context.Context, req backfill.Request) (*backfill.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = req
	f.job = &backfill.Job{JobID: "job-1", Team: req.Team, Seasons: req.Seasons, Status: backfill.JobStatusQueued}
	return f.job, nil
}

func (f *fakeBackfill) GetStatus(context.Context) (*backfill.StatusSummary, error) {
	summary := &backfill.StatusSummary{}
	if f.job != nil {
		summary.History = []*backfill.Job{f.job}
	}
	return summary, nil
}

func (f *fakeBackfill) Job(id string) (*backfill.Job, bool) {
	if f.job != nil && f.job.JobID == id {
		return f.job, true
	}
	return nil, false
}
