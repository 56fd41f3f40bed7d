package puckpedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

func vegas(t *testing.T) teams.Info {
	t.Helper()
	team, ok := teams.Lookup("VGK")
	require.True(t, ok)
	return team
}

func newTestClient(url string) *Client {
	return New(url, zerolog.Nop(), WithMinInterval(0))
}

func TestCollectorPrefersJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/vegas-golden-knights/injuries", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, `[{"playerName": "Jack Eichel", "daysOut": 3}]`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	collector := NewCollector(zerolog.Nop(), DefaultStrategies(client, nil, clockwork.NewRealClock(), time.UTC)...)

	injuries, err := collector.Collect(context.Background(), vegas(t))
	require.NoError(t, err)
	assert.Equal(t, []store.InjuredPlayer{{Name: "Jack Eichel", DaysOut: 3}}, injuries)
}

func TestCollectorFallsBackToMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/teams/vegas-golden-knights/injuries":
			http.Error(w, "forbidden", http.StatusForbidden)
		case "/team/vegas-golden-knights/injuries":
			assert.Equal(t, "navigate", r.Header.Get("Sec-Fetch-Mode"))
			assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
			fmt.Fprint(w, injuryPage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClockAt(time.Date(2026, time.January, 10, 20, 0, 0, 0, time.UTC))
	client := newTestClient(srv.URL)
	collector := NewCollector(zerolog.Nop(), DefaultStrategies(client, nil, clock, leagueLocation(t))...)

	injuries, err := collector.Collect(context.Background(), vegas(t))
	require.NoError(t, err)
	require.Len(t, injuries, 3)
	assert.Equal(t, "Jack Eichel", injuries[0].Name)
	assert.Equal(t, 5, injuries[0].DaysOut)
}

type stubFetcher struct {
	html string
	err  error
	hits int
}

func (s *stubFetcher) FetchPage(context.Context, string) (string, error) {
	s.hits++
	return s.html, s.err
}

func TestCollectorUsesBrowserWhenMarkupBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/team/vegas-golden-knights/injuries" {
			fmt.Fprint(w, "<html><body>Just a moment...</body></html>")
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	browser := &stubFetcher{html: `<div><a href="/player/1">Mark Stone</a> IR | BACK</div>`}
	client := newTestClient(srv.URL)
	collector := NewCollector(zerolog.Nop(), DefaultStrategies(client, browser, clockwork.NewRealClock(), time.UTC)...)

	injuries, err := collector.Collect(context.Background(), vegas(t))
	require.NoError(t, err)
	assert.Equal(t, 1, browser.hits)
	require.Len(t, injuries, 1)
	assert.Equal(t, "IR", injuries[0].Status)
	assert.Equal(t, "BACK", injuries[0].InjuryType)
}

func TestCollectorAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	collector := NewCollector(zerolog.Nop(), DefaultStrategies(newTestClient(srv.URL), nil, clockwork.NewRealClock(), time.UTC)...)

	_, err := collector.Collect(context.Background(), vegas(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllStrategiesFailed)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestCollectorWithoutSlug(t *testing.T) {
	browser := &stubFetcher{}
	collector := NewCollector(zerolog.Nop(), NewMarkupStrategy("browser", browser, clockwork.NewRealClock(), nil))

	injuries, err := collector.Collect(context.Background(), teams.Info{ID: "XXX"})
	require.NoError(t, err)
	assert.Empty(t, injuries)
	assert.Zero(t, browser.hits)
}

func TestClientRateLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	client := New(srv.URL, zerolog.Nop(), WithClock(clock), WithMinInterval(2*time.Second))

	_, err := client.FetchJSON(context.Background(), "/first")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := client.FetchJSON(context.Background(), "/second")
		done <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("second request was not delayed")
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("second request never completed")
	}
}

func TestClientRateLimitHonoursCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	client := New("http://127.0.0.1:0", zerolog.Nop(), WithClock(clock), WithMinInterval(time.Minute))
	client.next = clock.Now().Add(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, "/team/x/injuries")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientCancelledWaitsReleaseSlots(t *testing.T) {
	clock := clockwork.NewFakeClock()
	client := New("http://127.0.0.1:0", zerolog.Nop(), WithClock(clock), WithMinInterval(2*time.Second))

	require.NoError(t, client.wait(context.Background()))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, client.wait(cancelled), context.Canceled)
	}
	assert.Equal(t, clock.Now().Add(2*time.Second), client.next)

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- client.wait(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("next caller waited past its slot")
	}
}
