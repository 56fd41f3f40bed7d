package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

type fakeDetails struct {
	game   *store.GameDetail
	career *store.PlayerCareer
	err    error
	hits   int
}

func (f *fakeDetails) FetchGameDetail(context.Context, string) (*store.GameDetail, error) {
	f.hits++
	return f.game, f.err
}

func (f *fakeDetails) FetchPlayerCareer(context.Context, string) (*store.PlayerCareer, error) {
	f.hits++
	return f.career, f.err
}

func TestDetailServiceReturnsGame(t *testing.T) {
	source := &fakeDetails{game: &store.GameDetail{ID: "2024020001", Venue: "T-Mobile Arena"}}
	svc := NewDetailService(source, 0, nil, zerolog.Nop())

	detail, err := svc.GameDetail(context.Background(), "2024020001")
	require.NoError(t, err)
	assert.Equal(t, "T-Mobile Arena", detail.Venue)
}

func TestDetailServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", &nhl.StatusError{StatusCode: http.StatusNotFound}, ErrNotFound},
		{"timeout", context.DeadlineExceeded, ErrTimeout},
		{"upstream", &nhl.StatusError{StatusCode: http.StatusInternalServerError}, ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDetailService(&fakeDetails{err: tt.err}, 0, nil, zerolog.Nop())

			_, err := svc.PlayerCareer(context.Background(), "8478403")
			assert.ErrorIs(t, err, tt.want)

			_, err = svc.GameDetail(context.Background(), "2024020001")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDetailServiceRejectsMalformedIDs(t *testing.T) {
	source := &fakeDetails{err: errors.New("should not be called")}
	svc := NewDetailService(source, 0, nil, zerolog.Nop())

	for _, id := range []string{"", "abc", "-1", "0", "12a"} {
		_, err := svc.GameDetail(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, id)

		_, err = svc.PlayerCareer(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
	assert.Zero(t, source.hits)
}
