package nhl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const boxscorePayload = `{
	"id": 2024020500,
	"gameState": "OFF",
	"startTimeUTC": "2025-01-05T03:00:00Z",
	"venue": {"default": "T-Mobile Arena"},
	"periodDescriptor": {"number": 4, "periodType": "OT"},
	"homeTeam": {"abbrev": "VGK", "commonName": {"default": "Golden Knights"}, "placeName": {"default": "Vegas"}, "score": 4, "sog": 35},
	"awayTeam": {"abbrev": "COL", "commonName": {"default": "Avalanche"}, "placeName": {"default": "Colorado"}, "score": 3, "sog": 28}
}`

func TestFetchGameDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gamecenter/2024020500/boxscore":
			fmt.Fprint(w, boxscorePayload)
		case "/gamecenter/2024020500/landing":
			fmt.Fprint(w, `{"summary": {"threeStars": [{"name": {"default": "J. Eichel"}}, {"name": "C. Makar"}, {"firstName": "Ivan", "lastName": "Barbashev"}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	detail, err := New(srv.URL, zerolog.Nop()).FetchGameDetail(context.Background(), "2024020500")
	require.NoError(t, err)

	assert.Equal(t, "2024020500", detail.ID)
	assert.Equal(t, store.GameStateFinal, detail.State)
	assert.Equal(t, "2025-01-04", detail.Date)
	assert.Equal(t, "Saturday, January 4, 2025", detail.DisplayDate)
	assert.Equal(t, "7:00 PM", detail.Time)
	assert.Equal(t, "T-Mobile Arena", detail.Venue)
	assert.Equal(t, 4, detail.Period)
	assert.Equal(t, "OT", detail.LastPeriodType)
	assert.Equal(t, "Vegas Golden Knights", detail.Home.Name)
	assert.Equal(t, 35, detail.Home.ShotsOnGoal)
	require.NotNil(t, detail.Away.Score)
	assert.Equal(t, 3, *detail.Away.Score)
	assert.True(t, detail.Landing)
	assert.Equal(t, []string{"J. Eichel", "C. Makar", "Ivan Barbashev"}, detail.ThreeStars)
}

func TestFetchGameDetailWithoutLanding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gamecenter/2024020500/boxscore" {
			fmt.Fprint(w, boxscorePayload)
			return
		}
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	detail, err := New(srv.URL, zerolog.Nop()).FetchGameDetail(context.Background(), "2024020500")
	require.NoError(t, err)
	assert.False(t, detail.Landing)
	assert.Empty(t, detail.ThreeStars)
	assert.Equal(t, "COL", detail.Away.Abbrev)
}

func TestFetchGameDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL, zerolog.Nop()).FetchGameDetail(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestParsePlayerCareer(t *testing.T) {
	skater := ParsePlayerCareer(decode(t, `{
		"playerId": 8478403, "firstName": {"default": "Jack"}, "lastName": {"default": "Eichel"}, "position": "C",
		"careerTotals": {
			"regularSeason": {"gamesPlayed": 600, "goals": 250, "assists": 400, "points": 650, "plusMinus": 5},
			"playoffs": {"gamesPlayed": 40, "goals": 10, "points": 35}
		}
	}`))
	assert.Equal(t, 8478403, skater.PlayerID)
	assert.Equal(t, "Jack Eichel", skater.Name)
	require.NotNil(t, skater.RegularSeason)
	require.NotNil(t, skater.RegularSeason.Skater)
	assert.Equal(t, 650, skater.RegularSeason.Skater.Points)
	assert.Nil(t, skater.RegularSeason.Goalie)
	require.NotNil(t, skater.Playoffs)
	assert.Equal(t, 35, skater.Playoffs.Skater.Points)

	goalie := ParsePlayerCareer(decode(t, `{
		"playerId": 1, "firstName": "Adin", "lastName": "Hill", "position": "G",
		"careerTotals": {"regularSeason": {"gamesPlayed": 200, "wins": 110, "savePctg": 0.908, "goalsAgainstAvg": 2.7}}
	}`))
	require.NotNil(t, goalie.RegularSeason)
	require.NotNil(t, goalie.RegularSeason.Goalie)
	assert.Equal(t, 110, goalie.RegularSeason.Goalie.Wins)
	assert.Nil(t, goalie.Playoffs)
}
