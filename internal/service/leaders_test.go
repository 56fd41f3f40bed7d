package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

func names(board []store.PlayerStat) []string {
	out := make([]string, len(board))
	for i, s := range board {
		out[i] = s.Name
	}
	return out
}

func TestBuildLeaderboardsRanksSkaters(t *testing.T) {
	payload := &nhl.PlayerStatsPayload{
		Skaters: []nhl.PlayerRecord{
			skater("Jack Eichel", "C", 28, 66, 19, 22.04),
			skater("Mark Stone", "R", 19, 45, 22, 20.5),
			skater("Ivan Barbashev", "L", 23, 46, 15, 19.9),
			skater("Tomas Hertl", "C", 32, 31, 3, 21.3),
			skater("Shea Theodore", "D", 9, 48, 10, 27.46),
			skater("Pavel Dorofeyev", "L", 35, 17, 11, 17.2),
			skater("Brett Howden", "C", 23, 17, 5, 16.1),
		},
	}

	boards := BuildLeaderboards(payload)

	assert.Equal(t, []string{"Jack Eichel", "Ivan Barbashev", "Mark Stone", "Tomas Hertl", "Shea Theodore"}, names(boards.Points))
	assert.Equal(t, 94.0, boards.Points[0].Value)
	assert.Equal(t, "C", boards.Points[0].Position)
	require.NotNil(t, boards.Points[0].Skater)
	assert.Equal(t, 28, boards.Points[0].Skater.Goals)

	assert.Equal(t, []string{"Pavel Dorofeyev", "Tomas Hertl", "Jack Eichel", "Ivan Barbashev", "Brett Howden"}, names(boards.Goals))
	assert.Equal(t, "LW", boards.Goals[0].Position)
	assert.Equal(t, "Mark Stone", boards.PlusMinus[0].Name)
	assert.Equal(t, "RW", boards.PlusMinus[0].Position)

	assert.Equal(t, "Shea Theodore", boards.AvgShifts[0].Name)
	assert.Equal(t, 27.5, boards.AvgShifts[0].Value)
	assert.Equal(t, 22.0, boards.AvgShifts[1].Value)
}

func TestBuildLeaderboardsKeepsUpstreamOrderOnTies(t *testing.T) {
	payload := &nhl.PlayerStatsPayload{
		Skaters: []nhl.PlayerRecord{
			skater("First", "C", 10, 0, 0, 0),
			skater("Second", "C", 10, 0, 0, 0),
			skater("Third", "C", 12, 0, 0, 0),
		},
	}

	boards := BuildLeaderboards(payload)
	assert.Equal(t, []string{"Third", "First", "Second"}, names(boards.Goals))
}

func TestBuildLeaderboardsGoalies(t *testing.T) {
	payload := &nhl.PlayerStatsPayload{
		Goalies: []nhl.PlayerRecord{
			goalie("Adin Hill", 40, 0.9087),
			goalie("Ilya Samsonov", 30, 0.8912),
			goalie("Backup", 0, 1.0),
			goalie("Akira Schmid", 5, 0.9234),
			goalie("Third String", 2, 0.85),
		},
	}

	boards := BuildLeaderboards(payload)

	require.Len(t, boards.Goalies, 3)
	assert.Equal(t, []string{"Akira Schmid", "Adin Hill", "Ilya Samsonov"}, names(boards.Goalies))
	assert.Equal(t, 0.923, boards.Goalies[0].Value)
	assert.Equal(t, "G", boards.Goalies[0].Position)
}

func TestBuildLeaderboardsPlaceholders(t *testing.T) {
	for _, payload := range []*nhl.PlayerStatsPayload{nil, {}} {
		boards := BuildLeaderboards(payload)

		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderPoints}}, boards.Points)
		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderGoals}}, boards.Goals)
		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderAssists}}, boards.Assists)
		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderPlusMinus}}, boards.PlusMinus)
		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderShifts}}, boards.AvgShifts)
		assert.Equal(t, []store.PlayerStat{{Name: PlaceholderGoalies}}, boards.Goalies)
	}
}

func TestBuildLeaderboardsRanksOnUnroundedValues(t *testing.T) {
	payload := &nhl.PlayerStatsPayload{
		Skaters: []nhl.PlayerRecord{
			skater("Shorter Shifts", "C", 0, 0, 0, 20.01),
			skater("Longer Shifts", "C", 0, 0, 0, 20.04),
		},
		Goalies: []nhl.PlayerRecord{
			goalie("Lower", 20, 0.9151),
			goalie("Higher", 20, 0.9154),
		},
	}

	boards := BuildLeaderboards(payload)

	assert.Equal(t, []string{"Longer Shifts", "Shorter Shifts"}, names(boards.AvgShifts))
	assert.Equal(t, 20.0, boards.AvgShifts[0].Value)
	assert.Equal(t, []string{"Higher", "Lower"}, names(boards.Goalies))
	assert.Equal(t, 0.915, boards.Goalies[0].Value)
	assert.Equal(t, 0.915, boards.Goalies[1].Value)
}
