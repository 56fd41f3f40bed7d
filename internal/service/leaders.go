package service

import (
	"math"
	"sort"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const (
	skaterBoardSize = 5
	goalieBoardSize = 3
)

// Placeholder names for boards with no qualifying players.
const (
	PlaceholderPoints    = "Point stats unavailable"
	PlaceholderGoals     = "Goal stats unavailable"
	PlaceholderAssists   = "Assist stats unavailable"
	PlaceholderPlusMinus = "Plus/minus stats unavailable"
	PlaceholderShifts    = "Shift stats unavailable"
	PlaceholderGoalies   = "Goalie stats unavailable"
)

// Leaderboards holds every board derived from a stats payload.
type Leaderboards struct {
	Points    []store.PlayerStat
	Goals     []store.PlayerStat
	Assists   []store.PlayerStat
	PlusMinus []store.PlayerStat
	AvgShifts []store.PlayerStat
	Goalies   []store.PlayerStat
}

// BuildLeaderboards ranks skaters and goalies. Ties keep upstream order.
func BuildLeaderboards(payload *nhl.PlayerStatsPayload) Leaderboards {
	var skaters, goalies []nhl.PlayerRecord
	if payload != nil {
		skaters, goalies = payload.Skaters, payload.Goalies
	}

	return Leaderboards{
		Points: skaterBoard(skaters, PlaceholderPoints, 0, func(s *store.SkaterTotals) float64 {
			return float64(s.Points)
		}),
		Goals: skaterBoard(skaters, PlaceholderGoals, 0, func(s *store.SkaterTotals) float64 {
			return float64(s.Goals)
		}),
		Assists: skaterBoard(skaters, PlaceholderAssists, 0, func(s *store.SkaterTotals) float64 {
			return float64(s.Assists)
		}),
		PlusMinus: skaterBoard(skaters, PlaceholderPlusMinus, 0, func(s *store.SkaterTotals) float64 {
			return float64(s.PlusMinus)
		}),
		AvgShifts: skaterBoard(skaters, PlaceholderShifts, 1, func(s *store.SkaterTotals) float64 {
			return s.AvgShifts
		}),
		Goalies: goalieBoard(goalies),
	}
}

// skaterBoard ranks on the raw value and rounds the displayed value to places.
func skaterBoard(records []nhl.PlayerRecord, placeholder string, places int, value func(*store.SkaterTotals) float64) []store.PlayerStat {
	board := make([]store.PlayerStat, 0, len(records))
	for _, r := range records {
		if r.Skater == nil {
			continue
		}
		stat := statFor(r, NormalizePosition(r.PositionRaw))
		stat.Value = value(r.Skater)
		board = append(board, stat)
	}
	return roundValues(topN(board, skaterBoardSize, placeholder), places)
}

func goalieBoard(records []nhl.PlayerRecord) []store.PlayerStat {
	board := make([]store.PlayerStat, 0, len(records))
	for _, r := range records {
		if r.Goalie == nil || r.Goalie.GamesPlayed <= 0 {
			continue
		}
		stat := statFor(r, PositionGoalie)
		stat.Value = r.Goalie.SavePctg
		board = append(board, stat)
	}
	return roundValues(topN(board, goalieBoardSize, PlaceholderGoalies), 3)
}

func topN(board []store.PlayerStat, n int, placeholder string) []store.PlayerStat {
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Value > board[j].Value
	})
	if len(board) > n {
		board = board[:n]
	}
	if len(board) == 0 {
		return []store.PlayerStat{{Name: placeholder, Value: 0}}
	}
	return board
}

// statFor builds a PlayerStat carrying r's full stat superset.
func statFor(r nhl.PlayerRecord, position string) store.PlayerStat {
	stat := store.PlayerStat{
		Name:     r.Name,
		Position: position,
		PlayerID: r.PlayerID,
	}
	if r.Skater != nil {
		skater := *r.Skater
		stat.Skater = &skater
	}
	if r.Goalie != nil {
		goalie := *r.Goalie
		stat.Goalie = &goalie
	}
	return stat
}

func roundValues(board []store.PlayerStat, places int) []store.PlayerStat {
	for i := range board {
		board[i].Value = round(board[i].Value, places)
	}
	return board
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
