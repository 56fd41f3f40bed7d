package service

import (
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

func intPtr(v int) *int { return &v }

func skater(name, position string, goals, assists, plusMinus int, shifts float64) nhl.PlayerRecord {
	return nhl.PlayerRecord{
		Name:        name,
		PositionRaw: position,
		Skater: &store.SkaterTotals{
			GamesPlayed: 82,
			Goals:       goals,
			Assists:     assists,
			Points:      goals + assists,
			PlusMinus:   plusMinus,
			AvgShifts:   shifts,
		},
	}
}

func goalie(name string, gamesPlayed int, savePctg float64) nhl.PlayerRecord {
	return nhl.PlayerRecord{
		Name: name,
		Goalie: &store.GoalieTotals{
			GamesPlayed: gamesPlayed,
			SavePctg:    savePctg,
		},
	}
}

func finalGame(own, opp int, periodType string, category store.GameCategory) store.Game {
	return store.Game{
		IsHome:         true,
		HomeScore:      intPtr(own),
		AwayScore:      intPtr(opp),
		State:          store.GameStateFinal,
		LastPeriodType: periodType,
		Category:       category,
	}
}
