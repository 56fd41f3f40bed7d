package service

import (
	"strings"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// ChampionshipPlayoffWins is the number of playoff wins that takes a team
// through four best-of-seven rounds.
const ChampionshipPlayoffWins = 16

var overtimePeriodTypes = map[string]bool{
	"OT":       true,
	"SO":       true,
	"S/O":      true,
	"SHOOTOUT": true,
	"OVERTIME": true,
}

// IsOvertimeDecision reports whether a period type names an overtime or
// shootout finish.
func IsOvertimeDecision(periodType string) bool {
	return overtimePeriodTypes[strings.ToUpper(strings.TrimSpace(periodType))]
}

// IsCompleted reports whether g has a final result with both scores.
func IsCompleted(g store.Game) bool {
	if g.State == store.GameStateFuture || g.State == store.GameStateLive {
		return false
	}
	_, _, ok := g.Scores()
	return ok
}

// DeriveSummary computes regular-season and playoff records from the
// schedule. Official standings counters replace the derived regular-season
// line when they carry any result.
func DeriveSummary(games []store.Game, standings store.StandingsInfo) store.SeasonSummary {
	var (
		regular store.RecordLine
		playoff store.PlayoffRecord
	)

	for _, g := range games {
		if !IsCompleted(g) {
			continue
		}
		own, opp, _ := g.Scores()

		switch g.Category {
		case store.CategoryRegular, store.CategoryUnset:
			regular.GamesPlayed++
			switch {
			case own > opp:
				regular.Wins++
			case own < opp:
				if IsOvertimeDecision(g.LastPeriodType) {
					regular.OTLosses++
				} else {
					regular.Losses++
				}
			default:
				regular.Ties++
			}
		case store.CategoryPlayoff:
			switch {
			case own > opp:
				playoff.Wins++
			case own < opp:
				playoff.Losses++
			}
		}
	}

	regular.Source = store.RecordSourceDerived
	// Official lines carry no tie column, so derived ties are not mixed in.
	if standings.Wins+standings.Losses+standings.OTLosses > 0 {
		regular = store.RecordLine{
			Wins:        standings.Wins,
			Losses:      standings.Losses,
			OTLosses:    standings.OTLosses,
			GamesPlayed: standings.Wins + standings.Losses + standings.OTLosses,
			Source:      store.RecordSourceOfficial,
		}
	}

	regular.Points = standings.Points
	if regular.Points <= 0 {
		regular.Points = 2*regular.Wins + regular.OTLosses + regular.Ties
	}

	return store.SeasonSummary{
		Regular:  regular,
		Playoff:  playoff,
		Champion: playoff.Wins == ChampionshipPlayoffWins,
	}
}
