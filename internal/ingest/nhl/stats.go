package nhl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// ErrNoStats is returned when every stats source failed or was empty.
var ErrNoStats = errors.New("no stats source returned players")

// PlayerRecord is a player as described by a stats or roster payload.
type PlayerRecord struct {
	PlayerID    *int
	Name        string
	PositionRaw string
	Number      int
	Captaincy   string
	Skater      *store.SkaterTotals
	Goalie      *store.GoalieTotals
}

// PlayerStatsPayload is the selected stats source's skaters and goalies.
type PlayerStatsPayload struct {
	Source  string
	Skaters []PlayerRecord
	Goalies []PlayerRecord
}

// StatsSource is one upstream endpoint that can supply season player stats.
type StatsSource struct {
	Name string
	// Path is a format string taking the team abbreviation and season id.
	Path       string
	SkaterKeys []string
	GoalieKeys []string
}

// StatsSources are tried in order.
var StatsSources = []StatsSource{
	{
		Name:       "club-stats",
		Path:       "/club-stats/%s/%s/2",
		SkaterKeys: []string{"skaters"},
		GoalieKeys: []string{"goalies"},
	},
	{
		Name:       "club-stats-season",
		Path:       "/club-stats-season/%s/%s",
		SkaterKeys: []string{"skaters", "players"},
		GoalieKeys: []string{"goalies"},
	},
}

// FetchPlayerStats returns the first stats source payload with any skaters
// or goalies.
func (c *Client) FetchPlayerStats(ctx context.Context, abbrev, seasonID string) (*PlayerStatsPayload, error) {
	var lastErr error

	for _, source := range StatsSources {
		data, err := c.fetch(ctx, fmt.Sprintf(source.Path, abbrev, seasonID))
		if err != nil {
			c.log.Warn().Err(err).Str("source", source.Name).Str("team", abbrev).Msg("stats source failed")
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		payload := ParsePlayerStats(data, source)
		if len(payload.Skaters) == 0 && len(payload.Goalies) == 0 {
			c.log.Debug().Str("source", source.Name).Str("team", abbrev).Msg("stats source empty")
			continue
		}

		c.log.Debug().
			Str("source", source.Name).
			Int("skaters", len(payload.Skaters)).
			Int("goalies", len(payload.Goalies)).
			Msg("stats source selected")
		return payload, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("fetching stats for %s %s: %w: %w", abbrev, seasonID, ErrNoStats, lastErr)
	}
	return nil, fmt.Errorf("fetching stats for %s %s: %w", abbrev, seasonID, ErrNoStats)
}

// ParsePlayerStats reads skater and goalie arrays using source's keys. The
// first key holding a non-empty array wins.
func ParsePlayerStats(data map[string]interface{}, source StatsSource) *PlayerStatsPayload {
	payload := &PlayerStatsPayload{
		Source:  source.Name,
		Skaters: []PlayerRecord{},
		Goalies: []PlayerRecord{},
	}

	for _, record := range firstArray(data, source.SkaterKeys) {
		payload.Skaters = append(payload.Skaters, ParsePlayerRecord(record, false))
	}
	for _, record := range firstArray(data, source.GoalieKeys) {
		payload.Goalies = append(payload.Goalies, ParsePlayerRecord(record, true))
	}
	return payload
}

// ParsePlayerRecord converts a stats or roster record. goalie selects which
// stat shape is attached.
func ParsePlayerRecord(m map[string]interface{}, goalie bool) PlayerRecord {
	record := PlayerRecord{
		Name:        fullName(m),
		PositionRaw: lookupString(m, "position"),
		Number:      lookupInt(m, "sweaterNumber"),
		Captaincy:   strings.ToUpper(strings.TrimSpace(extractString(m, "captaincy"))),
	}
	if id := lookupInt(m, "playerId"); id != 0 {
		record.PlayerID = &id
	}

	if goalie {
		record.Goalie = parseGoalieTotals(m)
	} else {
		record.Skater = parseSkaterTotals(m)
	}
	return record
}

func parseSkaterTotals(m map[string]interface{}) *store.SkaterTotals {
	return &store.SkaterTotals{
		GamesPlayed:       lookupInt(m, "gamesPlayed"),
		Goals:             lookupInt(m, "goals"),
		Assists:           lookupInt(m, "assists"),
		Points:            lookupInt(m, "points"),
		PlusMinus:         lookupInt(m, "plusMinus"),
		PowerPlayGoals:    lookupInt(m, "powerPlayGoals"),
		PowerPlayPoints:   lookupInt(m, "powerPlayPoints"),
		ShorthandedGoals:  lookupInt(m, "shorthandedGoals"),
		ShorthandedPoints: lookupInt(m, "shorthandedPoints"),
		GameWinningGoals:  lookupInt(m, "gameWinningGoals"),
		ShootingPctg:      lookupStat(m, "shootingPctg"),
		AvgShifts:         lookupStat(m, "avgShifts"),
	}
}

func parseGoalieTotals(m map[string]interface{}) *store.GoalieTotals {
	return &store.GoalieTotals{
		GamesPlayed:     lookupInt(m, "gamesPlayed"),
		Wins:            lookupInt(m, "wins"),
		Losses:          lookupInt(m, "losses"),
		OTLosses:        lookupInt(m, "otLosses"),
		SavePctg:        lookupStat(m, "savePctg"),
		GoalsAgainstAvg: lookupStat(m, "goalsAgainstAvg"),
		Shutouts:        lookupInt(m, "shutouts"),
		Saves:           lookupInt(m, "saves"),
	}
}

func firstArray(data map[string]interface{}, keys []string) []map[string]interface{} {
	for _, key := range keys {
		if records := objects(extractArray(data, key)); len(records) > 0 {
			return records
		}
	}
	return nil
}
