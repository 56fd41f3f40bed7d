package nhl

import (
	"context"
	"fmt"
	"strings"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// wildcardThreshold is the first conference position outside the automatic
// playoff spots.
const wildcardThreshold = 9

// FetchCurrentStandings returns abbrev's place in today's league table.
func (c *Client) FetchCurrentStandings(ctx context.Context, abbrev string) (store.StandingsInfo, error) {
	data, err := c.fetch(ctx, "/standings/now")
	if err != nil {
		return store.StandingsInfo{}, fmt.Errorf("fetching current standings: %w", err)
	}
	return ParseStandings(data, abbrev), nil
}

// FetchSeasonStandings returns abbrev's place in the final table of a past
// season. A season with no known end date yields a not-found result.
func (c *Client) FetchSeasonStandings(ctx context.Context, abbrev, seasonID string) (store.StandingsInfo, error) {
	seasons, err := c.fetch(ctx, "/standings-season")
	if err != nil {
		return store.StandingsInfo{}, fmt.Errorf("fetching standings seasons: %w", err)
	}

	end := StandingsEndDate(seasons, seasonID)
	if end == "" {
		c.log.Debug().Str("season", seasonID).Msg("no standings end date for season")
		return store.StandingsInfo{}, nil
	}

	data, err := c.fetch(ctx, "/standings/"+end)
	if err != nil {
		return store.StandingsInfo{}, fmt.Errorf("fetching standings for %s: %w", end, err)
	}
	return ParseStandings(data, abbrev), nil
}

// StandingsEndDate finds the standingsEnd date of seasonID in a
// standings-season payload.
func StandingsEndDate(data map[string]interface{}, seasonID string) string {
	for _, s := range objects(extractArray(data, "seasons")) {
		if extractID(s, "id") == seasonID {
			return strings.TrimSpace(extractString(s, "standingsEnd"))
		}
	}
	return ""
}

// ParseStandings locates abbrev in a standings payload. It accepts conference
// objects holding position-ordered teams, or flat team rows that name their
// conference. A missing team yields the zero value.
func ParseStandings(data map[string]interface{}, abbrev string) store.StandingsInfo {
	for _, conference := range groupConferences(objects(extractArray(data, "standings"))) {
		for i, row := range conference {
			if !strings.EqualFold(teamAbbrev(row), abbrev) {
				continue
			}
			position := i + 1
			record := extractMap(row, "record")
			return store.StandingsInfo{
				ConferencePosition: position,
				IsWildcard:         position >= wildcardThreshold,
				DivisionPosition:   lookupInt(row, "divisionPosition"),
				Wins:               firstNonZero(extractInt(row, "wins"), extractInt(row, "winsOverall"), extractInt(record, "wins")),
				Losses:             firstNonZero(extractInt(row, "losses"), extractInt(row, "lossesOverall"), extractInt(record, "losses")),
				OTLosses:           firstNonZero(extractInt(row, "otLosses"), extractInt(row, "overtimeLosses"), extractInt(record, "ot")),
				Points:             firstNonZero(extractInt(row, "points"), extractInt(record, "points")),
			}
		}
	}
	return store.StandingsInfo{}
}

// groupConferences returns team rows per conference in position order.
func groupConferences(entries []map[string]interface{}) [][]map[string]interface{} {
	var (
		nested  [][]map[string]interface{}
		flat    = map[string][]map[string]interface{}{}
		order   []string
		hasFlat bool
	)

	for _, entry := range entries {
		if teams, ok := entry["teams"].([]interface{}); ok {
			nested = append(nested, objects(teams))
			continue
		}

		hasFlat = true
		name := fallbackString(extractString(entry, "conferenceName"), extractString(entry, "conferenceAbbrev"))
		if _, seen := flat[name]; !seen {
			order = append(order, name)
		}
		flat[name] = append(flat[name], entry)
	}

	if !hasFlat {
		return nested
	}
	for _, name := range order {
		nested = append(nested, flat[name])
	}
	return nested
}

func teamAbbrev(row map[string]interface{}) string {
	return localized(row, "teamAbbrev")
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
