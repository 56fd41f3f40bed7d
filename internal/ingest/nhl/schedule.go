package nhl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const (
	gameTypePreseason = 1
	gameTypeRegular   = 2
	gameTypePlayoff   = 3
	gameTypeAllStar   = 4

	unknownOpponent = "TBD"
)

// periodTypeFields lists where a finished game's deciding period may appear,
// in preference order. Nested fields are written parent.child.
var periodTypeFields = []string{
	"gameOutcome.lastPeriodType",
	"gameOutcomeLastPeriodType",
	"gameOutcome.gameOutcome",
	"gameOutcomeType",
	"periodDescriptor.periodType",
	"periodDescriptor.periodTypeName",
}

// FetchSchedule fetches a team's full season schedule.
func (c *Client) FetchSchedule(ctx context.Context, abbrev, seasonID string) ([]store.Game, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("/club-schedule-season/%s/%s", abbrev, seasonID))
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for %s %s: %w", abbrev, seasonID, err)
	}

	games := ParseSchedule(data, abbrev, c.normalizer, c.log)
	c.log.Debug().Str("team", abbrev).Str("season", seasonID).Int("games", len(games)).Msg("schedule parsed")
	return games, nil
}

// ParseSchedule converts a club-schedule-season payload into games seen from
// abbrev's side. Preseason games and records without an id are dropped.
func ParseSchedule(data map[string]interface{}, abbrev string, norm *gametime.Normalizer, log zerolog.Logger) []store.Game {
	records := objects(extractArray(data, "games"))
	games := make([]store.Game, 0, len(records))

	for _, record := range records {
		gameType := extractInt(record, "gameType")
		if gameType == gameTypePreseason {
			continue
		}

		id := extractID(record, "id")
		if id == "" {
			log.Warn().Str("team", abbrev).Msg("skipping schedule record without id")
			continue
		}

		home := extractMap(record, "homeTeam")
		away := extractMap(record, "awayTeam")
		isHome := strings.EqualFold(extractString(home, "abbrev"), abbrev)

		opponent := away
		if !isHome {
			opponent = home
		}

		game := store.Game{
			ID:             id,
			Opponent:       opponentName(opponent),
			OpponentAbbrev: extractString(opponent, "abbrev"),
			IsHome:         isHome,
			HomeScore:      extractOptionalInt(home, "score"),
			AwayScore:      extractOptionalInt(away, "score"),
			State:          MapGameState(extractString(record, "gameState")),
			LastPeriodType: lastPeriodType(record),
			Category:       categoryFromGameType(gameType),
		}

		if start := extractString(record, "startTimeUTC"); start != "" {
			game.StartTimeUTC = start
			game.Date = norm.LocalDate(start)
			game.DisplayDate = norm.FormatDate(start, gametime.FormatLong)
			game.Time = norm.LocalTime(start)
		} else {
			day := extractString(record, "gameDate")
			game.Date = norm.LocalDate(day)
			game.DisplayDate = norm.FormatDate(day, gametime.FormatLong)
			game.Time = gametime.UnknownTime
		}
		if game.Date == gametime.UnknownDate {
			log.Debug().Str("game", id).Msg("unparseable game date")
		}

		games = append(games, game)
	}

	return games
}

// MapGameState maps an upstream gameState code to a coarse state.
func MapGameState(raw string) store.GameState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LIVE", "CRIT":
		return store.GameStateLive
	case "FINAL", "OFF":
		return store.GameStateFinal
	default:
		return store.GameStateFuture
	}
}

func categoryFromGameType(code int) store.GameCategory {
	switch code {
	case gameTypeRegular:
		return store.CategoryRegular
	case gameTypePlayoff:
		return store.CategoryPlayoff
	case gameTypeAllStar:
		return store.CategoryAllStar
	default:
		return store.CategoryUnset
	}
}

func opponentName(team map[string]interface{}) string {
	place := strings.TrimSpace(localized(team, "placeName"))
	common := strings.TrimSpace(localized(team, "commonName"))
	if place != "" && common != "" {
		return place + " " + common
	}
	return fallbackString(place, extractString(team, "abbrev"), unknownOpponent)
}

func lastPeriodType(record map[string]interface{}) string {
	for _, field := range periodTypeFields {
		parent, child, nested := strings.Cut(field, ".")
		var value string
		if nested {
			value = extractString(extractMap(record, parent), child)
		} else {
			value = extractString(record, parent)
		}
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return strings.ToUpper(trimmed)
		}
	}
	return ""
}

// extractID reads an identifier that may be encoded as a number or a string.
func extractID(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}
