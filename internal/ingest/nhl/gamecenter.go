package nhl

import (
	"context"
	"fmt"
	"strings"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// FetchGameDetail fetches a game's boxscore and, when available, its landing
// summary. A failed landing call is logged and the boxscore is returned alone.
func (c *Client) FetchGameDetail(ctx context.Context, gameID string) (*store.GameDetail, error) {
	boxscore, err := c.fetch(ctx, fmt.Sprintf("/gamecenter/%s/boxscore", gameID))
	if err != nil {
		return nil, fmt.Errorf("fetching boxscore for game %s: %w", gameID, err)
	}

	detail := ParseBoxscore(boxscore, c.normalizer)

	landing, err := c.fetch(ctx, fmt.Sprintf("/gamecenter/%s/landing", gameID))
	if err != nil {
		c.log.Warn().Err(err).Str("game", gameID).Msg("landing unavailable")
		return detail, nil
	}

	ApplyLanding(detail, landing)
	return detail, nil
}

// ParseBoxscore converts a gamecenter boxscore payload.
func ParseBoxscore(data map[string]interface{}, norm *gametime.Normalizer) *store.GameDetail {
	detail := &store.GameDetail{
		ID:             extractID(data, "id"),
		State:          MapGameState(extractString(data, "gameState")),
		Venue:          localized(data, "venue"),
		Period:         extractInt(extractMap(data, "periodDescriptor"), "number"),
		LastPeriodType: lastPeriodType(data),
		Home:           parseTeamLine(extractMap(data, "homeTeam")),
		Away:           parseTeamLine(extractMap(data, "awayTeam")),
	}

	if start := extractString(data, "startTimeUTC"); start != "" {
		detail.Date = norm.LocalDate(start)
		detail.DisplayDate = norm.FormatDate(start, gametime.FormatLong)
		detail.Time = norm.LocalTime(start)
	} else {
		day := extractString(data, "gameDate")
		detail.Date = norm.LocalDate(day)
		detail.DisplayDate = norm.FormatDate(day, gametime.FormatLong)
		detail.Time = gametime.UnknownTime
	}

	return detail
}

// ApplyLanding adds landing-only extras to detail.
func ApplyLanding(detail *store.GameDetail, landing map[string]interface{}) {
	detail.Landing = true

	summary := extractMap(landing, "summary")
	stars := objects(extractArray(summary, "threeStars"))
	if len(stars) == 0 {
		stars = objects(extractArray(landing, "threeStars"))
	}
	for _, star := range stars {
		name := fallbackString(localized(star, "name"), strings.TrimSpace(localized(star, "firstName")+" "+localized(star, "lastName")))
		if name = strings.TrimSpace(name); name != "" {
			detail.ThreeStars = append(detail.ThreeStars, name)
		}
	}

	if detail.Venue == "" {
		detail.Venue = localized(landing, "venue")
	}
}

func parseTeamLine(team map[string]interface{}) store.TeamLine {
	place := strings.TrimSpace(localized(team, "placeName"))
	common := strings.TrimSpace(fallbackString(localized(team, "commonName"), localized(team, "name")))
	name := strings.TrimSpace(place + " " + common)
	if place != "" && strings.HasPrefix(common, place) {
		name = common
	}

	return store.TeamLine{
		Abbrev:      extractString(team, "abbrev"),
		Name:        name,
		Score:       extractOptionalInt(team, "score"),
		ShotsOnGoal: firstNonZero(extractInt(team, "sog"), extractInt(team, "shotsOnGoal")),
	}
}

// FetchPlayerCareer fetches a player's career totals.
func (c *Client) FetchPlayerCareer(ctx context.Context, playerID string) (*store.PlayerCareer, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("/player/%s/landing", playerID))
	if err != nil {
		return nil, fmt.Errorf("fetching career for player %s: %w", playerID, err)
	}
	return ParsePlayerCareer(data), nil
}

// ParsePlayerCareer converts a player landing payload. Goalies get goalie
// totals and everyone else skater totals.
func ParsePlayerCareer(data map[string]interface{}) *store.PlayerCareer {
	position := strings.ToUpper(lookupString(data, "position"))
	goalie := position == "G"

	career := &store.PlayerCareer{
		PlayerID: lookupInt(data, "playerId"),
		Name:     fullName(data),
		Position: position,
	}

	totals := extractMap(data, "careerTotals")
	if line, ok := totals["regularSeason"].(map[string]interface{}); ok {
		career.RegularSeason = careerLine(line, goalie)
	}
	if line, ok := totals["playoffs"].(map[string]interface{}); ok {
		career.Playoffs = careerLine(line, goalie)
	}
	return career
}

func careerLine(m map[string]interface{}, goalie bool) *store.CareerLine {
	if goalie {
		return &store.CareerLine{Goalie: parseGoalieTotals(m)}
	}
	return &store.CareerLine{Skater: parseSkaterTotals(m)}
}
