package service

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// Normalized position codes.
const (
	PositionCenter    = "C"
	PositionLeftWing  = "LW"
	PositionRightWing = "RW"
	PositionDefense   = "D"
	PositionGoalie    = "G"
	PositionForward   = "F"
)

var positionSynonyms = map[string]string{
	"LW":         PositionLeftWing,
	"LEFT WING":  PositionLeftWing,
	"L":          PositionLeftWing,
	"RW":         PositionRightWing,
	"RIGHT WING": PositionRightWing,
	"R":          PositionRightWing,
	"C":          PositionCenter,
	"CENTER":     PositionCenter,
	"CENTRE":     PositionCenter,
	"D":          PositionDefense,
	"DEF":        PositionDefense,
	"DEFENSE":    PositionDefense,
	"DEFENCE":    PositionDefense,
	"DEFENCEMAN": PositionDefense,
	"DEFENSEMAN": PositionDefense,
	"G":          PositionGoalie,
	"GOALIE":     PositionGoalie,
	"GOALTENDER": PositionGoalie,
	"F":          PositionForward,
	"FORWARD":    PositionForward,
}

var positionRank = map[string]int{
	PositionCenter:    1,
	PositionRightWing: 2,
	PositionLeftWing:  3,
	PositionDefense:   4,
	PositionGoalie:    5,
}

// NormalizePosition maps an upstream position label onto the fixed
// vocabulary. Unrecognized labels become F.
func NormalizePosition(raw string) string {
	if pos, ok := positionSynonyms[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return pos
	}
	return PositionForward
}

func rankOf(position string) int {
	if rank, ok := positionRank[position]; ok {
		return rank
	}
	return 6
}

// BuildRoster builds the team roster. The dedicated roster records are used
// when present; otherwise the roster is built from the stats payload. Entries
// are deduplicated by name, first occurrence winning, and each is matched to
// its season stats by exact name.
func BuildRoster(roster []nhl.PlayerRecord, stats *nhl.PlayerStatsPayload) []store.RosterPlayer {
	var skaters, goalies []nhl.PlayerRecord
	if stats != nil {
		skaters, goalies = stats.Skaters, stats.Goalies
	}

	source := roster
	if len(source) == 0 {
		source = make([]nhl.PlayerRecord, 0, len(skaters)+len(goalies))
		source = append(source, skaters...)
		for _, g := range goalies {
			if g.PositionRaw == "" {
				g.PositionRaw = PositionGoalie
			}
			source = append(source, g)
		}
	}

	lookup := statsIndex(skaters, goalies)
	seen := make(map[string]bool, len(source))
	players := make([]store.RosterPlayer, 0, len(source))

	for _, r := range source {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true

		player := store.RosterPlayer{
			Name:      r.Name,
			Position:  NormalizePosition(r.PositionRaw),
			Number:    r.Number,
			Captaincy: captaincy(r.Captaincy),
			PlayerID:  r.PlayerID,
		}
		if match, ok := lookup[r.Name]; ok {
			stat := statFor(match, player.Position)
			switch {
			case match.Skater != nil:
				stat.Value = float64(match.Skater.Points)
			case match.Goalie != nil:
				stat.Value = round(match.Goalie.SavePctg, 3)
			}
			player.Stats = &stat
			if player.PlayerID == nil {
				player.PlayerID = match.PlayerID
			}
		}
		players = append(players, player)
	}

	sortRoster(players)
	return players
}

// statsIndex maps names to stats records. Skaters win over goalies sharing a
// name.
func statsIndex(skaters, goalies []nhl.PlayerRecord) map[string]nhl.PlayerRecord {
	index := make(map[string]nhl.PlayerRecord, len(skaters)+len(goalies))
	for _, group := range [][]nhl.PlayerRecord{skaters, goalies} {
		for _, r := range group {
			if _, ok := index[r.Name]; !ok {
				index[r.Name] = r
			}
		}
	}
	return index
}

func captaincy(raw string) string {
	switch c := strings.ToUpper(strings.TrimSpace(raw)); c {
	case "C", "A":
		return c
	default:
		return ""
	}
}

func sortRoster(players []store.RosterPlayer) {
	c := collate.New(language.English, collate.Loose)
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := rankOf(players[i].Position), rankOf(players[j].Position)
		if ri != rj {
			return ri < rj
		}
		return c.CompareString(players[i].Name, players[j].Name) < 0
	})
}
