package store

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned by cache stores when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// GameState is the coarse lifecycle of a contest.
type GameState string

const (
	GameStateFuture GameState = "future"
	GameStateLive   GameState = "live"
	GameStateFinal  GameState = "final"
)

// GameCategory is the kind of contest. Preseason contests never reach the model.
type GameCategory string

const (
	CategoryUnset   GameCategory = ""
	CategoryRegular GameCategory = "regular"
	CategoryPlayoff GameCategory = "playoff"
	CategoryAllStar GameCategory = "all-star"
)

// Game is one scheduled or played contest seen from the selected team's side.
type Game struct {
	ID             string       `json:"id"`
	Opponent       string       `json:"opponent"`
	OpponentAbbrev string       `json:"opponentAbbrev,omitempty"`
	Date           string       `json:"date"`
	DisplayDate    string       `json:"displayDate"`
	Time           string       `json:"time"`
	StartTimeUTC   string       `json:"startTimeUTC,omitempty"`
	IsHome         bool         `json:"isHome"`
	HomeScore      *int         `json:"homeScore,omitempty"`
	AwayScore      *int         `json:"awayScore,omitempty"`
	State          GameState    `json:"gameState"`
	LastPeriodType string       `json:"lastPeriodType,omitempty"`
	Category       GameCategory `json:"category,omitempty"`
}

// Scores returns the selected team's score and the opponent's. ok is false
// unless both scores are known.
func (g Game) Scores() (team, opponent int, ok bool) {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0, 0, false
	}
	if g.IsHome {
		return *g.HomeScore, *g.AwayScore, true
	}
	return *g.AwayScore, *g.HomeScore, true
}

// SkaterTotals are season counting and rate stats for a skater.
type SkaterTotals struct {
	GamesPlayed       int     `json:"gamesPlayed"`
	Goals             int     `json:"goals"`
	Assists           int     `json:"assists"`
	Points            int     `json:"points"`
	PlusMinus         int     `json:"plusMinus"`
	PowerPlayGoals    int     `json:"powerPlayGoals"`
	PowerPlayPoints   int     `json:"powerPlayPoints"`
	ShorthandedGoals  int     `json:"shorthandedGoals"`
	ShorthandedPoints int     `json:"shorthandedPoints"`
	GameWinningGoals  int     `json:"gameWinningGoals"`
	ShootingPctg      float64 `json:"shootingPctg"`
	AvgShifts         float64 `json:"avgShifts"`
}

// GoalieTotals are season goaltending stats.
type GoalieTotals struct {
	GamesPlayed     int     `json:"gamesPlayed"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	OTLosses        int     `json:"otLosses"`
	SavePctg        float64 `json:"savePctg"`
	GoalsAgainstAvg float64 `json:"goalsAgainstAvg"`
	Shutouts        int     `json:"shutouts"`
	Saves           int     `json:"saves"`
}

// PlayerStat is a leaderboard entry. Exactly one of Skater and Goalie is set
// for real players; placeholder entries carry neither.
type PlayerStat struct {
	Name     string        `json:"name"`
	Value    float64       `json:"value"`
	Position string        `json:"position,omitempty"`
	PlayerID *int          `json:"playerId,omitempty"`
	Skater   *SkaterTotals `json:"skater,omitempty"`
	Goalie   *GoalieTotals `json:"goalie,omitempty"`
}

// RosterPlayer is one roster entry.
type RosterPlayer struct {
	Name      string      `json:"name"`
	Position  string      `json:"position"`
	Number    int         `json:"number"`
	Captaincy string      `json:"captaincy,omitempty"`
	PlayerID  *int        `json:"playerId,omitempty"`
	Stats     *PlayerStat `json:"stats,omitempty"`
}

// StandingsInfo is a team's place in the league table. ConferencePosition 0
// means the team was not found.
type StandingsInfo struct {
	ConferencePosition int  `json:"conferencePosition"`
	IsWildcard         bool `json:"isWildcard"`
	DivisionPosition   int  `json:"divisionPosition"`
	Wins               int  `json:"wins"`
	Losses             int  `json:"losses"`
	OTLosses           int  `json:"otLosses"`
	Points             int  `json:"points"`
}

// Found reports whether the team was located in the standings.
func (s StandingsInfo) Found() bool {
	return s.ConferencePosition > 0
}

// InjuredPlayer is one injury report entry.
type InjuredPlayer struct {
	Name           string `json:"name"`
	DaysOut        int    `json:"daysOut"`
	ExpectedReturn string `json:"expectedReturn,omitempty"`
	Status         string `json:"status,omitempty"`
	InjuryType     string `json:"injuryType,omitempty"`
}

// Record sources.
const (
	RecordSourceOfficial = "official"
	RecordSourceDerived  = "derived"
)

// RecordLine is a regular-season won/lost line. Losses counts regulation
// losses only.
type RecordLine struct {
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	OTLosses    int    `json:"otLosses"`
	Ties        int    `json:"ties,omitempty"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
	Source      string `json:"source"`
}

// PlayoffRecord is a postseason won/lost line.
type PlayoffRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// SeasonSummary holds records derived from the schedule and standings.
type SeasonSummary struct {
	Regular  RecordLine    `json:"regular"`
	Playoff  PlayoffRecord `json:"playoff"`
	Champion bool          `json:"champion"`
}

// TeamStats is everything known about one team in one season.
type TeamStats struct {
	Team             string          `json:"team"`
	Season           string          `json:"season"`
	TeamExisted      bool            `json:"teamExisted"`
	Games            []Game          `json:"games"`
	PointLeaders     []PlayerStat    `json:"pointLeaders"`
	GoalLeaders      []PlayerStat    `json:"goalLeaders"`
	AssistLeaders    []PlayerStat    `json:"assistLeaders"`
	PlusMinusLeaders []PlayerStat    `json:"plusMinusLeaders"`
	AvgShiftsLeaders []PlayerStat    `json:"avgShiftsLeaders"`
	GoalieStats      []PlayerStat    `json:"goalieStats"`
	Injuries         []InjuredPlayer `json:"injuries"`
	Roster           []RosterPlayer  `json:"roster"`
	Standings        StandingsInfo   `json:"standings"`
	Summary          SeasonSummary   `json:"summary"`
}

// EmptyTeamStats returns a TeamStats with every collection present but empty.
func EmptyTeamStats(team, season string) *TeamStats {
	return &TeamStats{
		Team:             team,
		Season:           season,
		Games:            []Game{},
		PointLeaders:     []PlayerStat{},
		GoalLeaders:      []PlayerStat{},
		AssistLeaders:    []PlayerStat{},
		PlusMinusLeaders: []PlayerStat{},
		AvgShiftsLeaders: []PlayerStat{},
		GoalieStats:      []PlayerStat{},
		Injuries:         []InjuredPlayer{},
		Roster:           []RosterPlayer{},
		Summary:          SeasonSummary{Regular: RecordLine{Source: RecordSourceDerived}},
	}
}

// CachedEntry is a stored aggregation result.
type CachedEntry struct {
	Stats      TeamStats `json:"stats"`
	CapturedAt time.Time `json:"capturedAt"`
}

// FreshAt reports whether the entry is younger than ttl at now. An entry
// exactly ttl old is stale.
func (e CachedEntry) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CapturedAt) < ttl
}

// RefreshEvent announces that a team-season entry was re-aggregated.
type RefreshEvent struct {
	Team       string    `json:"team"`
	Season     string    `json:"season"`
	CapturedAt time.Time `json:"capturedAt"`
	Games      int       `json:"games"`
	RunID      string    `json:"runId,omitempty"`
}

// TeamLine is one side of a game detail.
type TeamLine struct {
	Abbrev      string `json:"abbrev"`
	Name        string `json:"name"`
	Score       *int   `json:"score,omitempty"`
	ShotsOnGoal int    `json:"shotsOnGoal"`
}

// GameDetail is a single game's summary.
type GameDetail struct {
	ID             string    `json:"id"`
	State          GameState `json:"gameState"`
	Date           string    `json:"date"`
	DisplayDate    string    `json:"displayDate"`
	Time           string    `json:"time"`
	Venue          string    `json:"venue,omitempty"`
	Period         int       `json:"period,omitempty"`
	LastPeriodType string    `json:"lastPeriodType,omitempty"`
	Home           TeamLine  `json:"home"`
	Away           TeamLine  `json:"away"`
	Landing        bool      `json:"landing"`
	ThreeStars     []string  `json:"threeStars,omitempty"`
}

// CareerLine is a career total for either a skater or a goalie.
type CareerLine struct {
	Skater *SkaterTotals `json:"skater,omitempty"`
	Goalie *GoalieTotals `json:"goalie,omitempty"`
}

// PlayerCareer is a player's career totals.
type PlayerCareer struct {
	PlayerID      int         `json:"playerId"`
	Name          string      `json:"name"`
	Position      string      `json:"position"`
	RegularSeason *CareerLine `json:"regularSeason,omitempty"`
	Playoffs      *CareerLine `json:"playoffs,omitempty"`
}
