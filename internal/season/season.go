// Package season identifies NHL seasons. A season is named by the 8-digit
// concatenation of its start and end years, e.g. "20242025".
package season

import (
	"fmt"
	"strconv"
	"time"
)

const (
	idLength = 8

	// openingMonth is the month a new season becomes current.
	openingMonth = time.October

	// DefaultWindow is how many past seasons Available lists by default.
	DefaultWindow = 25
)

// Info describes one season.
type Info struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	StartYear   int    `json:"startYear"`
	EndYear     int    `json:"endYear"`
}

// FromStartYear builds the season beginning in October of startYear.
func FromStartYear(startYear int) Info {
	endYear := startYear + 1
	return Info{
		ID:          fmt.Sprintf("%04d%04d", startYear, endYear),
		DisplayName: fmt.Sprintf("%d-%d", startYear, endYear),
		StartYear:   startYear,
		EndYear:     endYear,
	}
}

// Current returns the season that is active on now's calendar date.
// October through December belong to the season starting that year;
// January through September belong to the one that started the year before.
func Current(now time.Time) Info {
	startYear := now.Year()
	if now.Month() < openingMonth {
		startYear--
	}
	return FromStartYear(startYear)
}

// Available lists the window most recent past seasons followed by the
// current one, oldest first. Seasons that have not begun are never listed.
func Available(window int, now time.Time) []Info {
	if window < 0 {
		window = 0
	}
	current := Current(now)

	seasons := make([]Info, 0, window+1)
	for i := window; i > 0; i-- {
		seasons = append(seasons, FromStartYear(current.StartYear-i))
	}
	return append(seasons, current)
}

// ByID parses an 8-digit season id. Ids of the wrong length, with non-digit
// characters or with non-consecutive years are rejected.
func ByID(id string) (Info, bool) {
	if len(id) != idLength {
		return Info{}, false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return Info{}, false
		}
	}

	startYear, err := strconv.Atoi(id[:4])
	if err != nil {
		return Info{}, false
	}
	endYear, err := strconv.Atoi(id[4:])
	if err != nil || endYear != startYear+1 {
		return Info{}, false
	}
	return FromStartYear(startYear), true
}

// DisplayName formats id as "2024-2025", or returns id unchanged when it is
// not a valid season id.
func DisplayName(id string) string {
	if info, ok := ByID(id); ok {
		return info.DisplayName
	}
	return id
}

// IsCurrent reports whether id names the season active at now.
func IsCurrent(id string, now time.Time) bool {
	return Current(now).ID == id
}

