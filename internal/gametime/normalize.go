// Package gametime converts upstream date and time values into the league's
// local calendar day and wall-clock time.
//
// Three input encodings are accepted: bare "YYYY-MM-DD" dates, compact
// "YYYYMMDD" dates and full timestamps carrying an explicit UTC offset.
// Nothing in this package returns an error: unusable input yields the
// UnknownDate / UnknownTime sentinels.
package gametime

import (
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
)

const (
	// LeagueTimeZone is the zone every canonical date and time is expressed in.
	LeagueTimeZone = "America/Los_Angeles"

	// UnknownDate is returned for empty or unparseable date input.
	UnknownDate = "Date TBD"
	// UnknownTime is returned when no clock time can be derived.
	UnknownTime = "TBD"

	canonicalDateLayout = "2006-01-02"
	longDisplayLayout   = "Monday, January 2, 2006"
	shortDisplayLayout  = "Jan 2, 2006"
	clockLayout         = "3:04 PM"
)

// Format selects the human display form produced by FormatDate.
type Format int

const (
	// FormatLong renders "Wednesday, December 10, 2025".
	FormatLong Format = iota
	// FormatShort renders "Dec 10, 2025".
	FormatShort
)

var (
	bareDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactDatePattern = regexp.MustCompile(`^\d{8}$`)

	// Upstream feeds sometimes drop the seconds: "2025-11-15T01:00Z".
	timestampLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
	}
)

// Normalizer converts values into a fixed league-local timezone.
type Normalizer struct {
	loc *time.Location
}

// New returns a Normalizer bound to loc. A nil loc means UTC.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// NewForZone loads the named IANA zone. An empty name selects LeagueTimeZone.
func NewForZone(name string) (*Normalizer, error) {
	if strings.TrimSpace(name) == "" {
		name = LeagueTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return New(loc), nil
}

// Default returns a Normalizer for LeagueTimeZone.
func Default() *Normalizer {
	n, err := NewForZone(LeagueTimeZone)
	if err != nil {
		// tzdata is embedded, so this only happens with a corrupt build
		return New(time.FixedZone("PST", -8*60*60))
	}
	return n
}

// Location returns the league-local zone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now returns the current instant from clock expressed in league-local time.
func (n *Normalizer) Now(clock clockwork.Clock) time.Time {
	return clock.Now().In(n.loc)
}

// FormatDate renders raw as a long or short display date.
//
// Bare and compact dates are shifted one day forward before formatting (see
// correctUpstreamBareDate). Timestamps are converted to league-local time.
func (n *Normalizer) FormatDate(raw string, format Format) string {
	layout := longDisplayLayout
	if format == FormatShort {
		layout = shortDisplayLayout
	}

	if day, ok := parseBareDate(raw); ok {
		return correctUpstreamBareDate(day).Format(layout)
	}

	instant, ok := parseTimestamp(raw)
	if !ok {
		return UnknownDate
	}
	return instant.In(n.loc).Format(layout)
}

// LocalDate returns the league-local calendar day of raw as "YYYY-MM-DD".
//
// Bare and compact dates already name a league-local day and are returned
// as-is (normalized to the bare form) without any correction.
func (n *Normalizer) LocalDate(raw string) string {
	if day, ok := parseBareDate(raw); ok {
		return day.Format(canonicalDateLayout)
	}

	instant, ok := parseTimestamp(raw)
	if !ok {
		return UnknownDate
	}
	return instant.In(n.loc).Format(canonicalDateLayout)
}

// LocalTime returns the league-local 12-hour clock time of raw, e.g. "7:00 PM".
// Date-only values carry no clock component and yield UnknownTime.
func (n *Normalizer) LocalTime(raw string) string {
	instant, ok := parseTimestamp(raw)
	if !ok {
		return UnknownTime
	}
	return instant.In(n.loc).Format(clockLayout)
}

// correctUpstreamBareDate compensates for schedule feeds whose bare dates land
// one day early once read as UTC midnight. Only display formatting of bare
// and compact dates goes through here; remove it if the feed format changes.
func correctUpstreamBareDate(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// parseBareDate accepts "YYYY-MM-DD" and "YYYYMMDD" and returns the day at
// midnight UTC.
func parseBareDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if compactDatePattern.MatchString(value) {
		value = value[:4] + "-" + value[4:6] + "-" + value[6:]
	}
	if !bareDatePattern.MatchString(value) {
		return time.Time{}, false
	}
	day, err := time.Parse(canonicalDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func parseTimestamp(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if instant, err := time.Parse(layout, value); err == nil {
			return instant, true
		}
	}
	return time.Time{}, false
}
