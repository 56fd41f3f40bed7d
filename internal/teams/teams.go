// Package teams is the static catalog of NHL clubs and the rules for whether
// a club existed during a given season.
package teams

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultTeamID is used when a requested code is unknown and no other
// default was configured.
const DefaultTeamID = "VGK"

// Theme holds a club's display colours. The service only serves them.
type Theme struct {
	Primary         string `json:"primary"`
	OnPrimary       string `json:"onPrimary"`
	Secondary       string `json:"secondary"`
	OnSecondary     string `json:"onSecondary"`
	Background      string `json:"background"`
	Foreground      string `json:"foreground"`
	ForegroundMuted string `json:"foregroundMuted,omitempty"`
}

// Info identifies a club.
type Info struct {
	ID            string `json:"id"`
	City          string `json:"city"`
	Name          string `json:"name"`
	FullName      string `json:"fullName"`
	NHLAbbrev     string `json:"nhlAbbrev"`
	PuckpediaSlug string `json:"puckpediaSlug,omitempty"`
	// InceptionYear is the start year of the club's first season. Zero means
	// no lower bound.
	InceptionYear int `json:"inceptionYear,omitempty"`
	// CessationYear is the start year of the club's last season, nil while
	// the club is active.
	CessationYear *int  `json:"cessationYear,omitempty"`
	Theme         Theme `json:"theme"`
}

// ExistedIn reports whether the club played in the season starting in
// seasonStartYear.
func (t Info) ExistedIn(seasonStartYear int) bool {
	if seasonStartYear < t.InceptionYear {
		return false
	}
	return t.CessationYear == nil || seasonStartYear <= *t.CessationYear
}

// Active reports whether the club has not ceased operating.
func (t Info) Active() bool {
	return t.CessationYear == nil
}

var (
	byID   = indexCatalog()
	sorted = sortCatalog()
)

func indexCatalog() map[string]Info {
	m := make(map[string]Info, len(catalog))
	for _, team := range catalog {
		m[team.ID] = team
	}
	return m
}

func sortCatalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)

	c := collate.New(language.English, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].FullName, out[j].FullName) < 0
	})
	return out
}

// Lookup finds a club by code, case-insensitively.
func Lookup(id string) (Info, bool) {
	team, ok := byID[strings.ToUpper(strings.TrimSpace(id))]
	return team, ok
}

// Resolve returns the club for id, falling back to defaultID and then to
// DefaultTeamID when id is empty or unknown.
func Resolve(id, defaultID string) Info {
	if team, ok := Lookup(id); ok {
		return team
	}
	if team, ok := Lookup(defaultID); ok {
		return team
	}
	return byID[DefaultTeamID]
}

// List returns every club ordered by full name.
func List() []Info {
	out := make([]Info, len(sorted))
	copy(out, sorted)
	return out
}
