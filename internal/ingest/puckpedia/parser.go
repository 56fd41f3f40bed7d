package puckpedia

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const (
	// DefaultDaysOut is used when a report carries no usable return date.
	DefaultDaysOut = 7

	unknownPlayer      = "Unknown"
	playerLinkSelector = `a[href*="/player/"]`
	returnMarker       = "Expected Return"
	maxAncestorLevels  = 3
)

var (
	// ErrNoPlayers means the page had no player links at all, which usually
	// signals a blocked or challenge page.
	ErrNoPlayers = errors.New("no player entries in injury page")

	// The status code is matched case-insensitively; the injury type only as
	// upper-case words so that following prose is not swallowed.
	statusPattern = regexp.MustCompile(`(?i:\b(OUT|IR-LT|IR-NR|LTIR|IR|SUSPENSION))\s*\|\s*([A-Z]+(?:[\s/-]+[A-Z]+)*)\b`)
	returnPattern = regexp.MustCompile(`(?i)Expected Return:\s*([A-Za-z]+\.?\s+\d{1,2},\s+\d{4})`)

	returnDateLayouts = []string{"Jan 2, 2006", "January 2, 2006", "Jan. 2, 2006"}
)

// ParseInjuryMarkup extracts injury entries from an injuries page. today
// anchors the days-out computation and supplies the location return dates
// are read in.
func ParseInjuryMarkup(html string, today time.Time) ([]store.InjuredPlayer, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := doc.Find(playerLinkSelector)
	if links.Length() == 0 {
		return nil, ErrNoPlayers
	}

	injuries := []store.InjuredPlayer{}
	seen := make(map[string]bool)

	links.Each(func(_ int, link *goquery.Selection) {
		name := collapseSpace(link.Text())
		if name == "" || seen[name] {
			return
		}

		surrounding := injuryContext(link)
		if surrounding == "" {
			return
		}

		entry := store.InjuredPlayer{Name: name, DaysOut: DefaultDaysOut}

		if m := statusPattern.FindStringSubmatch(surrounding); m != nil {
			entry.Status = strings.ToUpper(strings.TrimSpace(m[1]))
			entry.InjuryType = collapseSpace(m[2])
		}

		if m := returnPattern.FindStringSubmatch(surrounding); m != nil {
			entry.ExpectedReturn = collapseSpace(m[1])
			if ret, ok := parseReturnDate(entry.ExpectedReturn, today.Location()); ok {
				entry.DaysOut = DaysUntil(ret, today)
			}
		}

		if entry.Status == "" && entry.ExpectedReturn == "" {
			return
		}

		seen[name] = true
		injuries = append(injuries, entry)
	})

	return injuries, nil
}

// injuryContext returns the text of the nearest ancestor, up to three levels
// above link, that mentions an expected return. When none does, the text of
// the highest visited ancestor is used. The walk never climbs into an
// ancestor that holds other player entries.
func injuryContext(link *goquery.Selection) string {
	var text string
	node := link.Parent()
	for i := 0; i < maxAncestorLevels && node.Length() > 0; i++ {
		if text != "" && node.Find(playerLinkSelector).Length() > 1 {
			break
		}
		text = spacedText(node)
		if strings.Contains(text, returnMarker) {
			break
		}
		node = node.Parent()
	}
	return text
}

// spacedText joins the text nodes under s with single spaces so adjacent
// elements do not run together.
func spacedText(s *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				if t := strings.TrimSpace(child.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(child)
		})
	}
	walk(s)
	return collapseSpace(strings.Join(parts, " "))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseReturnDate(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range returnDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns the whole days from today until ret, rounded up, never
// less than one.
func DaysUntil(ret, today time.Time) int {
	days := int(math.Ceil(ret.Sub(today).Hours() / 24))
	return max(1, days)
}

// ParseInjuryFeed decodes the JSON injuries endpoint. It accepts a top-level
// array or an object holding the array under "injuries" or "data".
func ParseInjuryFeed(body []byte) ([]store.InjuredPlayer, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding injury feed: %w", err)
	}

	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		if arr, ok := v["injuries"].([]interface{}); ok {
			items = arr
		} else if arr, ok := v["data"].([]interface{}); ok {
			items = arr
		} else {
			return nil, errors.New("injury feed has no injuries array")
		}
	default:
		return nil, errors.New("unexpected injury feed shape")
	}

	injuries := make([]store.InjuredPlayer, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		daysOut := intValue(m["daysOut"])
		if daysOut == 0 {
			daysOut = DefaultDaysOut
		}

		injuries = append(injuries, store.InjuredPlayer{
			Name:           firstString(m, "playerName", "name", unknownPlayer),
			DaysOut:        daysOut,
			ExpectedReturn: firstString(m, "expectedReturn", "returnDate", ""),
			Status:         firstString(m, "status", "", ""),
			InjuryType:     firstString(m, "injuryType", "injury", ""),
		})
	}
	return injuries, nil
}

// firstString returns m[primary], else m[secondary], else def.
func firstString(m map[string]interface{}, primary, secondary, def string) string {
	for _, key := range []string{primary, secondary} {
		if key == "" {
			continue
		}
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return def
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
