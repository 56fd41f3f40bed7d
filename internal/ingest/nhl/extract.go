package nhl

import (
	"strconv"
	"strings"
)

// statAliases maps a canonical stat to the field names upstream payloads use
// for it, in preference order.
var statAliases = map[string][]string{
	"gamesPlayed":       {"gamesPlayed", "games"},
	"goals":             {"goals"},
	"assists":           {"assists"},
	"points":            {"points"},
	"plusMinus":         {"plusMinus", "plus_minus", "plusMinusValue"},
	"powerPlayGoals":    {"powerPlayGoals", "ppGoals"},
	"powerPlayPoints":   {"powerPlayPoints", "ppPoints"},
	"shorthandedGoals":  {"shorthandedGoals", "shGoals"},
	"shorthandedPoints": {"shorthandedPoints", "shPoints"},
	"gameWinningGoals":  {"gameWinningGoals", "gwGoals"},
	"shootingPctg":      {"shootingPctg", "shootingPercentage"},
	"avgShifts":         {"avgShiftsPerGame", "avgShiftDuration", "shiftDurationAvg"},
	"wins":              {"wins"},
	"losses":            {"losses"},
	"otLosses":          {"otLosses", "overtimeLosses"},
	"savePctg":          {"savePctg", "savePercentage"},
	"goalsAgainstAvg":   {"goalsAgainstAverage", "goalsAgainstAvg"},
	"shutouts":          {"shutouts"},
	"saves":             {"saves"},
	"playerId":          {"playerId", "id"},
	"sweaterNumber":     {"sweaterNumber", "number", "jerseyNumber", "uniformNumber"},
	"divisionPosition":  {"divisionSequence", "divisionRank"},
}

var stringAliases = map[string][]string{
	"position": {"position", "positionCode", "primaryPosition"},
}

// lookupStat returns the first non-zero numeric value among the aliases of
// field, or 0.
func lookupStat(m map[string]interface{}, field string) float64 {
	names, ok := statAliases[field]
	if !ok {
		names = []string{field}
	}
	for _, name := range names {
		if v, ok := m[name]; ok {
			if f := parseFloat(v); f != 0 {
				return f
			}
		}
	}
	return 0
}

func lookupInt(m map[string]interface{}, field string) int {
	return int(lookupStat(m, field))
}

// lookupString returns the first non-blank string among the aliases of field.
func lookupString(m map[string]interface{}, field string) string {
	names, ok := stringAliases[field]
	if !ok {
		names = []string{field}
	}
	for _, name := range names {
		if s := strings.TrimSpace(localized(m, name)); s != "" {
			return s
		}
	}
	return ""
}

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// localized reads key as either a plain string or a {"default": "..."} object.
func localized(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case map[string]interface{}:
		return extractString(v, "default")
	default:
		return ""
	}
}

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		return parseInt(v)
	}
	return 0
}

// extractOptionalInt returns nil when key is absent or not numeric.
func extractOptionalInt(m map[string]interface{}, key string) *int {
	switch v := m[key].(type) {
	case float64:
		i := int(v)
		return &i
	case int:
		return &v
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// objects returns the object elements of arr, skipping anything else.
func objects(arr []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(val))
		return i
	case int:
		return val
	default:
		return 0
	}
}

func parseFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		return 0
	}
}

func fullName(m map[string]interface{}) string {
	return strings.TrimSpace(localized(m, "firstName") + " " + localized(m, "lastName"))
}
