package nhl

import (
	"context"
	"fmt"
)

var rosterPartitions = []string{"forwards", "defensemen", "goalies"}

// FetchRoster fetches a team's season roster. Records come back in partition
// order: forwards, defensemen, goalies.
func (c *Client) FetchRoster(ctx context.Context, abbrev, seasonID string) ([]PlayerRecord, error) {
	data, err := c.fetch(ctx, fmt.Sprintf("/roster/%s/%s", abbrev, seasonID))
	if err != nil {
		return nil, fmt.Errorf("fetching roster for %s %s: %w", abbrev, seasonID, err)
	}
	return ParseRoster(data), nil
}

// ParseRoster flattens a roster payload. Goalie partition entries without a
// position default to G.
func ParseRoster(data map[string]interface{}) []PlayerRecord {
	var players []PlayerRecord
	for _, partition := range rosterPartitions {
		for _, m := range objects(extractArray(data, partition)) {
			record := ParsePlayerRecord(m, partition == "goalies")
			record.Skater, record.Goalie = nil, nil
			if record.PositionRaw == "" && partition == "goalies" {
				record.PositionRaw = "G"
			}
			players = append(players, record)
		}
	}
	return players
}
