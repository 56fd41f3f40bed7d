package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// RefreshStream is the stream refresh events are appended to.
const RefreshStream = "nhl.teamstats.refreshed"

const defaultMaxLen = 1000

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: RefreshStream,
		maxLen: defaultMaxLen,
	}
}

// Stream returns the stream name events are written to.
func (p *RedisStreamPublisher) Stream() string {
	return p.stream
}

// NotifyRefresh appends event to the refresh stream. The stream is trimmed
// to roughly the newest thousand entries.
func (p *RedisStreamPublisher) NotifyRefresh(ctx context.Context, event store.RefreshEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding refresh event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"team":      event.Team,
			"season":    event.Season,
			"run_id":    event.RunID,
			"data":      string(data),
			"timestamp": event.CapturedAt.Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.stream, err)
	}
	return nil
}
