// internal/cache/journal.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sizday/board-game-ranker/internal/ranking"
)

// DefaultQueueName is the Redis list holding ranking session events.
var DefaultQueueName = "ranking_events"

// Journal pushes session event records onto a Redis list for offline
// consumers (history, analytics). Implements ranking.Journal.
type Journal struct{}

// Publish serializes the record to JSON and RPushes it. This only costs a
// quick network send on the judgment path.
func (Journal) Publish(ctx context.Context, rec ranking.EventRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis not connected")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal event record: %w", err)
	}
	queueName := getEnv("RANKING_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", queueName, err)
	}
	return nil
}
