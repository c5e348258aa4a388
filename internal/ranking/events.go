// internal/ranking/events.go
package ranking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types pushed to the session journal and to live progress feeds.
const (
	EventJudgment   = "judgment"
	EventPhaseShift = "phase_shift"
	EventFinalTop   = "final_top"
)

// EventRecord is the journal entry for one session mutation. The journal
// consumer (history queue, live feed) only needs this minimal shape.
type EventRecord struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Phase     Phase     `json:"phase"`
	GameID    uuid.UUID `json:"game_id,omitempty"`
	Tier      string    `json:"tier,omitempty"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
	Timestamp int64     `json:"timestamp"`
}

// Journal receives event records after a session mutation has been
// persisted. Publish failures are logged by the service and never fail the
// originating judgment.
type Journal interface {
	Publish(ctx context.Context, rec EventRecord) error
}

func newEventRecord(s *Session, evType string, gameID uuid.UUID, tier string, answered, total int) EventRecord {
	return EventRecord{
		SessionID: s.ID,
		UserID:    s.UserID,
		Type:      evType,
		Phase:     s.Phase,
		GameID:    gameID,
		Tier:      tier,
		Answered:  answered,
		Total:     total,
		Timestamp: time.Now().Unix(),
	}
}
