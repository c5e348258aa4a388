// internal/ranking/session.go
package ranking

import (
	"time"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/models"
)

// Phase is the lifecycle state of a ranking session. Transitions are
// linear: first_tier -> second_tier -> final. The degenerate zero-candidate
// outcome lands in completed, which is terminal like final.
type Phase string

const (
	PhaseFirstTier  Phase = "first_tier"
	PhaseSecondTier Phase = "second_tier"
	PhaseFinal      Phase = "final"
	PhaseCompleted  Phase = "completed"
)

// Terminal reports whether the phase accepts no further judgments.
func (p Phase) Terminal() bool {
	return p == PhaseFinal || p == PhaseCompleted
}

// Session is one user's in-progress or finished ranking run.
//
// GameIDs is fixed at creation and is the phase-1 walk order.
// CandidateIDs is computed once when phase 1 completes and is the phase-2
// walk order. FirstCursor/SecondCursor are resume optimizations: the lowest
// index not yet known to be answered. Completion is always rechecked
// against the judgment maps, never inferred from a cursor.
type Session struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Phase  Phase     `json:"phase"`

	GameIDs      []uuid.UUID `json:"game_ids"`
	CandidateIDs []uuid.UUID `json:"candidate_ids,omitempty"`
	FinalOrder   []uuid.UUID `json:"final_order,omitempty"`

	FirstTiers  map[uuid.UUID]FirstTier  `json:"first_tiers"`
	SecondTiers map[uuid.UUID]SecondTier `json:"second_tiers"`

	FirstCursor  int `json:"first_cursor"`
	SecondCursor int `json:"second_cursor"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a phase-1 session over the given game order.
func NewSession(userID uuid.UUID, games []models.Game) *Session {
	ids := make([]uuid.UUID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.New(),
		UserID:      userID,
		Phase:       PhaseFirstTier,
		GameIDs:     ids,
		FirstTiers:  make(map[uuid.UUID]FirstTier),
		SecondTiers: make(map[uuid.UUID]SecondTier),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone deep-copies the session. The service mutates a clone and only
// swaps it in after a successful save, so a failed persist never leaves a
// half-updated session visible.
func (s *Session) Clone() *Session {
	cp := *s
	cp.GameIDs = append([]uuid.UUID(nil), s.GameIDs...)
	cp.CandidateIDs = append([]uuid.UUID(nil), s.CandidateIDs...)
	cp.FinalOrder = append([]uuid.UUID(nil), s.FinalOrder...)
	cp.FirstTiers = make(map[uuid.UUID]FirstTier, len(s.FirstTiers))
	for k, v := range s.FirstTiers {
		cp.FirstTiers[k] = v
	}
	cp.SecondTiers = make(map[uuid.UUID]SecondTier, len(s.SecondTiers))
	for k, v := range s.SecondTiers {
		cp.SecondTiers[k] = v
	}
	return &cp
}

// nextUnjudgedFirst scans the phase-1 order from the cursor for the first
// game without a recorded judgment, advancing the cursor on a hit.
func (s *Session) nextUnjudgedFirst() (uuid.UUID, bool) {
	for idx := s.FirstCursor; idx < len(s.GameIDs); idx++ {
		if _, ok := s.FirstTiers[s.GameIDs[idx]]; !ok {
			s.FirstCursor = idx
			return s.GameIDs[idx], true
		}
	}
	return uuid.Nil, false
}

// nextUnjudgedSecond is the phase-2 counterpart over the candidate list.
func (s *Session) nextUnjudgedSecond() (uuid.UUID, bool) {
	for idx := s.SecondCursor; idx < len(s.CandidateIDs); idx++ {
		if _, ok := s.SecondTiers[s.CandidateIDs[idx]]; !ok {
			s.SecondCursor = idx
			return s.CandidateIDs[idx], true
		}
	}
	return uuid.Nil, false
}
