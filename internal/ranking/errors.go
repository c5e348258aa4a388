// internal/ranking/errors.go
package ranking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// All ranking failures are local validation errors surfaced to the caller
// as a rejected operation; none are transient.
var (
	// ErrNoRatedGames means a session cannot start because the user has
	// not rated a single game.
	ErrNoRatedGames = errors.New("user has no rated games")

	// ErrSessionNotFound means the session id is unknown to the store.
	ErrSessionNotFound = errors.New("ranking session not found")

	// ErrNoCandidates means a second-tier answer arrived while the session
	// has no stored candidate list.
	ErrNoCandidates = errors.New("ranking session has no candidate list")
)

// InvalidPhaseError rejects a judgment submitted while the session is in
// the wrong phase.
type InvalidPhaseError struct {
	SessionID uuid.UUID
	Phase     Phase
	Want      Phase
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("session %s is in phase %q, expected %q", e.SessionID, e.Phase, e.Want)
}

// InvalidTierError rejects an unrecognized tier string.
type InvalidTierError struct {
	Value string
	Phase Phase
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid %s tier value %q", e.Phase, e.Value)
}
