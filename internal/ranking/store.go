// internal/ranking/store.go
package ranking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/models"
)

// Catalog is the read-only game view the ranking core consumes. Order
// returned by GamesRatedBy must be stable across calls for the same data;
// it becomes the phase-1 walk order and the last tie-break fallback.
type Catalog interface {
	GamesRatedBy(ctx context.Context, userID uuid.UUID) ([]models.Game, error)
	GamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error)
}

// SessionStore is opaque session persistence. Get on an unknown id must
// return ErrSessionNotFound (possibly wrapped).
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// MemorySessionStore keeps sessions in a mutex-guarded map. It stores and
// hands out clones, so callers get value semantics like a real database.
// Used in tests and as a single-process fallback when no database is
// configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *MemorySessionStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MemorySessionStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}
