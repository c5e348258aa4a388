// internal/handlers/feed.go
package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/ranking"
)

// SessionFeed fans ranking events out to live observers of a session.
// Subscribers get a buffered channel; a slow consumer drops events rather
// than stalling the judgment path.
type SessionFeed struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan ranking.EventRecord]struct{}
}

func NewSessionFeed() *SessionFeed {
	return &SessionFeed{
		subs: make(map[uuid.UUID]map[chan ranking.EventRecord]struct{}),
	}
}

// Subscribe registers an observer for one session id. The returned cancel
// func unregisters and closes the channel; call it exactly once.
func (f *SessionFeed) Subscribe(sessionID uuid.UUID) (<-chan ranking.EventRecord, func()) {
	ch := make(chan ranking.EventRecord, 16)

	f.mu.Lock()
	set, ok := f.subs[sessionID]
	if !ok {
		set = make(map[chan ranking.EventRecord]struct{})
		f.subs[sessionID] = set
	}
	set[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[sessionID]; ok {
			if _, subscribed := set[ch]; subscribed {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, sessionID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every observer of its session.
func (f *SessionFeed) Publish(rec ranking.EventRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[rec.SessionID] {
		select {
		case ch <- rec:
		default:
		}
	}
}
