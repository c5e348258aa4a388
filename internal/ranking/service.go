// internal/ranking/service.go
package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/models"
)

// Service drives ranking sessions through the two-pass elimination flow.
// It owns phase transitions and next-question selection; the pure bucket
// math lives in select.go.
//
// Judgments for the same session id are serialized on a per-session mutex.
// The judgment map write and the cursor advance are not atomic in the
// stored representation, so without the lock two concurrent submissions
// could interleave into a half-updated session.
type Service struct {
	catalog Catalog
	store   SessionStore
	journal Journal
	log     *logrus.Logger

	// TopN is the target size of the final list. Zero means DefaultTopN.
	TopN int

	// Notify, when set, receives every event record after it has been
	// persisted and journaled. Used by the live progress feed.
	Notify func(EventRecord)

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewService wires a ranking service. journal may be nil when no event
// queue is configured.
func NewService(catalog Catalog, store SessionStore, journal Journal, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		catalog: catalog,
		store:   store,
		journal: journal,
		log:     logger,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// StartResult is the response to a session start.
type StartResult struct {
	SessionID  uuid.UUID   `json:"session_id"`
	Game       models.Game `json:"game"`
	TotalGames int         `json:"total_games"`
}

// AnswerResult is the response to a judgment submission. Exactly one of
// the next-question, final-top or terminal-message shapes is populated,
// discriminated by Phase.
type AnswerResult struct {
	Phase      Phase               `json:"phase"`
	NextGame   *models.Game        `json:"next_game,omitempty"`
	Answered   int                 `json:"answered,omitempty"`
	Total      int                 `json:"total,omitempty"`
	Candidates int                 `json:"candidates,omitempty"`
	Top        []models.RankedGame `json:"top,omitempty"`
	Message    string              `json:"message,omitempty"`
}

// StartSession loads the user's rated games and opens a phase-1 session
// over them. Fails with ErrNoRatedGames when the user rated nothing.
func (s *Service) StartSession(ctx context.Context, userID uuid.UUID) (*StartResult, error) {
	games, err := s.catalog.GamesRatedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load rated games: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("start session for user %s: %w", userID, ErrNoRatedGames)
	}

	sess := NewSession(userID, games)
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id":  sess.ID,
		"user_id":     userID,
		"total_games": len(games),
	}).Info("ranking session started")

	return &StartResult{
		SessionID:  sess.ID,
		Game:       games[0],
		TotalGames: len(games),
	}, nil
}

// AnswerFirstTier records a coarse judgment and returns either the next
// unanswered game or the transition out of phase 1.
//
// A submission while the session already advanced to second_tier is
// accepted only when it re-records a judgment the session already has for
// that game; this keeps double-tapped bot buttons harmless. Any other
// out-of-phase call fails with InvalidPhaseError.
func (s *Service) AnswerFirstTier(ctx context.Context, sessionID, gameID uuid.UUID, tier FirstTier) (*AnswerResult, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	if sess.Phase == PhaseSecondTier {
		return s.resubmitFirstTier(ctx, sess, gameID, tier)
	}
	if sess.Phase != PhaseFirstTier {
		return nil, &InvalidPhaseError{SessionID: sessionID, Phase: sess.Phase, Want: PhaseFirstTier}
	}

	work := sess.Clone()
	work.FirstTiers[gameID] = tier
	work.UpdatedAt = time.Now().UTC()

	byID, err := s.catalog.GamesByIDs(ctx, work.GameIDs)
	if err != nil {
		return nil, fmt.Errorf("load session games: %w", err)
	}

	if nextID, ok := work.nextUnjudgedFirst(); ok {
		if err := s.store.Save(ctx, work); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		s.publish(ctx, newEventRecord(work, EventJudgment, gameID, string(tier), len(work.FirstTiers), len(work.GameIDs)))
		return &AnswerResult{
			Phase:    PhaseFirstTier,
			NextGame: gamePtr(byID, nextID),
			Answered: len(work.FirstTiers),
			Total:    len(work.GameIDs),
		}, nil
	}

	// First pass done: promote candidates or finish empty.
	ordered := orderedGames(work.GameIDs, byID)
	candidateIDs := SelectCandidateGameIDs(ordered, work.FirstTiers, s.topN())
	if len(candidateIDs) == 0 {
		work.Phase = PhaseCompleted
		if err := s.store.Save(ctx, work); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		s.publish(ctx, newEventRecord(work, EventPhaseShift, gameID, string(tier), len(work.FirstTiers), len(work.GameIDs)))
		s.log.WithField("session_id", work.ID).Warn("no candidates selected, session completed empty")
		return &AnswerResult{
			Phase:   PhaseCompleted,
			Message: "no candidates could be selected for the top list",
		}, nil
	}

	work.CandidateIDs = candidateIDs
	work.Phase = PhaseSecondTier
	work.SecondCursor = 0
	if err := s.store.Save(ctx, work); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.publish(ctx, newEventRecord(work, EventPhaseShift, gameID, string(tier), 0, len(candidateIDs)))

	s.log.WithFields(logrus.Fields{
		"session_id": work.ID,
		"candidates": len(candidateIDs),
	}).Info("first pass complete, second pass started")

	return &AnswerResult{
		Phase:      PhaseSecondTier,
		NextGame:   gamePtr(byID, candidateIDs[0]),
		Candidates: len(candidateIDs),
	}, nil
}

// AnswerSecondTier records a fine judgment and returns either the next
// unanswered candidate or the final ranked top list.
func (s *Service) AnswerSecondTier(ctx context.Context, sessionID, gameID uuid.UUID, tier SecondTier) (*AnswerResult, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if sess.Phase != PhaseSecondTier {
		return nil, &InvalidPhaseError{SessionID: sessionID, Phase: sess.Phase, Want: PhaseSecondTier}
	}
	if len(sess.CandidateIDs) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNoCandidates)
	}

	work := sess.Clone()
	work.SecondTiers[gameID] = tier
	work.UpdatedAt = time.Now().UTC()

	byID, err := s.catalog.GamesByIDs(ctx, work.CandidateIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate games: %w", err)
	}

	if nextID, ok := work.nextUnjudgedSecond(); ok {
		if err := s.store.Save(ctx, work); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		s.publish(ctx, newEventRecord(work, EventJudgment, gameID, string(tier), len(work.SecondTiers), len(work.CandidateIDs)))
		return &AnswerResult{
			Phase:    PhaseSecondTier,
			NextGame: gamePtr(byID, nextID),
			Answered: len(work.SecondTiers),
			Total:    len(work.CandidateIDs),
		}, nil
	}

	// Second pass done: build the final top and seal the session.
	work.FinalOrder = BuildFinalTopIDs(work.CandidateIDs, work.SecondTiers, s.topN())
	work.Phase = PhaseFinal
	if err := s.store.Save(ctx, work); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	ranked := BuildRankedGames(byID, work.FinalOrder)
	s.publish(ctx, newEventRecord(work, EventFinalTop, gameID, string(tier), len(ranked), len(work.CandidateIDs)))

	s.log.WithFields(logrus.Fields{
		"session_id": work.ID,
		"top_size":   len(ranked),
	}).Info("final top built, session sealed")

	return &AnswerResult{Phase: PhaseFinal, Top: ranked}, nil
}

// resubmitFirstTier handles the documented relaxation: overwriting an
// already-recorded phase-1 judgment after the session moved on. The
// candidate list is never recomputed here.
func (s *Service) resubmitFirstTier(ctx context.Context, sess *Session, gameID uuid.UUID, tier FirstTier) (*AnswerResult, error) {
	if _, ok := sess.FirstTiers[gameID]; !ok {
		return nil, &InvalidPhaseError{SessionID: sess.ID, Phase: sess.Phase, Want: PhaseFirstTier}
	}

	work := sess.Clone()
	work.FirstTiers[gameID] = tier
	work.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, work); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	byID, err := s.catalog.GamesByIDs(ctx, work.CandidateIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate games: %w", err)
	}
	res := &AnswerResult{
		Phase:    PhaseSecondTier,
		Answered: len(work.SecondTiers),
		Total:    len(work.CandidateIDs),
	}
	if nextID, ok := work.nextUnjudgedSecond(); ok {
		res.NextGame = gamePtr(byID, nextID)
	}
	return res, nil
}

// topN returns the effective final list size.
func (s *Service) topN() int {
	if s.TopN > 0 {
		return s.TopN
	}
	return DefaultTopN
}

// sessionLock returns the mutex serializing access to one session id.
// Locks are never reaped; session counts at this scale make that a
// non-issue.
func (s *Service) sessionLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Service) publish(ctx context.Context, rec EventRecord) {
	if s.journal != nil {
		if err := s.journal.Publish(ctx, rec); err != nil {
			s.log.Warnf("journal publish failed for session %s: %v", rec.SessionID, err)
		}
	}
	if s.Notify != nil {
		s.Notify(rec)
	}
}

// orderedGames resolves ids against the lookup preserving order, skipping
// ids the catalog no longer knows.
func orderedGames(ids []uuid.UUID, byID map[uuid.UUID]models.Game) []models.Game {
	out := make([]models.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

func gamePtr(byID map[uuid.UUID]models.Game, id uuid.UUID) *models.Game {
	if g, ok := byID[id]; ok {
		return &g
	}
	return nil
}
