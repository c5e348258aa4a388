// internal/ranking/service_test.go
package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizday/board-game-ranker/internal/models"
)

// fakeCatalog serves a fixed per-user game list in a stable order.
type fakeCatalog struct {
	byUser map[uuid.UUID][]models.Game
}

func (f *fakeCatalog) GamesRatedBy(ctx context.Context, userID uuid.UUID) ([]models.Game, error) {
	return f.byUser[userID], nil
}

func (f *fakeCatalog) GamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error) {
	all := make(map[uuid.UUID]models.Game)
	for _, games := range f.byUser {
		for _, g := range games {
			all[g.ID] = g
		}
	}
	out := make(map[uuid.UUID]models.Game, len(ids))
	for _, id := range ids {
		if g, ok := all[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

// failingSaveStore wraps a store and fails every Save, for rollback tests.
type failingSaveStore struct {
	SessionStore
}

func (f *failingSaveStore) Save(ctx context.Context, s *Session) error {
	return errors.New("disk on fire")
}

func setupService(t *testing.T, games []models.Game) (*Service, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	catalog := &fakeCatalog{byUser: map[uuid.UUID][]models.Game{userID: games}}
	return NewService(catalog, NewMemorySessionStore(), nil, nil), userID
}

func namedGames(names ...string) []models.Game {
	games := make([]models.Game, len(names))
	for i, n := range names {
		games[i] = models.Game{ID: uuid.New(), Name: n}
	}
	return games
}

func TestStartSessionNoRatedGames(t *testing.T) {
	svc, userID := setupService(t, nil)

	_, err := svc.StartSession(context.Background(), userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRatedGames))
}

func TestStartSessionReturnsFirstGame(t *testing.T) {
	games := namedGames("first", "second", "third")
	svc, userID := setupService(t, games)

	res, err := svc.StartSession(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, games[0].ID, res.Game.ID)
	assert.Equal(t, 3, res.TotalGames)
	assert.NotEqual(t, uuid.Nil, res.SessionID)
}

func TestAnswerFirstTierUnknownSession(t *testing.T) {
	svc, _ := setupService(t, namedGames("a"))

	_, err := svc.AnswerFirstTier(context.Background(), uuid.New(), uuid.New(), FirstTierGood)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestFullTwoPassWalkthrough(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2", "g3")
	svc, userID := setupService(t, games)

	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	// Phase 1: first two answers yield the next game in order.
	res, err := svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierExcellent)
	require.NoError(t, err)
	assert.Equal(t, PhaseFirstTier, res.Phase)
	require.NotNil(t, res.NextGame)
	assert.Equal(t, games[1].ID, res.NextGame.ID)
	assert.Equal(t, 1, res.Answered)
	assert.Equal(t, 3, res.Total)

	res, err = svc.AnswerFirstTier(ctx, start.SessionID, games[1].ID, FirstTierGood)
	require.NoError(t, err)
	require.NotNil(t, res.NextGame)
	assert.Equal(t, games[2].ID, res.NextGame.ID)

	// Last answer flips the session into the second pass; all three games
	// were judged so all three are candidates.
	res, err = svc.AnswerFirstTier(ctx, start.SessionID, games[2].ID, FirstTierExcellent)
	require.NoError(t, err)
	assert.Equal(t, PhaseSecondTier, res.Phase)
	assert.Equal(t, 3, res.Candidates)
	require.NotNil(t, res.NextGame)
	assert.Equal(t, games[0].ID, res.NextGame.ID)

	// Phase 2.
	res, err = svc.AnswerSecondTier(ctx, start.SessionID, games[0].ID, SecondTierSuperCool)
	require.NoError(t, err)
	assert.Equal(t, PhaseSecondTier, res.Phase)
	assert.Equal(t, 1, res.Answered)

	res, err = svc.AnswerSecondTier(ctx, start.SessionID, games[2].ID, SecondTierCool)
	require.NoError(t, err)

	res, err = svc.AnswerSecondTier(ctx, start.SessionID, games[1].ID, SecondTierExcellent)
	require.NoError(t, err)
	assert.Equal(t, PhaseFinal, res.Phase)
	require.Len(t, res.Top, 3)
	assert.Equal(t, games[0].ID, res.Top[0].Game.ID) // super_cool
	assert.Equal(t, games[1].ID, res.Top[1].Game.ID) // excellent
	assert.Equal(t, games[2].ID, res.Top[2].Game.ID) // cool
	for i, rg := range res.Top {
		assert.Equal(t, i+1, rg.Rank)
	}

	// Sealed: no further judgments in either phase.
	_, err = svc.AnswerSecondTier(ctx, start.SessionID, games[0].ID, SecondTierCool)
	var phaseErr *InvalidPhaseError
	assert.True(t, errors.As(err, &phaseErr))

	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierBad)
	assert.True(t, errors.As(err, &phaseErr))
}

func TestAnswerFirstTierIdempotentResubmission(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2", "g3")
	svc, userID := setupService(t, games)
	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	first, err := svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	require.NoError(t, err)

	// Same judgment again: same next question, progress does not regress.
	again, err := svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	require.NoError(t, err)
	assert.Equal(t, first.NextGame.ID, again.NextGame.ID)
	assert.Equal(t, first.Answered, again.Answered)
}

func TestAnswerFirstTierRelaxedAfterPhaseShift(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2")
	svc, userID := setupService(t, games)
	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	require.NoError(t, err)
	res, err := svc.AnswerFirstTier(ctx, start.SessionID, games[1].ID, FirstTierGood)
	require.NoError(t, err)
	require.Equal(t, PhaseSecondTier, res.Phase)

	// Re-recording an existing phase-1 judgment is tolerated after the
	// shift and answers with the second-pass view.
	res, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierExcellent)
	require.NoError(t, err)
	assert.Equal(t, PhaseSecondTier, res.Phase)
	require.NotNil(t, res.NextGame)
	assert.Equal(t, games[0].ID, res.NextGame.ID)

	// A phase-1 judgment for a game never judged in phase 1 is not.
	stray := uuid.New()
	_, err = svc.AnswerFirstTier(ctx, start.SessionID, stray, FirstTierBad)
	var phaseErr *InvalidPhaseError
	assert.True(t, errors.As(err, &phaseErr))
}

func TestAnswerSecondTierWrongPhase(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2")
	svc, userID := setupService(t, games)
	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	_, err = svc.AnswerSecondTier(ctx, start.SessionID, games[0].ID, SecondTierCool)
	var phaseErr *InvalidPhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, PhaseFirstTier, phaseErr.Phase)
	assert.Equal(t, PhaseSecondTier, phaseErr.Want)
}

func TestFailedSaveLeavesStoredSessionUntouched(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2")
	userID := uuid.New()
	catalog := &fakeCatalog{byUser: map[uuid.UUID][]models.Game{userID: games}}
	store := NewMemorySessionStore()
	svc := NewService(catalog, store, nil, nil)

	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	svc.store = &failingSaveStore{SessionStore: store}
	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	require.Error(t, err)

	stored, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.FirstTiers, "failed save must not leak the judgment")
	assert.Equal(t, PhaseFirstTier, stored.Phase)
	assert.Equal(t, 0, stored.FirstCursor)
}

func TestZeroCandidatesCompletesSession(t *testing.T) {
	// SelectCandidateGameIDs only returns empty when nothing was judged,
	// which the gating prevents; force the path through a session whose
	// game list is empty of judgable entries by clearing judgments at the
	// store level is overkill. Instead drive the real degenerate case:
	// a catalog that forgets the games once the session exists.
	ctx := context.Background()
	games := namedGames("g1")
	userID := uuid.New()
	catalog := &fakeCatalog{byUser: map[uuid.UUID][]models.Game{userID: games}}
	store := NewMemorySessionStore()
	svc := NewService(catalog, store, nil, nil)

	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	// Catalog loses the game; the judged map still references it but the
	// ordered list is empty, so selection yields no candidates.
	catalog.byUser[userID] = nil

	res, err := svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierExcellent)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, res.Phase)
	assert.NotEmpty(t, res.Message)

	stored, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, stored.Phase)

	// Terminal like final.
	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	var phaseErr *InvalidPhaseError
	assert.True(t, errors.As(err, &phaseErr))
}

func TestNoCandidateListRejected(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1")
	userID := uuid.New()
	catalog := &fakeCatalog{byUser: map[uuid.UUID][]models.Game{userID: games}}
	store := NewMemorySessionStore()
	svc := NewService(catalog, store, nil, nil)

	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)

	// Corrupt the stored session into second_tier without candidates.
	sess, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	sess.Phase = PhaseSecondTier
	sess.CandidateIDs = nil
	require.NoError(t, store.Save(ctx, sess))

	_, err = svc.AnswerSecondTier(ctx, start.SessionID, games[0].ID, SecondTierCool)
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestJournalReceivesEvents(t *testing.T) {
	ctx := context.Background()
	games := namedGames("g1", "g2")
	userID := uuid.New()
	catalog := &fakeCatalog{byUser: map[uuid.UUID][]models.Game{userID: games}}

	var events []EventRecord
	journal := journalFunc(func(ctx context.Context, rec EventRecord) error {
		events = append(events, rec)
		return nil
	})
	svc := NewService(catalog, NewMemorySessionStore(), journal, nil)

	start, err := svc.StartSession(ctx, userID)
	require.NoError(t, err)
	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[0].ID, FirstTierGood)
	require.NoError(t, err)
	_, err = svc.AnswerFirstTier(ctx, start.SessionID, games[1].ID, FirstTierGood)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, EventJudgment, events[0].Type)
	assert.Equal(t, EventPhaseShift, events[1].Type)
	assert.Equal(t, start.SessionID, events[0].SessionID)
}

type journalFunc func(ctx context.Context, rec EventRecord) error

func (f journalFunc) Publish(ctx context.Context, rec EventRecord) error { return f(ctx, rec) }
