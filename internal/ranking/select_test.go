// internal/ranking/select_test.go
package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizday/board-game-ranker/internal/models"
)

func intPtr(v int) *int { return &v }

func testGame(name string, niza, bgg *int) models.Game {
	return models.Game{ID: uuid.New(), Name: name, NizaGamesRank: niza, BggRank: bgg}
}

func idsOf(games ...models.Game) []uuid.UUID {
	ids := make([]uuid.UUID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

func TestSelectCandidatesAllExcellent(t *testing.T) {
	// Three games all judged excellent with top_n 50: all promoted.
	games := []models.Game{testGame("a", nil, nil), testGame("b", nil, nil), testGame("c", nil, nil)}
	tiers := map[uuid.UUID]FirstTier{}
	for _, g := range games {
		tiers[g.ID] = FirstTierExcellent
	}

	got := SelectCandidateGameIDs(games, tiers, 50)
	assert.Equal(t, idsOf(games...), got)
}

func TestSelectCandidatesTieBreakByCuratedRank(t *testing.T) {
	// G1 rank 5, G2 rank 2, G3 no rank, all "good": order G2, G1, G3.
	g1 := testGame("g1", intPtr(5), nil)
	g2 := testGame("g2", intPtr(2), nil)
	g3 := testGame("g3", nil, nil)
	tiers := map[uuid.UUID]FirstTier{
		g1.ID: FirstTierGood, g2.ID: FirstTierGood, g3.ID: FirstTierGood,
	}

	got := SelectCandidateGameIDs([]models.Game{g1, g2, g3}, tiers, 50)
	assert.Equal(t, idsOf(g2, g1, g3), got)
}

func TestSelectCandidatesLowTierBackfills(t *testing.T) {
	// Twenty games all judged "bad", top_n 10: the bad bucket alone fills
	// the list, in tie-break order.
	games := make([]models.Game, 20)
	tiers := map[uuid.UUID]FirstTier{}
	for i := range games {
		games[i] = testGame("game", intPtr(20-i), nil)
		tiers[games[i].ID] = FirstTierBad
	}

	got := SelectCandidateGameIDs(games, tiers, 10)
	require.Len(t, got, 10)
	// Curated rank ascends 1..20 over the reversed slice.
	for i, id := range got {
		assert.Equal(t, games[19-i].ID, id, "position %d", i)
	}
}

func TestSelectCandidatesHigherTierFirst(t *testing.T) {
	exc := testGame("exc", intPtr(30), nil)
	good := testGame("good", intPtr(1), nil)
	bad := testGame("bad", intPtr(2), nil)
	tiers := map[uuid.UUID]FirstTier{
		exc.ID: FirstTierExcellent, good.ID: FirstTierGood, bad.ID: FirstTierBad,
	}

	got := SelectCandidateGameIDs([]models.Game{bad, good, exc}, tiers, 50)
	assert.Equal(t, idsOf(exc, good, bad), got)
}

func TestSelectCandidatesWorldRankBreaksCuratedTie(t *testing.T) {
	// Identical curated rank: the lower world rank sorts first; when both
	// ranks are nil, original list order is preserved.
	a := testGame("a", intPtr(1), intPtr(900))
	b := testGame("b", intPtr(1), intPtr(10))
	c := testGame("c", nil, nil)
	d := testGame("d", nil, nil)
	tiers := map[uuid.UUID]FirstTier{
		a.ID: FirstTierGood, b.ID: FirstTierGood, c.ID: FirstTierGood, d.ID: FirstTierGood,
	}

	got := SelectCandidateGameIDs([]models.Game{a, b, c, d}, tiers, 50)
	assert.Equal(t, idsOf(b, a, c, d), got)
}

func TestSelectCandidatesUnjudgedNeverPromoted(t *testing.T) {
	judged := testGame("judged", nil, nil)
	unjudged := testGame("unjudged", intPtr(1), nil)
	tiers := map[uuid.UUID]FirstTier{judged.ID: FirstTierBad}

	got := SelectCandidateGameIDs([]models.Game{unjudged, judged}, tiers, 50)
	assert.Equal(t, idsOf(judged), got)
}

func TestSelectCandidatesEmptyJudgments(t *testing.T) {
	games := []models.Game{testGame("a", nil, nil)}
	got := SelectCandidateGameIDs(games, map[uuid.UUID]FirstTier{}, 50)
	assert.Empty(t, got)
}

func TestSelectCandidatesNeverExceedsTopN(t *testing.T) {
	games := make([]models.Game, 120)
	tiers := map[uuid.UUID]FirstTier{}
	for i := range games {
		games[i] = testGame("g", nil, nil)
		tiers[games[i].ID] = FirstTierExcellent
	}
	got := SelectCandidateGameIDs(games, tiers, 0) // zero falls back to DefaultTopN
	assert.Len(t, got, DefaultTopN)
}

func TestBuildFinalTopSingleBucketKeepsCandidateOrder(t *testing.T) {
	// Every candidate super_cool: final order equals candidate order.
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	tiers := map[uuid.UUID]SecondTier{}
	for _, id := range ids {
		tiers[id] = SecondTierSuperCool
	}

	got := BuildFinalTopIDs(ids, tiers, 50)
	assert.Equal(t, ids, got)
}

func TestBuildFinalTopBucketOrdering(t *testing.T) {
	// super_cool outranks excellent outranks cool on the second pass.
	cool, exc, super := uuid.New(), uuid.New(), uuid.New()
	tiers := map[uuid.UUID]SecondTier{
		cool:  SecondTierCool,
		exc:   SecondTierExcellent,
		super: SecondTierSuperCool,
	}

	got := BuildFinalTopIDs([]uuid.UUID{cool, exc, super}, tiers, 50)
	assert.Equal(t, []uuid.UUID{super, exc, cool}, got)
}

func TestBuildFinalTopExcludesUnjudged(t *testing.T) {
	judged, stray := uuid.New(), uuid.New()
	tiers := map[uuid.UUID]SecondTier{judged: SecondTierCool}

	got := BuildFinalTopIDs([]uuid.UUID{stray, judged}, tiers, 50)
	assert.Equal(t, []uuid.UUID{judged}, got)
}

func TestBuildFinalTopTruncates(t *testing.T) {
	ids := make([]uuid.UUID, 10)
	tiers := map[uuid.UUID]SecondTier{}
	for i := range ids {
		ids[i] = uuid.New()
		tiers[ids[i]] = SecondTierExcellent
	}

	got := BuildFinalTopIDs(ids, tiers, 4)
	require.Len(t, got, 4)
	assert.Equal(t, ids[:4], got)
}

func TestBuildRankedGamesSkipsMissing(t *testing.T) {
	g := testGame("known", nil, nil)
	byID := map[uuid.UUID]models.Game{g.ID: g}

	ranked := BuildRankedGames(byID, []uuid.UUID{uuid.New(), g.ID})
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, g.ID, ranked[0].Game.ID)
}
