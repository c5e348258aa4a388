// internal/ranking/select.go
package ranking

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/models"
)

// DefaultTopN is the target size of a final top list.
const DefaultTopN = 50

// SelectCandidateGameIDs narrows the phase-1 game list to at most topN
// candidates for the second pass. Games are partitioned by their first-pass
// tier and the buckets are concatenated best first (excellent, good, bad)
// only as far as needed to fill topN. Within a bucket games are ordered by
// the tie-break chain: curated rank ascending with nils last, then BGG rank
// ascending with nils last, then original list position.
//
// A game without a judgment is never promoted. The function is total: it
// never fails over well-formed input, it just returns fewer ids.
func SelectCandidateGameIDs(games []models.Game, firstTiers map[uuid.UUID]FirstTier, topN int) []uuid.UUID {
	if topN <= 0 {
		topN = DefaultTopN
	}

	buckets := make(map[FirstTier][]models.Game, 3)
	for _, g := range games {
		tier, ok := firstTiers[g.ID]
		if !ok {
			continue
		}
		buckets[tier] = append(buckets[tier], g)
	}

	out := make([]uuid.UUID, 0, topN)
	for _, tier := range firstTierBuckets {
		if len(out) >= topN {
			break
		}
		out = appendBucket(out, buckets[tier], topN)
	}
	return out
}

// BuildFinalTopIDs orders the phase-2 candidates into the final top list.
// Candidates keep the relative order of the candidate list inside each
// bucket, which already encodes the tie-break chain from candidate
// selection; buckets are concatenated best first (super_cool, excellent,
// cool) and truncated to topN.
//
// A candidate without a phase-2 judgment should not exist once the state
// machine gates completion, but if one does it is excluded rather than
// failing the whole session.
func BuildFinalTopIDs(candidateIDs []uuid.UUID, secondTiers map[uuid.UUID]SecondTier, topN int) []uuid.UUID {
	if topN <= 0 {
		topN = DefaultTopN
	}

	buckets := make(map[SecondTier][]uuid.UUID, 3)
	for _, id := range candidateIDs {
		tier, ok := secondTiers[id]
		if !ok {
			continue
		}
		buckets[tier] = append(buckets[tier], id)
	}

	out := make([]uuid.UUID, 0, topN)
	for _, tier := range secondTierBuckets {
		for _, id := range buckets[tier] {
			if len(out) >= topN {
				return out
			}
			out = append(out, id)
		}
	}
	return out
}

// BuildRankedGames resolves a final id order into 1-based ranked games,
// skipping ids missing from the lookup.
func BuildRankedGames(byID map[uuid.UUID]models.Game, finalOrder []uuid.UUID) []models.RankedGame {
	ranked := make([]models.RankedGame, 0, len(finalOrder))
	for _, id := range finalOrder {
		g, ok := byID[id]
		if !ok {
			continue
		}
		ranked = append(ranked, models.RankedGame{Rank: len(ranked) + 1, Game: g})
	}
	return ranked
}

// appendBucket sorts one tier bucket by the tie-break chain and appends it
// to out up to the topN limit. The sort is stable, so games that tie on
// both ranks keep their original list order.
func appendBucket(out []uuid.UUID, bucket []models.Game, topN int) []uuid.UUID {
	sorted := append([]models.Game(nil), bucket...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := compareRankPtr(sorted[i].NizaGamesRank, sorted[j].NizaGamesRank); c != 0 {
			return c < 0
		}
		return compareRankPtr(sorted[i].BggRank, sorted[j].BggRank) < 0
	})
	for _, g := range sorted {
		if len(out) >= topN {
			break
		}
		out = append(out, g.ID)
	}
	return out
}

// compareRankPtr orders two optional ranks ascending with nils last.
func compareRankPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
