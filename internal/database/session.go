// internal/database/session.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sizday/board-game-ranker/internal/ranking"
)

// SessionStore persists ranking sessions in typed columns: ordered id
// lists as uuid arrays, judgments as rows in ranking_judgments. Tier
// strings are re-parsed on load so a corrupted row fails here instead of
// inside the state machine.
type SessionStore struct{}

func (SessionStore) Create(ctx context.Context, s *ranking.Session) error {
	q := `
		INSERT INTO ranking_sessions
			(id, user_id, phase, game_ids, candidate_ids, final_order,
			 first_cursor, second_cursor, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			s.ID, s.UserID, string(s.Phase), s.GameIDs, s.CandidateIDs, s.FinalOrder,
			s.FirstCursor, s.SecondCursor, s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return insertJudgments(ctx, tx, s)
	})
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

func (SessionStore) Get(ctx context.Context, id uuid.UUID) (*ranking.Session, error) {
	var s ranking.Session
	var phase string
	q := `
		SELECT id, user_id, phase, game_ids, candidate_ids, final_order,
		       first_cursor, second_cursor, created_at, updated_at
		FROM ranking_sessions
		WHERE id = $1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.UserID, &phase, &s.GameIDs, &s.CandidateIDs, &s.FinalOrder,
		&s.FirstCursor, &s.SecondCursor, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, ranking.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select session %s: %w", id, err)
	}
	s.Phase = ranking.Phase(phase)

	s.FirstTiers = make(map[uuid.UUID]ranking.FirstTier)
	s.SecondTiers = make(map[uuid.UUID]ranking.SecondTier)
	rows, err := DB.Query(ctx,
		`SELECT phase, game_id, tier FROM ranking_judgments WHERE session_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("select judgments for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var jPhase, tier string
		var gameID uuid.UUID
		if err := rows.Scan(&jPhase, &gameID, &tier); err != nil {
			return nil, err
		}
		switch ranking.Phase(jPhase) {
		case ranking.PhaseFirstTier:
			t, err := ranking.ParseFirstTier(tier)
			if err != nil {
				return nil, fmt.Errorf("session %s game %s: %w", id, gameID, err)
			}
			s.FirstTiers[gameID] = t
		case ranking.PhaseSecondTier:
			t, err := ranking.ParseSecondTier(tier)
			if err != nil {
				return nil, fmt.Errorf("session %s game %s: %w", id, gameID, err)
			}
			s.SecondTiers[gameID] = t
		default:
			return nil, fmt.Errorf("session %s: judgment row with phase %q", id, jPhase)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save rewrites the session row and its judgments in one transaction, so
// a concurrent reader sees either the pre- or post-judgment state.
func (SessionStore) Save(ctx context.Context, s *ranking.Session) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE ranking_sessions
			SET phase=$2, candidate_ids=$3, final_order=$4,
			    first_cursor=$5, second_cursor=$6, updated_at=$7
			WHERE id=$1
		`, s.ID, string(s.Phase), s.CandidateIDs, s.FinalOrder,
			s.FirstCursor, s.SecondCursor, s.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ranking.ErrSessionNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM ranking_judgments WHERE session_id=$1`, s.ID); err != nil {
			return err
		}
		return insertJudgments(ctx, tx, s)
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func insertJudgments(ctx context.Context, tx pgx.Tx, s *ranking.Session) error {
	q := `INSERT INTO ranking_judgments (session_id, phase, game_id, tier) VALUES ($1,$2,$3,$4)`
	for gameID, tier := range s.FirstTiers {
		if _, err := tx.Exec(ctx, q, s.ID, string(ranking.PhaseFirstTier), gameID, string(tier)); err != nil {
			return err
		}
	}
	for gameID, tier := range s.SecondTiers {
		if _, err := tx.Exec(ctx, q, s.ID, string(ranking.PhaseSecondTier), gameID, string(tier)); err != nil {
			return err
		}
	}
	return nil
}
