// internal/database/import.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// ImportRow is one already-parsed row of the shared ranking spreadsheet.
// Ratings are keyed by telegram id; users must have registered through
// the bot before their column can be attached, unknown ids are skipped.
type ImportRow struct {
	Name          string        `json:"name"`
	BggID         *int          `json:"bgg_id,omitempty"`
	NizaGamesRank *int          `json:"niza_games_rank,omitempty"`
	Genre         *string       `json:"genre,omitempty"`
	Ratings       map[int64]int `json:"ratings,omitempty"`
}

// ImportTable replaces all ratings with the table contents. Games are
// matched by name and created when missing; existing games keep their BGG
// metadata and only have the locally curated fields refreshed. The whole
// import is one transaction.
func ImportTable(ctx context.Context, rows []ImportRow) (int, error) {
	userIDs, err := usersByTelegramID(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		// Ratings are rebuilt wholesale so the table stays the source of truth.
		if _, err := tx.Exec(ctx, `DELETE FROM ratings`); err != nil {
			return err
		}

		for _, row := range rows {
			if row.Name == "" {
				continue
			}
			gameID, err := findOrCreateGameTx(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("import row %q: %w", row.Name, err)
			}
			imported++

			for telegramID, rank := range row.Ratings {
				userID, ok := userIDs[telegramID]
				if !ok {
					log.Warnf("import: skipping rating for unregistered telegram id %d (game %q)", telegramID, row.Name)
					continue
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO ratings (id, user_id, game_id, rank)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT (user_id, game_id) DO UPDATE SET rank = EXCLUDED.rank
				`, uuid.New(), userID, gameID, rank)
				if err != nil {
					return fmt.Errorf("import rating for %q: %w", row.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

func findOrCreateGameTx(ctx context.Context, tx pgx.Tx, row ImportRow) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM games WHERE name = $1`, row.Name).Scan(&id)
	switch {
	case err == pgx.ErrNoRows:
		id = uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO games (id, name, bgg_id, niza_games_rank, genre)
			VALUES ($1, $2, $3, $4, $5)
		`, id, row.Name, row.BggID, row.NizaGamesRank, row.Genre)
		return id, err
	case err != nil:
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE games SET niza_games_rank=$2, genre=$3, updated_at=now() WHERE id=$1
	`, id, row.NizaGamesRank, row.Genre)
	return id, err
}

func usersByTelegramID(ctx context.Context) (map[int64]uuid.UUID, error) {
	rows, err := DB.Query(ctx, `SELECT telegram_id, id FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]uuid.UUID)
	for rows.Next() {
		var tg int64
		var id uuid.UUID
		if err := rows.Scan(&tg, &id); err != nil {
			return nil, err
		}
		out[tg] = id
	}
	return out, rows.Err()
}
