// internal/database/user.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/models"
)

// GetOrCreateUser upserts a user keyed by telegram id, refreshing the
// display name on every registration.
func GetOrCreateUser(ctx context.Context, telegramID int64, name string) (*models.User, error) {
	var u models.User
	q := `
		INSERT INTO users (id, name, telegram_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id)
		DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id, name, telegram_id
	`
	err := DB.QueryRow(ctx, q, uuid.New(), name, telegramID).Scan(&u.ID, &u.Name, &u.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("upsert user telegram_id=%d: %w", telegramID, err)
	}
	return &u, nil
}

// GetUserByTelegramID returns pgx.ErrNoRows for unknown ids.
func GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	q := `SELECT id, name, telegram_id FROM users WHERE telegram_id = $1`
	if err := DB.QueryRow(ctx, q, telegramID).Scan(&u.ID, &u.Name, &u.TelegramID); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserGame is one entry of a user's rated-game listing.
type UserGame struct {
	Game models.Game `json:"game"`
	Rank int         `json:"rank"`
}

// ListUserGames returns the user's rated games with their numeric ranks,
// best rank first.
func ListUserGames(ctx context.Context, userID uuid.UUID) ([]UserGame, error) {
	q := fmt.Sprintf(`
		SELECT %s, r.rank
		FROM games g
		JOIN ratings r ON r.game_id = g.id
		WHERE r.user_id = $1
		ORDER BY r.rank
	`, gameColumnsPrefixed("g"))
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query user games: %w", err)
	}
	defer rows.Close()

	var out []UserGame
	for rows.Next() {
		var ug UserGame
		g := &ug.Game
		err := rows.Scan(
			&g.ID, &g.Name, &g.BggID, &g.BggRank, &g.NizaGamesRank, &g.Genre,
			&g.YearPublished, &g.BayesAverage, &g.UsersRated, &g.MinPlayers, &g.MaxPlayers,
			&g.PlayingTime, &g.MinPlaytime, &g.MaxPlaytime, &g.MinAge, &g.Average, &g.NumComments,
			&g.Owned, &g.AverageWeight, &g.Categories, &g.Mechanics, &g.Designers, &g.Publishers,
			&g.Image, &g.Thumbnail, &g.Description, &g.DescriptionRu,
			&ug.Rank,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, ug)
	}
	return out, rows.Err()
}
