// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sizday/board-game-ranker/internal/models"
)

const gameColumns = `id, name, bgg_id, bgg_rank, niza_games_rank, genre,
	yearpublished, bayesaverage, usersrated, minplayers, maxplayers,
	playingtime, minplaytime, maxplaytime, minage, average, numcomments,
	owned, averageweight, categories, mechanics, designers, publishers,
	image, thumbnail, description, description_ru`

func scanGame(row pgx.Row) (models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID, &g.Name, &g.BggID, &g.BggRank, &g.NizaGamesRank, &g.Genre,
		&g.YearPublished, &g.BayesAverage, &g.UsersRated, &g.MinPlayers, &g.MaxPlayers,
		&g.PlayingTime, &g.MinPlaytime, &g.MaxPlaytime, &g.MinAge, &g.Average, &g.NumComments,
		&g.Owned, &g.AverageWeight, &g.Categories, &g.Mechanics, &g.Designers, &g.Publishers,
		&g.Image, &g.Thumbnail, &g.Description, &g.DescriptionRu,
	)
	return g, err
}

func collectGames(rows pgx.Rows) ([]models.Game, error) {
	defer rows.Close()
	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GamesRatedBy returns every game the user rated, ordered by game id so
// the sequence is stable across calls. This order is the phase-1 walk
// order of a ranking session.
func GamesRatedBy(ctx context.Context, userID uuid.UUID) ([]models.Game, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM games g
		JOIN ratings r ON r.game_id = g.id
		WHERE r.user_id = $1
		ORDER BY g.id
	`, gameColumnsPrefixed("g"))
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query rated games: %w", err)
	}
	return collectGames(rows)
}

// GamesByIDs resolves an arbitrary id subset into a lookup map. Unknown
// ids are simply absent from the result.
func GamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Game{}, nil
	}
	q := fmt.Sprintf(`SELECT %s FROM games WHERE id = ANY($1)`, gameColumns)
	rows, err := DB.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query games by ids: %w", err)
	}
	games, err := collectGames(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Game, len(games))
	for _, g := range games {
		out[g.ID] = g
	}
	return out, nil
}

// GetGameByID returns pgx.ErrNoRows for unknown ids.
func GetGameByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	q := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)
	g, err := scanGame(DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// SearchGames finds games by name, case-insensitively; exact matches the
// whole name, otherwise substring.
func SearchGames(ctx context.Context, name string, exact bool, limit int) ([]models.Game, error) {
	if limit <= 0 {
		limit = 5
	}
	var q string
	arg := name
	if exact {
		q = fmt.Sprintf(`SELECT %s FROM games WHERE lower(name) = lower($1) ORDER BY name LIMIT $2`, gameColumns)
	} else {
		q = fmt.Sprintf(`SELECT %s FROM games WHERE name ILIKE $1 ORDER BY name LIMIT $2`, gameColumns)
		arg = "%" + name + "%"
	}
	rows, err := DB.Query(ctx, q, arg, limit)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return collectGames(rows)
}

// UpsertGameByBggID inserts or refreshes a game keyed by its BGG id,
// filling g.ID with the row id. Local curation fields (niza_games_rank,
// genre, description_ru) are never overwritten by a BGG refresh.
func UpsertGameByBggID(ctx context.Context, g *models.Game) error {
	if g.BggID == nil {
		return fmt.Errorf("upsert game %q: missing bgg_id", g.Name)
	}
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var existing uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM games WHERE bgg_id = $1`, *g.BggID).Scan(&existing)
		switch {
		case err == pgx.ErrNoRows:
			g.ID = uuid.New()
			_, err = tx.Exec(ctx, `
				INSERT INTO games (id, name, bgg_id, bgg_rank, yearpublished, bayesaverage,
					usersrated, minplayers, maxplayers, playingtime, minplaytime, maxplaytime,
					minage, average, numcomments, owned, averageweight,
					categories, mechanics, designers, publishers,
					image, thumbnail, description)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
			`,
				g.ID, g.Name, g.BggID, g.BggRank, g.YearPublished, g.BayesAverage,
				g.UsersRated, g.MinPlayers, g.MaxPlayers, g.PlayingTime, g.MinPlaytime, g.MaxPlaytime,
				g.MinAge, g.Average, g.NumComments, g.Owned, g.AverageWeight,
				g.Categories, g.Mechanics, g.Designers, g.Publishers,
				g.Image, g.Thumbnail, g.Description,
			)
			return err
		case err != nil:
			return err
		}

		g.ID = existing
		_, err = tx.Exec(ctx, `
			UPDATE games SET name=$2, bgg_rank=$3, yearpublished=$4, bayesaverage=$5,
				usersrated=$6, minplayers=$7, maxplayers=$8, playingtime=$9, minplaytime=$10,
				maxplaytime=$11, minage=$12, average=$13, numcomments=$14, owned=$15,
				averageweight=$16, categories=$17, mechanics=$18, designers=$19, publishers=$20,
				image=$21, thumbnail=$22, description=$23, updated_at=now()
			WHERE id=$1
		`,
			g.ID, g.Name, g.BggRank, g.YearPublished, g.BayesAverage,
			g.UsersRated, g.MinPlayers, g.MaxPlayers, g.PlayingTime, g.MinPlaytime,
			g.MaxPlaytime, g.MinAge, g.Average, g.NumComments, g.Owned,
			g.AverageWeight, g.Categories, g.Mechanics, g.Designers, g.Publishers,
			g.Image, g.Thumbnail, g.Description,
		)
		return err
	})
}

// GamesMissingTranslation lists games that have an English description but
// no localized one yet.
func GamesMissingTranslation(ctx context.Context, limit int) ([]models.Game, error) {
	if limit <= 0 {
		limit = 20
	}
	q := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE description <> '' AND description_ru = ''
		ORDER BY updated_at
		LIMIT $1
	`, gameColumns)
	rows, err := DB.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query untranslated games: %w", err)
	}
	return collectGames(rows)
}

// SetGameDescriptionRu stores a translated description.
func SetGameDescriptionRu(ctx context.Context, id uuid.UUID, text string) error {
	_, err := DB.Exec(ctx, `UPDATE games SET description_ru=$2, updated_at=now() WHERE id=$1`, id, text)
	return err
}

// gameColumnsPrefixed qualifies the shared column list with a table alias.
func gameColumnsPrefixed(alias string) string {
	return alias + ".id, " + alias + ".name, " + alias + ".bgg_id, " + alias + ".bgg_rank, " +
		alias + ".niza_games_rank, " + alias + ".genre, " + alias + ".yearpublished, " +
		alias + ".bayesaverage, " + alias + ".usersrated, " + alias + ".minplayers, " +
		alias + ".maxplayers, " + alias + ".playingtime, " + alias + ".minplaytime, " +
		alias + ".maxplaytime, " + alias + ".minage, " + alias + ".average, " +
		alias + ".numcomments, " + alias + ".owned, " + alias + ".averageweight, " +
		alias + ".categories, " + alias + ".mechanics, " + alias + ".designers, " +
		alias + ".publishers, " + alias + ".image, " + alias + ".thumbnail, " +
		alias + ".description, " + alias + ".description_ru"
}

// Catalog adapts the package-level query functions to the ranking core's
// read-only game view.
type Catalog struct{}

func (Catalog) GamesRatedBy(ctx context.Context, userID uuid.UUID) ([]models.Game, error) {
	return GamesRatedBy(ctx, userID)
}

func (Catalog) GamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Game, error) {
	return GamesByIDs(ctx, ids)
}
