// internal/database/schema.go
package database

import (
	"context"
	"fmt"
)

// Schema is applied idempotently at startup. Ranking session state lives
// in typed columns and a judgments table rather than JSON blobs, so shape
// drift fails loudly at the persistence boundary.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	telegram_id BIGINT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	bgg_id INT,
	bgg_rank INT,
	niza_games_rank INT,
	genre TEXT,
	yearpublished INT,
	bayesaverage DOUBLE PRECISION,
	usersrated INT,
	minplayers INT,
	maxplayers INT,
	playingtime INT,
	minplaytime INT,
	maxplaytime INT,
	minage INT,
	average DOUBLE PRECISION,
	numcomments INT,
	owned INT,
	averageweight DOUBLE PRECISION,
	categories TEXT[],
	mechanics TEXT[],
	designers TEXT[],
	publishers TEXT[],
	image TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	description_ru TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS games_bgg_id_idx ON games (bgg_id);
CREATE INDEX IF NOT EXISTS games_name_idx ON games (lower(name));

CREATE TABLE IF NOT EXISTS ratings (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	game_id UUID NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	rank INT NOT NULL,
	UNIQUE (user_id, game_id)
);

CREATE TABLE IF NOT EXISTS ranking_sessions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	phase TEXT NOT NULL,
	game_ids UUID[] NOT NULL,
	candidate_ids UUID[],
	final_order UUID[],
	first_cursor INT NOT NULL DEFAULT 0,
	second_cursor INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ranking_judgments (
	session_id UUID NOT NULL REFERENCES ranking_sessions (id) ON DELETE CASCADE,
	phase TEXT NOT NULL,
	game_id UUID NOT NULL,
	tier TEXT NOT NULL,
	PRIMARY KEY (session_id, phase, game_id)
);
`

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context) error {
	if _, err := DB.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
