package models

import "github.com/google/uuid"

// Rating is one user's numeric rank for one game, as imported from the
// shared spreadsheet. Lower rank means the user placed the game higher.
type Rating struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	GameID uuid.UUID `json:"game_id"`
	Rank   int       `json:"rank"`
}
