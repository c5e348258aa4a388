// internal/models/game.go
package models

import "github.com/google/uuid"

// Game represents a row in the games table. Only ID, Name and the two
// tie-break ranks participate in ranking; everything else is BGG metadata
// carried for presentation.
type Game struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// BggID is the game's id on boardgamegeek.com, used for detail refreshes.
	BggID *int `json:"bgg_id,omitempty"`

	// BggRank is the worldwide BGG rank. Lower is better; nil means unranked.
	BggRank *int `json:"bgg_rank,omitempty"`

	// NizaGamesRank is the locally curated rank. Lower is better; nil means unranked.
	NizaGamesRank *int `json:"niza_games_rank,omitempty"`

	Genre *string `json:"genre,omitempty"`

	YearPublished *int     `json:"yearpublished,omitempty"`
	BayesAverage  *float64 `json:"bayesaverage,omitempty"`
	UsersRated    *int     `json:"usersrated,omitempty"`
	MinPlayers    *int     `json:"minplayers,omitempty"`
	MaxPlayers    *int     `json:"maxplayers,omitempty"`
	PlayingTime   *int     `json:"playingtime,omitempty"`
	MinPlaytime   *int     `json:"minplaytime,omitempty"`
	MaxPlaytime   *int     `json:"maxplaytime,omitempty"`
	MinAge        *int     `json:"minage,omitempty"`
	Average       *float64 `json:"average,omitempty"`
	NumComments   *int     `json:"numcomments,omitempty"`
	Owned         *int     `json:"owned,omitempty"`
	AverageWeight *float64 `json:"averageweight,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Mechanics  []string `json:"mechanics,omitempty"`
	Designers  []string `json:"designers,omitempty"`
	Publishers []string `json:"publishers,omitempty"`

	Image         string `json:"image,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Description   string `json:"description,omitempty"`
	DescriptionRu string `json:"description_ru,omitempty"`
}

// RankedGame pairs a game with its 1-based position in a final top list.
type RankedGame struct {
	Rank int  `json:"rank"`
	Game Game `json:"game"`
}
