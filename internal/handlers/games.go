// internal/handlers/games.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/database"
	"github.com/sizday/board-game-ranker/internal/models"
)

// SearchGamesHandler answers GET /games/search?name=&exact=&limit= from
// the local catalog.
func (s *APIServer) SearchGamesHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	exact := r.URL.Query().Get("exact") == "true"
	limit := 5
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil {
			limit = v
		}
	}

	games, err := database.SearchGames(r.Context(), name, exact, limit)
	if err != nil {
		s.Logger.Errorf("search games %q: %v", name, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// GetGameHandler answers GET /games/{id}.
func (s *APIServer) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	game, err := database.GetGameByID(r.Context(), id)
	if err != nil {
		if notFound(err) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		s.Logger.Errorf("get game %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

type fetchBGGRequest struct {
	BggID int `json:"bgg_id"`
}

// FetchBGGHandler pulls full detail for one game from BGG, upserts it into
// the catalog and kicks off a background description translation.
func (s *APIServer) FetchBGGHandler(w http.ResponseWriter, r *http.Request) {
	var req fetchBGGRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BggID <= 0 {
		writeError(w, http.StatusBadRequest, "bgg_id is required")
		return
	}

	detail, err := s.BGG.Thing(r.Context(), req.BggID)
	if err != nil {
		s.Logger.Warnf("fetch bgg %d: %v", req.BggID, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	game := detail.Game()
	if err := database.UpsertGameByBggID(r.Context(), &game); err != nil {
		s.Logger.Errorf("upsert bgg game %d: %v", req.BggID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if s.Translations != nil && s.Translations.Enabled() {
		gameID := game.ID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			s.Translations.TranslateStoredGame(ctx, gameID)
		}()
	}

	writeJSON(w, http.StatusOK, game)
}

type importTableRequest struct {
	Rows []database.ImportRow `json:"rows"`
}

type importTableResponse struct {
	Status        string `json:"status"`
	GamesImported int    `json:"games_imported"`
}

// ImportTableHandler replaces all ratings from already-parsed spreadsheet
// rows.
func (s *APIServer) ImportTableHandler(w http.ResponseWriter, r *http.Request) {
	var req importTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request payload")
		return
	}

	imported, err := database.ImportTable(r.Context(), req.Rows)
	if err != nil {
		s.Logger.Errorf("import table: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, importTableResponse{Status: "ok", GamesImported: imported})
}
