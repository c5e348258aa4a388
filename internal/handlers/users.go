// internal/handlers/users.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sizday/board-game-ranker/internal/database"
)

type createUserRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Name       string `json:"name"`
}

// CreateUserHandler registers a user or refreshes the display name of an
// existing one.
func (s *APIServer) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	switch {
	case req.TelegramID == 0:
		writeError(w, http.StatusBadRequest, "telegram_id is required")
		return
	case name == "":
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	case len(name) > 100:
		writeError(w, http.StatusBadRequest, "name too long (100 characters max)")
		return
	}

	user, err := database.GetOrCreateUser(r.Context(), req.TelegramID, name)
	if err != nil {
		s.Logger.Errorf("create user telegram_id=%d: %v", req.TelegramID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UserGamesHandler answers GET /users/{telegram_id}/games with the user's
// rated games, best rank first.
func (s *APIServer) UserGamesHandler(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.PathValue("telegram_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid telegram id")
		return
	}

	user, err := database.GetUserByTelegramID(r.Context(), telegramID)
	if err != nil {
		if notFound(err) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.Logger.Errorf("get user telegram_id=%d: %v", telegramID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	games, err := database.ListUserGames(r.Context(), user.ID)
	if err != nil {
		s.Logger.Errorf("list games for user %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if games == nil {
		games = []database.UserGame{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "games": games})
}
