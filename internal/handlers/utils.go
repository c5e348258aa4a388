// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/sizday/board-game-ranker/internal/ranking"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// rankingStatus maps the ranking error taxonomy onto HTTP statuses. All of
// them are rejected operations; only unknown errors become a 500.
func rankingStatus(err error) int {
	var phaseErr *ranking.InvalidPhaseError
	var tierErr *ranking.InvalidTierError
	switch {
	case errors.Is(err, ranking.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ranking.ErrNoRatedGames),
		errors.Is(err, ranking.ErrNoCandidates),
		errors.As(err, &tierErr):
		return http.StatusBadRequest
	case errors.As(err, &phaseErr):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// notFound reports whether a database error means "row does not exist".
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
