// internal/handlers/ranking.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/sizday/board-game-ranker/internal/database"
	"github.com/sizday/board-game-ranker/internal/ranking"
)

type rankingStartRequest struct {
	UserID     uuid.UUID `json:"user_id,omitempty"`
	TelegramID int64     `json:"telegram_id,omitempty"`
}

type rankingAnswerRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	GameID    uuid.UUID `json:"game_id"`
	Tier      string    `json:"tier"`
}

// StartRankingHandler opens a ranking session. The caller identifies the
// user either by internal id or by telegram id.
func (s *APIServer) StartRankingHandler(w http.ResponseWriter, r *http.Request) {
	var req rankingStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request payload")
		return
	}

	userID := req.UserID
	if userID == uuid.Nil {
		if req.TelegramID == 0 {
			writeError(w, http.StatusBadRequest, "user_id or telegram_id is required")
			return
		}
		u, err := database.GetUserByTelegramID(r.Context(), req.TelegramID)
		if err != nil {
			if notFound(err) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			s.Logger.Errorf("lookup user by telegram id: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		userID = u.ID
	}

	res, err := s.Ranking.StartSession(r.Context(), userID)
	if err != nil {
		s.Logger.Warnf("start ranking session: %v", err)
		writeError(w, rankingStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnswerFirstTierHandler records a bad/good/excellent judgment.
func (s *APIServer) AnswerFirstTierHandler(w http.ResponseWriter, r *http.Request) {
	var req rankingAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request payload")
		return
	}
	if req.SessionID == uuid.Nil || req.GameID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "session_id and game_id are required")
		return
	}

	tier, err := ranking.ParseFirstTier(req.Tier)
	if err != nil {
		writeError(w, rankingStatus(err), err.Error())
		return
	}

	res, err := s.Ranking.AnswerFirstTier(r.Context(), req.SessionID, req.GameID, tier)
	if err != nil {
		s.Logger.Warnf("answer first tier: %v", err)
		writeError(w, rankingStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// AnswerSecondTierHandler records a cool/super_cool/excellent judgment.
func (s *APIServer) AnswerSecondTierHandler(w http.ResponseWriter, r *http.Request) {
	var req rankingAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request payload")
		return
	}
	if req.SessionID == uuid.Nil || req.GameID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "session_id and game_id are required")
		return
	}

	tier, err := ranking.ParseSecondTier(req.Tier)
	if err != nil {
		writeError(w, rankingStatus(err), err.Error())
		return
	}

	res, err := s.Ranking.AnswerSecondTier(r.Context(), req.SessionID, req.GameID, tier)
	if err != nil {
		s.Logger.Warnf("answer second tier: %v", err)
		writeError(w, rankingStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
