// internal/handlers/ranking_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/middleware"
	"github.com/sizday/board-game-ranker/internal/ranking"
)

// Custom close codes for the progress feed.
const (
	BadSubprotocolError  = 3000 // Client connected with an unsupported subprotocol.
	InvalidSessionIDCode = 3001 // Session id in the WS URL was malformed.
)

// RankingWSHandler streams session progress events to observers. The
// socket is write-only from the server's perspective; judgments still go
// through the regular POST endpoints.
func RankingWSHandler(logger *logrus.Logger, feed *SessionFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"ranking"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "ranking" {
			c.Close(BadSubprotocolError, "client must speak the ranking subprotocol")
			return
		}

		sessionID, err := uuid.Parse(r.PathValue("session_id"))
		if err != nil {
			c.Close(InvalidSessionIDCode, "invalid session_id")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		events, cancel := feed.Subscribe(sessionID)
		defer cancel()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, ctx.Err())
				c.Close(websocket.StatusNormalClosure, "client gone")
				return
			case rec, ok := <-events:
				if !ok {
					c.Close(websocket.StatusNormalClosure, "feed closed")
					return
				}
				data, err := json.Marshal(rec)
				if err != nil {
					logger.Warnf("marshal feed event for session %s: %v", sessionID, err)
					continue
				}
				writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
				err = c.Write(writeCtx, websocket.MessageText, data)
				cancelWrite()
				if err != nil {
					middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
					return
				}
				// A sealed session produces no further events.
				if rec.Type == ranking.EventFinalTop {
					c.Close(websocket.StatusNormalClosure, "session sealed")
					return
				}
			}
		}
	}
}
