// internal/handlers/api_server.go
package handlers

import (
	log "github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/bgg"
	"github.com/sizday/board-game-ranker/internal/ranking"
	"github.com/sizday/board-game-ranker/internal/translation"
)

// APIServer bundles the services the HTTP layer dispatches into. It holds
// no request state of its own; all session state lives behind the ranking
// service and its store.
type APIServer struct {
	Ranking      *ranking.Service
	BGG          *bgg.Client
	Translations *translation.Service
	Feed         *SessionFeed
	Logger       *log.Logger
}

// NewAPIServer wires the server and connects the live progress feed to the
// ranking service's notification hook.
func NewAPIServer(ranker *ranking.Service, bggClient *bgg.Client, translations *translation.Service, logger *log.Logger) *APIServer {
	if logger == nil {
		logger = log.New()
	}
	feed := NewSessionFeed()
	if ranker != nil {
		ranker.Notify = feed.Publish
	}
	return &APIServer{
		Ranking:      ranker,
		BGG:          bggClient,
		Translations: translations,
		Feed:         feed,
		Logger:       logger,
	}
}
