// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/bgg"
	"github.com/sizday/board-game-ranker/internal/cache"
	"github.com/sizday/board-game-ranker/internal/database"
	"github.com/sizday/board-game-ranker/internal/handlers"
	"github.com/sizday/board-game-ranker/internal/middleware"
	"github.com/sizday/board-game-ranker/internal/ranking"
	"github.com/sizday/board-game-ranker/internal/translation"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	database.ConnectDB()
	defer database.Close()
	if err := database.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	// Redis is optional: without it the event journal and translation
	// cache silently degrade to no-ops.
	var journal ranking.Journal
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, event journal disabled: %v", err)
	} else {
		journal = cache.Journal{}
	}

	ranker := ranking.NewService(database.Catalog{}, database.SessionStore{}, journal, logger)

	var translator translation.Translator
	if ht := translation.NewHTTPTranslator(); ht != nil {
		translator = ht
	}
	translations := translation.NewService(translator, logger)

	// Periodically backfill Russian descriptions for games imported
	// before a translator was configured.
	if translations.Enabled() {
		go func() {
			for {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
				if _, err := translations.FillMissingDescriptions(ctx, 50); err != nil {
					logger.Warnf("translation fill pass: %v", err)
				}
				cancel()
				time.Sleep(time.Hour)
			}
		}()
	}

	srv := handlers.NewAPIServer(ranker, bgg.NewClient(logger), translations, logger)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	// ranking endpoints
	mux.Handle("POST /ranking/start", logged(http.HandlerFunc(srv.StartRankingHandler)))
	mux.Handle("POST /ranking/answer-first", logged(http.HandlerFunc(srv.AnswerFirstTierHandler)))
	mux.Handle("POST /ranking/answer-second", logged(http.HandlerFunc(srv.AnswerSecondTierHandler)))
	mux.Handle("GET /ranking/ws/{session_id}", handlers.RankingWSHandler(logger, srv.Feed))

	// game catalog endpoints
	mux.Handle("GET /games/search", logged(http.HandlerFunc(srv.SearchGamesHandler)))
	mux.Handle("GET /games/{id}", logged(http.HandlerFunc(srv.GetGameHandler)))
	mux.Handle("POST /games/fetch-bgg", logged(http.HandlerFunc(srv.FetchBGGHandler)))
	mux.Handle("GET /bgg/search", logged(http.HandlerFunc(srv.BGGSearchHandler)))
	mux.Handle("POST /import-table", logged(http.HandlerFunc(srv.ImportTableHandler)))

	// user endpoints
	mux.Handle("POST /users", logged(http.HandlerFunc(srv.CreateUserHandler)))
	mux.Handle("GET /users/{telegram_id}/games", logged(http.HandlerFunc(srv.UserGamesHandler)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
