// internal/translation/service.go
package translation

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/cache"
	"github.com/sizday/board-game-ranker/internal/database"
)

// Service fills in localized game descriptions. Translations are looked up
// in the Redis cache first; misses go to the injected Translator.
//
// Counters are atomic: fetch-bgg requests translate in background
// goroutines, so several translations can be in flight at once.
type Service struct {
	translator Translator
	log        *logrus.Logger

	translated atomic.Int64
	failed     atomic.Int64
}

// NewService builds a translation service. translator may be nil, in which
// case every call is a no-op reporting unavailability.
func NewService(translator Translator, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{translator: translator, log: logger}
}

// Enabled reports whether a translator backend is configured.
func (s *Service) Enabled() bool { return s.translator != nil }

// TranslateToRussian translates English text, returning "" when the text
// is empty or the backend is unavailable.
func (s *Service) TranslateToRussian(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if s.translator == nil {
		s.failed.Add(1)
		s.log.Warn("translation requested but no backend configured")
		return "", nil
	}

	if cached, ok := cache.GetTranslation(ctx, text); ok {
		return cached, nil
	}

	out, err := s.translator.Translate(ctx, text, "en", "ru")
	if err != nil {
		s.failed.Add(1)
		return "", err
	}
	s.translated.Add(1)
	cache.SetTranslation(ctx, text, out)
	return out, nil
}

// TranslateStoredGame translates and stores the localized description of
// one catalog game. Intended to run as a background goroutine after a BGG
// upsert; errors are logged, never surfaced to the originating request.
func (s *Service) TranslateStoredGame(ctx context.Context, id uuid.UUID) {
	g, err := database.GetGameByID(ctx, id)
	if err != nil {
		s.log.Warnf("translation: load game %s: %v", id, err)
		return
	}
	if g.DescriptionRu != "" {
		return
	}
	translated, err := s.TranslateToRussian(ctx, g.Description)
	if err != nil {
		s.log.Warnf("translation: game %s (%s): %v", g.Name, id, err)
		return
	}
	if translated == "" {
		return
	}
	if err := database.SetGameDescriptionRu(ctx, id, translated); err != nil {
		s.log.Warnf("translation: store for game %s: %v", id, err)
	}
}

// FillMissingDescriptions translates up to limit games that have an
// English description but no localized one. Returns how many games were
// updated.
func (s *Service) FillMissingDescriptions(ctx context.Context, limit int) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	games, err := database.GamesMissingTranslation(ctx, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, g := range games {
		translated, err := s.TranslateToRussian(ctx, g.Description)
		if err != nil {
			s.log.Warnf("translation: game %s (%s): %v", g.Name, g.ID, err)
			continue
		}
		if translated == "" {
			continue
		}
		if err := database.SetGameDescriptionRu(ctx, g.ID, translated); err != nil {
			s.log.Warnf("translation: store for game %s: %v", g.ID, err)
			continue
		}
		updated++
	}
	s.log.Infof("translation pass: %d/%d games updated (total ok=%d failed=%d)",
		updated, len(games), s.translated.Load(), s.failed.Load())
	return updated, nil
}
