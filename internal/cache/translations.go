// internal/cache/translations.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Translated texts change only when the source text changes, so cache
// entries are keyed by a hash of the source and kept for a month.
const translationTTL = 30 * 24 * time.Hour

func translationKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "translation:" + hex.EncodeToString(sum[:])
}

// GetTranslation returns a cached translation, or "" false on miss or
// when Redis is not connected.
func GetTranslation(ctx context.Context, text string) (string, bool) {
	if Rdb == nil {
		return "", false
	}
	val, err := Rdb.Get(ctx, translationKey(text)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetTranslation stores a translation; errors are ignored, the cache is
// best effort.
func SetTranslation(ctx context.Context, text, translated string) {
	if Rdb == nil {
		return
	}
	Rdb.Set(ctx, translationKey(text), translated, translationTTL)
}
