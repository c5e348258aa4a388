// internal/translation/translator.go
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Translator converts text between languages. The concrete client is
// injected into the service so tests and alternative backends can swap it;
// there is deliberately no package-level singleton.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// HTTPTranslator speaks the LibreTranslate-compatible JSON API.
type HTTPTranslator struct {
	HTTPClient *http.Client
	Endpoint   string
	APIKey     string
}

// NewHTTPTranslator configures the client from TRANSLATE_URL and
// TRANSLATE_API_KEY. Returns nil when no endpoint is configured, which
// disables translation.
func NewHTTPTranslator() *HTTPTranslator {
	endpoint := os.Getenv("TRANSLATE_URL")
	if endpoint == "" {
		return nil
	}
	return &HTTPTranslator{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		Endpoint:   endpoint,
		APIKey:     os.Getenv("TRANSLATE_API_KEY"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: t.APIKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate service returned %d: %s", resp.StatusCode, body)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	return out.TranslatedText, nil
}
