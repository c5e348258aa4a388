// internal/bgg/client.go
package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sizday/board-game-ranker/internal/models"
)

// DefaultBaseURL is the BGG XML API v2 root.
const DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"

// Client talks to the BGG XML API v2. BGG rate-limits aggressively and
// occasionally answers 200 with an empty body or 202 while a request is
// queued, so every call retries with a growing pause.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Retries    int
	Delay      time.Duration

	log *logrus.Logger
}

// NewClient configures a client from the environment: BGG_BEARER_TOKEN
// (required for authorized endpoints) and BGG_REQUEST_DELAY seconds
// between retries (default 2).
func NewClient(logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	delay := 2 * time.Second
	if s := os.Getenv("BGG_REQUEST_DELAY"); s != "" {
		if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
			delay = time.Duration(secs * float64(time.Second))
		}
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    DefaultBaseURL,
		Token:      os.Getenv("BGG_BEARER_TOKEN"),
		Retries:    3,
		Delay:      delay,
		log:        logger,
	}
}

// SearchResult is one hit from the search endpoint.
type SearchResult struct {
	BggID         int    `json:"bgg_id"`
	Name          string `json:"name"`
	YearPublished *int   `json:"yearpublished,omitempty"`
}

// Search finds board games by name. exact restricts to whole-name matches.
func (c *Client) Search(ctx context.Context, name string, exact bool) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("type", "boardgame")
	if exact {
		params.Set("exact", "1")
	} else {
		params.Set("exact", "0")
	}

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, fmt.Errorf("bgg search %q: %w", name, err)
	}

	var doc searchDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("bgg search %q: parse response: %w", name, err)
	}

	results := make([]SearchResult, 0, len(doc.Items))
	for _, item := range doc.Items {
		r := SearchResult{BggID: item.ID, Name: item.Name.Value}
		if item.YearPublished != nil {
			year := item.YearPublished.Value
			r.YearPublished = &year
		}
		results = append(results, r)
	}
	c.log.Infof("bgg search %q: %d results", name, len(results))
	return results, nil
}

// Thing fetches full game detail including statistics.
func (c *Client) Thing(ctx context.Context, bggID int) (*GameDetail, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(bggID))
	params.Set("type", "boardgame")
	params.Set("stats", "1")

	body, err := c.get(ctx, "/thing", params)
	if err != nil {
		return nil, fmt.Errorf("bgg thing %d: %w", bggID, err)
	}

	var doc thingDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("bgg thing %d: parse response: %w", bggID, err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("bgg thing %d: no such game", bggID)
	}
	detail := doc.Items[0].toDetail()
	return &detail, nil
}

// get performs one GET with the retry loop.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.BaseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.Retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Delay * time.Duration(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warnf("bgg request attempt %d/%d failed: %v", attempt, c.Retries, err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusAccepted:
			// BGG queued the request; poll again.
			lastErr = fmt.Errorf("bgg queued request (202)")
			continue
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("bgg returned status %d", resp.StatusCode)
			c.log.Warnf("bgg request attempt %d/%d: status %d", attempt, c.Retries, resp.StatusCode)
			continue
		case len(body) == 0:
			lastErr = fmt.Errorf("bgg returned empty body")
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.Retries, lastErr)
}

// GameDetail is the normalized thing payload.
type GameDetail struct {
	BggID         int
	Name          string
	YearPublished *int
	MinPlayers    *int
	MaxPlayers    *int
	PlayingTime   *int
	MinPlaytime   *int
	MaxPlaytime   *int
	MinAge        *int
	Rank          *int
	Average       *float64
	BayesAverage  *float64
	UsersRated    *int
	NumComments   *int
	Owned         *int
	AverageWeight *float64
	Categories    []string
	Mechanics     []string
	Designers     []string
	Publishers    []string
	Image         string
	Thumbnail     string
	Description   string
}

// Game converts the detail into a catalog game record (without an id).
func (d *GameDetail) Game() models.Game {
	bggID := d.BggID
	return models.Game{
		Name:          d.Name,
		BggID:         &bggID,
		BggRank:       d.Rank,
		YearPublished: d.YearPublished,
		BayesAverage:  d.BayesAverage,
		UsersRated:    d.UsersRated,
		MinPlayers:    d.MinPlayers,
		MaxPlayers:    d.MaxPlayers,
		PlayingTime:   d.PlayingTime,
		MinPlaytime:   d.MinPlaytime,
		MaxPlaytime:   d.MaxPlaytime,
		MinAge:        d.MinAge,
		Average:       d.Average,
		NumComments:   d.NumComments,
		Owned:         d.Owned,
		AverageWeight: d.AverageWeight,
		Categories:    d.Categories,
		Mechanics:     d.Mechanics,
		Designers:     d.Designers,
		Publishers:    d.Publishers,
		Image:         d.Image,
		Thumbnail:     d.Thumbnail,
		Description:   d.Description,
	}
}
