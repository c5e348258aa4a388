// internal/handlers/bgg_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sizday/board-game-ranker/internal/bgg"
)

const bggSearchXML = `<?xml version="1.0" encoding="utf-8"?>
<items total="1">
	<item type="boardgame" id="13">
		<name type="primary" value="CATAN"/>
		<yearpublished value="1995"/>
	</item>
</items>`

const bggThingXML = `<?xml version="1.0" encoding="utf-8"?>
<items>
	<item type="boardgame" id="13">
		<thumbnail>https://cf.geekdo-images.com/thumb.jpg</thumbnail>
		<image>https://cf.geekdo-images.com/image.jpg</image>
		<name type="primary" sortindex="1" value="CATAN"/>
		<yearpublished value="1995"/>
		<statistics page="1">
			<ratings>
				<usersrated value="108000"/>
				<bayesaverage value="6.9"/>
				<ranks>
					<rank type="subtype" id="1" name="boardgame" value="429"/>
				</ranks>
			</ratings>
		</statistics>
	</item>
</items>`

func testBGGServer(t *testing.T) *APIServer {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(bggSearchXML))
		case strings.HasSuffix(r.URL.Path, "/thing"):
			w.Write([]byte(bggThingXML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	c := bgg.NewClient(nil)
	c.BaseURL = upstream.URL
	c.Delay = time.Millisecond
	return NewAPIServer(nil, c, nil, nil)
}

func TestBGGSearchHandler(t *testing.T) {
	srv := testBGGServer(t)

	req := httptest.NewRequest("GET", "/bgg/search?name=catan", nil)
	w := httptest.NewRecorder()
	srv.BGGSearchHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var res bggSearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(res.Games))
	}
	g := res.Games[0]
	if g.BggID != 13 || g.Name != "CATAN" {
		t.Errorf("game = %+v", g)
	}
	if g.Rank == nil || *g.Rank != 429 {
		t.Errorf("rank = %v", g.Rank)
	}
	if g.BayesAverage == nil || *g.BayesAverage != 6.9 {
		t.Errorf("bayesaverage = %v", g.BayesAverage)
	}
	if g.Image != "https://cf.geekdo-images.com/image.jpg" {
		t.Errorf("image = %q", g.Image)
	}
}

func TestBGGSearchHandlerRequiresName(t *testing.T) {
	srv := testBGGServer(t)

	req := httptest.NewRequest("GET", "/bgg/search", nil)
	w := httptest.NewRecorder()
	srv.BGGSearchHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBGGSearchHandlerUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	c := bgg.NewClient(nil)
	c.BaseURL = upstream.URL
	c.Delay = time.Millisecond
	srv := NewAPIServer(nil, c, nil, nil)

	req := httptest.NewRequest("GET", "/bgg/search?name=catan", nil)
	w := httptest.NewRecorder()
	srv.BGGSearchHandler(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
