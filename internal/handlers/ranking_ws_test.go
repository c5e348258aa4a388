// internal/handlers/ranking_ws_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

func testWSServer(t *testing.T) (*httptest.Server, *SessionFeed) {
	t.Helper()
	feed := NewSessionFeed()
	mux := http.NewServeMux()
	mux.Handle("GET /ranking/ws/{session_id}", RankingWSHandler(logrus.New(), feed))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, feed
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestRankingWSRejectsMalformedSessionID(t *testing.T) {
	srv, _ := testWSServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL(srv, "/ranking/ws/not-a-uuid"), &websocket.DialOptions{
		Subprotocols: []string{"ranking"},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	if err == nil {
		t.Fatal("expected the server to close the connection")
	}
	if got := websocket.CloseStatus(err); got != InvalidSessionIDCode {
		t.Fatalf("close status = %v, want %d", got, InvalidSessionIDCode)
	}
}

func TestRankingWSRejectsMissingSubprotocol(t *testing.T) {
	srv, _ := testWSServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL(srv, "/ranking/ws/not-a-uuid"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	if err == nil {
		t.Fatal("expected the server to close the connection")
	}
	if got := websocket.CloseStatus(err); got != BadSubprotocolError {
		t.Fatalf("close status = %v, want %d", got, BadSubprotocolError)
	}
}
