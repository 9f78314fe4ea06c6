package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hackercrush/hackercrush/internal/game"
)

func TestWebSocketHandlerRejectsBadRequests(t *testing.T) {
	s := newTestService(t)
	handler := s.WebSocketHandler(s.hub)

	req := httptest.NewRequest("GET", "/ws", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != 400 {
		t.Errorf("expected status 400 without gameId, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/ws?gameId=nosuchgame", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != 404 {
		t.Errorf("expected status 404 for unknown game, got %d", rr.Code)
	}
}

func dialGame(t *testing.T, s *Service, gameID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(s.WebSocketHandler(s.hub))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHubBroadcastsEventsToClient(t *testing.T) {
	s := newTestService(t)
	go s.hub.Run()

	router := newTestRouter(s)
	created := createGame(t, router, "moves", "")

	conn := dialGame(t, s, created.ID)

	// Registration happens on the hub goroutine, give it a moment
	// before broadcasting.
	time.Sleep(50 * time.Millisecond)

	s.hub.ListenerFor(created.ID).HandleEvent(game.GameOver{FinalScore: 123})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var update GameUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.GameID != created.ID {
		t.Errorf("update gameId %q, want %q", update.GameID, created.ID)
	}
	if update.Type != "game_over" {
		t.Errorf("update type %q, want game_over", update.Type)
	}

	data, ok := update.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data payload: %T", update.Data)
	}
	if data["finalScore"] != float64(123) {
		t.Errorf("finalScore %v, want 123", data["finalScore"])
	}
}

func TestHubDoesNotCrossGames(t *testing.T) {
	s := newTestService(t)
	go s.hub.Run()

	router := newTestRouter(s)
	first := createGame(t, router, "moves", "")
	second := createGame(t, router, "moves", "")

	conn := dialGame(t, s, first.ID)
	time.Sleep(50 * time.Millisecond)

	s.hub.ListenerFor(second.ID).HandleEvent(game.BoardReshuffled{})
	s.hub.ListenerFor(first.ID).HandleEvent(game.GameOver{FinalScore: 7})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var update GameUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.GameID != first.ID {
		t.Errorf("received an update for game %q, want only %q", update.GameID, first.ID)
	}
	if update.Type != "game_over" {
		t.Errorf("update type %q, want game_over", update.Type)
	}
}

func TestWebSocketPingPong(t *testing.T) {
	s := newTestService(t)
	go s.hub.Run()

	router := newTestRouter(s)
	created := createGame(t, router, "moves", "")

	conn := dialGame(t, s, created.ID)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read pong: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(msg, &resp); err != nil {
		t.Fatalf("decode pong: %v", err)
	}
	if resp["type"] != "pong" {
		t.Errorf("expected pong, got %v", resp)
	}
}
