package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/hackercrush/hackercrush/internal/board"
	"github.com/hackercrush/hackercrush/internal/game"
	"github.com/hackercrush/hackercrush/internal/leaderboard"
	"github.com/hackercrush/hackercrush/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := leaderboard.OpenStore(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewService(session.NewManager(), store, NewTokenIssuer("test-secret", time.Hour), NewHub())
}

func newTestRouter(s *Service) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.DeleteGameHandler).Methods("DELETE")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/tick", s.TickHandler).Methods("POST")
	api.HandleFunc("/games/{id}/restart", s.RestartGameHandler).Methods("POST")
	api.HandleFunc("/scores", s.SubmitScoreHandler).Methods("POST")
	api.HandleFunc("/scores", s.TopScoresHandler).Methods("GET")
	api.HandleFunc("/scores/{handle}", s.RankHandler).Methods("GET")
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func createGame(t *testing.T, router *mux.Router, mode, handle string) CreateGameResponse {
	t.Helper()

	rr := doJSON(t, router, "POST", "/api/games", CreateGameRequest{Mode: mode, Handle: handle})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create game: expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp CreateGameResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestHealthHandler(t *testing.T) {
	s := newTestService(t)

	req, err := http.NewRequest("GET", "/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(s.HealthHandler)
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %v", rr.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Errorf("Failed to parse response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", response["status"])
	}
	if response["service"] != "hackercrush" {
		t.Errorf("Expected service hackercrush, got %v", response["service"])
	}
}

func TestCreateGameHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	resp := createGame(t, router, "moves:10", "neo")

	if len(resp.ID) != 16 {
		t.Errorf("expected 16-char game ID, got %q", resp.ID)
	}
	if resp.PlayToken == "" {
		t.Error("expected a play token")
	}
	if resp.Snapshot.State.Mode != game.ModeMoves {
		t.Errorf("expected moves mode, got %q", resp.Snapshot.State.Mode)
	}
	if resp.Snapshot.State.Moves == nil || resp.Snapshot.State.Moves.MovesRemaining != 10 {
		t.Errorf("expected 10 moves remaining, got %+v", resp.Snapshot.State.Moves)
	}
	if len(resp.Snapshot.Grid) != board.DefaultRows {
		t.Fatalf("expected %d grid rows, got %d", board.DefaultRows, len(resp.Snapshot.Grid))
	}
	for r, row := range resp.Snapshot.Grid {
		if len(row) != board.DefaultCols {
			t.Fatalf("row %d: expected %d cols, got %d", r, board.DefaultCols, len(row))
		}
		for c, p := range row {
			if p == nil {
				t.Fatalf("expected piece at (%d,%d) in a fresh game", r, c)
			}
		}
	}

	gameID, handle, err := s.tokens.Verify(resp.PlayToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if gameID != resp.ID {
		t.Errorf("token game claim %q does not match game ID %q", gameID, resp.ID)
	}
	if handle != "neo" {
		t.Errorf("token handle claim %q, want neo", handle)
	}
}

func TestCreateGameDefaultsToMovesMode(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	resp := createGame(t, router, "", "")
	if resp.Snapshot.State.Mode != game.ModeMoves {
		t.Errorf("expected default moves mode, got %q", resp.Snapshot.State.Mode)
	}
	if resp.Snapshot.State.Moves == nil || resp.Snapshot.State.Moves.MovesRemaining != game.DefaultMoves {
		t.Errorf("expected %d default moves, got %+v", game.DefaultMoves, resp.Snapshot.State.Moves)
	}
}

func TestCreateGameInvalidMode(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "POST", "/api/games", CreateGameRequest{Mode: "blitz"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown mode, got %d", rr.Code)
	}
}

func TestCreateGameWithSeed(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "POST", "/api/games", CreateGameRequest{Mode: "moves", Seed: 7})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp CreateGameResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	mirror := board.NewSeeded(board.DefaultRows, board.DefaultCols, 7)
	for r, row := range mirror.Grid() {
		for c, p := range row {
			got := resp.Snapshot.Grid[r][c]
			if got == nil || got.Kind != p.Kind {
				t.Fatalf("cell (%d,%d) does not match the seeded deal: got %+v, want kind %s", r, c, got, p.Kind)
			}
		}
	}
}

func TestListGamesHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "GET", "/api/games", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var empty struct {
		Games []GameSummary `json:"games"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &empty); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if empty.Total != 0 || len(empty.Games) != 0 {
		t.Errorf("expected empty listing, got %+v", empty)
	}

	created := createGame(t, router, "endless", "")

	rr = doJSON(t, router, "GET", "/api/games", nil)
	var listing struct {
		Games []GameSummary `json:"games"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listing.Total != 1 || len(listing.Games) != 1 {
		t.Fatalf("expected one game, got %+v", listing)
	}
	if listing.Games[0].ID != created.ID {
		t.Errorf("listed ID %q, want %q", listing.Games[0].ID, created.ID)
	}
	if listing.Games[0].Mode != game.ModeEndless {
		t.Errorf("listed mode %q, want endless", listing.Games[0].Mode)
	}
	if listing.Games[0].Phase != game.PhaseIdle {
		t.Errorf("listed phase %q, want idle", listing.Games[0].Phase)
	}
}

func TestGetGameHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "moves", "")

	rr := doJSON(t, router, "GET", "/api/games/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.ID != created.ID {
		t.Errorf("snapshot ID %q, want %q", snap.ID, created.ID)
	}

	rr = doJSON(t, router, "GET", "/api/games/nosuchgame", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown game, got %d", rr.Code)
	}
}

func TestMakeMoveHandlerRejectsBadSwap(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "moves", "")

	// Same cell is never adjacent, so this swap is always rejected.
	rr := doJSON(t, router, "POST", "/api/games/"+created.ID+"/moves", MoveRequest{
		From: board.Position{Row: 0, Col: 0},
		To:   board.Position{Row: 0, Col: 0},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp MoveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if resp.Result.Accepted {
		t.Error("expected swap of a cell with itself to be rejected")
	}
	if resp.Snapshot.State.Moves.MovesRemaining != game.DefaultMoves {
		t.Errorf("rejected swap consumed a move: %+v", resp.Snapshot.State.Moves)
	}
}

func TestMakeMoveHandlerAppliesValidSwap(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "moves", "")

	// Reseed the session so the board matches a board we can inspect
	// locally to find a guaranteed-valid move.
	rr := doJSON(t, router, "POST", "/api/games/"+created.ID+"/restart", RestartRequest{Seed: 7})
	if rr.Code != http.StatusOK {
		t.Fatalf("restart: expected status 200, got %d", rr.Code)
	}

	mirror := board.NewSeeded(board.DefaultRows, board.DefaultCols, 7)
	moves := mirror.FindValidMoves()
	if len(moves) == 0 {
		t.Fatal("seeded board has no valid moves")
	}

	rr = doJSON(t, router, "POST", "/api/games/"+created.ID+"/moves", MoveRequest{
		From: moves[0].From,
		To:   moves[0].To,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp MoveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if !resp.Result.Accepted {
		t.Fatal("expected a board-verified move to be accepted")
	}
	if resp.Result.ScoreDelta < 30 {
		t.Errorf("expected at least 30 points from a 3-match, got %d", resp.Result.ScoreDelta)
	}
	if resp.Snapshot.State.Moves.MovesRemaining != game.DefaultMoves-1 {
		t.Errorf("expected one move consumed, got %+v", resp.Snapshot.State.Moves)
	}

	rr = doJSON(t, router, "POST", "/api/games/nosuchgame/moves", MoveRequest{})
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown game, got %d", rr.Code)
	}
}

func TestTickHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "timed:30", "")

	rr := doJSON(t, router, "POST", "/api/games/"+created.ID+"/tick", TickRequest{Delta: 5})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State.Timed == nil || snap.State.Timed.TimeRemaining != 25 {
		t.Errorf("expected 25s remaining, got %+v", snap.State.Timed)
	}

	rr = doJSON(t, router, "POST", "/api/games/"+created.ID+"/tick", TickRequest{Delta: -1})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for negative delta, got %d", rr.Code)
	}

	rr = doJSON(t, router, "POST", "/api/games/"+created.ID+"/tick", TickRequest{Delta: 100})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if !snap.State.GameOver {
		t.Error("expected game over after the clock ran out")
	}
}

func TestRestartGameHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "endless", "")

	rr := doJSON(t, router, "POST", "/api/games/"+created.ID+"/restart", RestartRequest{Seed: 42})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State.Score != 0 {
		t.Errorf("expected score 0 after restart, got %d", snap.State.Score)
	}
	if snap.Phase != game.PhaseIdle {
		t.Errorf("expected idle phase after restart, got %q", snap.Phase)
	}

	rr = doJSON(t, router, "POST", "/api/games/nosuchgame/restart", RestartRequest{})
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown game, got %d", rr.Code)
	}
}

func TestDeleteGameHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "moves", "")

	rr := doJSON(t, router, "DELETE", "/api/games/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	rr = doJSON(t, router, "GET", "/api/games/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rr.Code)
	}

	rr = doJSON(t, router, "DELETE", "/api/games/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on double delete, got %d", rr.Code)
	}
}

func TestSubmitScoreClientPath(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
		Handle: "trinity", Mode: game.ModeMoves, Score: 1200, Level: 2,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Entry    leaderboard.Entry `json:"entry"`
		Improved bool              `json:"improved"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Improved {
		t.Error("first submission should improve")
	}
	if resp.Entry.Score != 1200 {
		t.Errorf("entry score %d, want 1200", resp.Entry.Score)
	}
	if resp.Entry.Rank != 1 {
		t.Errorf("entry rank %d, want 1", resp.Entry.Rank)
	}

	// A lower score keeps the stored best, and the response reports it.
	rr = doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
		Handle: "trinity", Mode: game.ModeMoves, Score: 800, Level: 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Improved {
		t.Error("lower score should not improve")
	}
	if resp.Entry.Score != 1200 {
		t.Errorf("expected the stored best 1200 in the response, got %d", resp.Entry.Score)
	}
}

func TestSubmitScoreClientCap(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
		Handle: "morpheus", Mode: game.ModeMoves, Score: leaderboard.MaxClientScore + 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for an oversized client score, got %d", rr.Code)
	}
}

func TestSubmitScoreInvalidHandle(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	rr := doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
		Handle: "not a handle!", Mode: game.ModeMoves, Score: 100,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a bad handle, got %d", rr.Code)
	}
}

func TestSubmitScoreWithPlayToken(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	created := createGame(t, router, "moves", "neo")

	// The client claims a huge score but the token path reads the
	// authoritative session state, which has not scored anything.
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(SubmitScoreRequest{Score: 999999})
	req, err := http.NewRequest("POST", "/api/scores", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+created.PlayToken)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Entry leaderboard.Entry `json:"entry"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Entry.Score != 0 {
		t.Errorf("expected the server-side score 0, got %d", resp.Entry.Score)
	}
	if resp.Entry.Handle != "neo" {
		t.Errorf("expected the token handle neo, got %q", resp.Entry.Handle)
	}
}

func TestSubmitScoreBadToken(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(SubmitScoreRequest{Handle: "neo", Mode: game.ModeMoves, Score: 10})
	req, err := http.NewRequest("POST", "/api/scores", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer not.a.token")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for a bad token, got %d", rr.Code)
	}
}

func TestSubmitScoreTokenForMissingGame(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	token, err := s.tokens.Issue("nosuchgame", "neo")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(SubmitScoreRequest{})
	req, err := http.NewRequest("POST", "/api/scores", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for a token naming a missing game, got %d", rr.Code)
	}
}

func TestTopScoresHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	for i, h := range []string{"neo", "trinity", "morpheus"} {
		rr := doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
			Handle: h, Mode: game.ModeMoves, Score: (i + 1) * 100, Level: 1,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed submission %d: status %d", i, rr.Code)
		}
	}

	rr := doJSON(t, router, "GET", "/api/scores?mode=moves&limit=2", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var list leaderboard.ScoreList
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode score list: %v", err)
	}
	if len(list.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list.Entries))
	}
	if list.Entries[0].Handle != "morpheus" || list.Entries[1].Handle != "trinity" {
		t.Errorf("unexpected ordering: %+v", list.Entries)
	}
	if list.Entries[0].Rank != 1 || list.Entries[1].Rank != 2 {
		t.Errorf("unexpected ranks: %+v", list.Entries)
	}

	rr = doJSON(t, router, "GET", "/api/scores", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without a mode, got %d", rr.Code)
	}

	rr = doJSON(t, router, "GET", "/api/scores?mode=moves&limit=abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a bad limit, got %d", rr.Code)
	}
}

func TestRankHandler(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	for i, h := range []string{"neo", "trinity", "morpheus"} {
		rr := doJSON(t, router, "POST", "/api/scores", SubmitScoreRequest{
			Handle: h, Mode: game.ModeTimed, Score: (i + 1) * 100, Level: 1,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed submission %d: status %d", i, rr.Code)
		}
	}

	rr := doJSON(t, router, "GET", "/api/scores/neo?mode=timed", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result leaderboard.RankResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode rank result: %v", err)
	}
	if result.Rank != 3 {
		t.Errorf("expected rank 3 for the lowest score, got %d", result.Rank)
	}
	if result.Entry.Score != 100 {
		t.Errorf("expected score 100, got %d", result.Entry.Score)
	}

	rr = doJSON(t, router, "GET", "/api/scores/smith?mode=timed", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for an unranked handle, got %d", rr.Code)
	}

	rr = doJSON(t, router, "GET", "/api/scores/neo", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without a mode, got %d", rr.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestService(t)
	router := newTestRouter(s)

	req, err := http.NewRequest("POST", "/api/games", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed JSON, got %d", rr.Code)
	}
}

// TestCORSHeadersPresentOnPreflightRequests ensures browser preflight
// requests get the CORS headers the middleware in cmd/server sets.
func TestCORSHeadersPresentOnPreflightRequests(t *testing.T) {
	router := mux.NewRouter()

	// Same middleware as in cmd/server.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("OPTIONS", "/api/games", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin: *, got %s", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("Expected Access-Control-Allow-Methods to contain POST, got %s", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Errorf("Expected Access-Control-Allow-Headers to contain Authorization, got %s", rr.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestLevelOf(t *testing.T) {
	moves := game.State{Moves: &game.MovesState{Level: 4}}
	if got := levelOf(moves); got != 4 {
		t.Errorf("levelOf moves state = %d, want 4", got)
	}
	timed := game.State{Timed: &game.TimedState{TimeRemaining: 10}}
	if got := levelOf(timed); got != 1 {
		t.Errorf("levelOf timed state = %d, want 1", got)
	}
}
