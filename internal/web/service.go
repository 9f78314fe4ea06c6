package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hackercrush/hackercrush/internal/board"
	"github.com/hackercrush/hackercrush/internal/game"
	"github.com/hackercrush/hackercrush/internal/leaderboard"
	"github.com/hackercrush/hackercrush/internal/session"
)

// Service handles HTTP requests for game sessions and the leaderboard
type Service struct {
	sessions *session.Manager
	scores   *leaderboard.Store
	tokens   *TokenIssuer
	hub      *Hub
}

// NewService creates a new web service
func NewService(sessions *session.Manager, scores *leaderboard.Store, tokens *TokenIssuer, hub *Hub) *Service {
	return &Service{
		sessions: sessions,
		scores:   scores,
		tokens:   tokens,
		hub:      hub,
	}
}

// HealthHandler returns service health status
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "healthy",
		"service":  "hackercrush",
		"sessions": s.sessions.Count(),
	})
}

type CreateGameRequest struct {
	Mode   string `json:"mode"`   // mode spec such as "moves", "timed:120", "endless:5"
	Seed   int64  `json:"seed"`   // optional board seed, 0 deals from the clock
	Handle string `json:"handle"` // optional display handle, baked into the play token
}

type CreateGameResponse struct {
	ID        string           `json:"id"`
	PlayToken string           `json:"playToken"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// CreateGameHandler creates a new game session
func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	spec := req.Mode
	if spec == "" {
		spec = string(game.ModeMoves)
	}

	cfg, err := game.ParseModeSpec(spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := session.GenerateID()
	sess, err := s.sessions.Create(id, cfg, s.hub.ListenerFor(id))
	if err != nil {
		log.Error().Err(err).Str("mode", spec).Msg("Failed to create game session")
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	if req.Seed != 0 {
		if err := sess.Restart(req.Seed); err != nil {
			log.Error().Err(err).Str("gameID", id).Msg("Failed to seed game")
			http.Error(w, "Failed to create game", http.StatusInternalServerError)
			return
		}
	}

	playToken, err := s.tokens.Issue(id, req.Handle)
	if err != nil {
		log.Error().Err(err).Str("gameID", id).Msg("Failed to issue play token")
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	log.Info().Str("gameID", id).Str("mode", string(cfg.Mode)).Msg("Game created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(CreateGameResponse{
		ID:        id,
		PlayToken: playToken,
		Snapshot:  sess.Snapshot(),
	})
}

// GameSummary is the list view of a session
type GameSummary struct {
	ID    string     `json:"id"`
	Phase game.Phase `json:"phase"`
	Mode  game.Mode  `json:"mode"`
	Score int        `json:"score"`
	Level int        `json:"level"`
}

// ListGamesHandler returns all active game sessions
func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games := []GameSummary{}
	for _, sess := range s.sessions.List() {
		snap := sess.Snapshot()
		games = append(games, GameSummary{
			ID:    snap.ID,
			Phase: snap.Phase,
			Mode:  snap.State.Mode,
			Score: snap.State.Score,
			Level: levelOf(snap.State),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}

// GetGameHandler returns the current snapshot of a session
func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	sess, err := s.sessions.Get(gameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

type MoveRequest struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

type MoveResponse struct {
	Result   game.TurnResult  `json:"result"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// MakeMoveHandler applies a swap to a game session
func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	sess, err := s.sessions.Get(gameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := sess.Swap(req.From, req.To)

	log.Info().
		Str("gameID", gameID).
		Bool("accepted", result.Accepted).
		Int("scoreDelta", result.ScoreDelta).
		Msg("Move processed")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MoveResponse{
		Result:   result,
		Snapshot: sess.Snapshot(),
	})
}

type TickRequest struct {
	Delta float64 `json:"delta"` // elapsed seconds since the last tick
}

// TickHandler advances the clock of a timed session
func (s *Service) TickHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	sess, err := s.sessions.Get(gameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	var req TickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Delta <= 0 {
		http.Error(w, "Tick delta must be positive", http.StatusBadRequest)
		return
	}

	sess.Tick(req.Delta)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

type RestartRequest struct {
	Seed int64 `json:"seed"` // optional, defaults to the current time
}

// RestartGameHandler resets a session to a fresh board and state
func (s *Service) RestartGameHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	sess, err := s.sessions.Get(gameID)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	var req RestartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if err := sess.Restart(seed); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	log.Info().Str("gameID", gameID).Msg("Game restarted")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// DeleteGameHandler removes a game session
func (s *Service) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	if err := s.sessions.Delete(gameID); err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	log.Info().Str("gameID", gameID).Msg("Game deleted")
	w.WriteHeader(http.StatusNoContent)
}

type SubmitScoreRequest struct {
	Handle string    `json:"handle"`
	Mode   game.Mode `json:"mode"`
	Score  int       `json:"score"`
	Level  int       `json:"level"`
}

// SubmitScoreHandler records a score on the leaderboard. Submissions
// carrying a play token are scored from the server-side session state;
// bare submissions are accepted as claimed but capped much lower. The
// response carries the handle's stored best entry and its rank.
func (s *Service) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var entry leaderboard.Entry

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		gameID, tokenHandle, err := s.tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid play token", http.StatusUnauthorized)
			return
		}

		sess, err := s.sessions.Get(gameID)
		if err != nil {
			http.Error(w, "Unknown game for play token", http.StatusNotFound)
			return
		}

		handle := req.Handle
		if handle == "" {
			handle = tokenHandle
		}

		snap := sess.Snapshot()
		entry = leaderboard.Entry{
			Handle: handle,
			Mode:   snap.State.Mode,
			Score:  snap.State.Score,
			Level:  levelOf(snap.State),
		}
	} else {
		if req.Score > leaderboard.MaxClientScore {
			http.Error(w, "Score exceeds client submission limit", http.StatusBadRequest)
			return
		}
		entry = leaderboard.Entry{
			Handle: req.Handle,
			Mode:   req.Mode,
			Score:  req.Score,
			Level:  req.Level,
		}
	}

	if entry.Level < 1 {
		entry.Level = 1
	}

	if err := entry.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	improved, err := s.scores.SubmitScore(r.Context(), entry)
	if err != nil {
		log.Error().Err(err).Str("handle", entry.Handle).Msg("Failed to submit score")
		http.Error(w, "Failed to submit score", http.StatusInternalServerError)
		return
	}

	stored, _, err := s.scores.Rank(r.Context(), entry.Handle, entry.Mode)
	if err != nil {
		log.Error().Err(err).Str("handle", entry.Handle).Msg("Failed to rank submitted score")
		http.Error(w, "Failed to submit score", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("handle", entry.Handle).
		Str("mode", string(entry.Mode)).
		Int("score", entry.Score).
		Int("rank", stored.Rank).
		Bool("improved", improved).
		Msg("Score submitted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"entry":    stored,
		"improved": improved,
	})
}

// TopScoresHandler returns the best scores for a mode
func (s *Service) TopScoresHandler(w http.ResponseWriter, r *http.Request) {
	mode := game.Mode(r.URL.Query().Get("mode"))
	if _, err := game.DefaultModeConfig(mode); err != nil {
		http.Error(w, "Invalid or missing mode parameter", http.StatusBadRequest)
		return
	}

	limit := leaderboard.DefaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.scores.Top(r.Context(), mode, leaderboard.ClampLimit(limit))
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("Failed to query top scores")
		http.Error(w, "Failed to query scores", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(leaderboard.ScoreList{Entries: entries})
}

// RankHandler returns one handle's best entry and rank for a mode
func (s *Service) RankHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	handle := vars["handle"]

	mode := game.Mode(r.URL.Query().Get("mode"))
	if _, err := game.DefaultModeConfig(mode); err != nil {
		http.Error(w, "Invalid or missing mode parameter", http.StatusBadRequest)
		return
	}

	entry, rank, err := s.scores.Rank(r.Context(), handle, mode)
	if errors.Is(err, leaderboard.ErrNotRanked) {
		http.Error(w, "Handle not on this leaderboard", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("handle", handle).Msg("Failed to query rank")
		http.Error(w, "Failed to query rank", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(leaderboard.RankResult{Entry: entry, Rank: rank})
}

func levelOf(state game.State) int {
	if state.Moves != nil {
		return state.Moves.Level
	}
	return 1
}
