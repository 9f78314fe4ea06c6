package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hackercrush/hackercrush/internal/config"
	"github.com/hackercrush/hackercrush/internal/leaderboard"
	"github.com/hackercrush/hackercrush/internal/session"
	"github.com/hackercrush/hackercrush/internal/web"
)

func main() {
	// Parse command line flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	_ = godotenv.Load()

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if lvl, err := zerolog.ParseLevel(cfg.Development.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Open the score store
	store, err := leaderboard.OpenStore(cfg.Leaderboard.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Leaderboard.DBPath).Msg("Failed to open score store")
	}
	defer store.Close()

	// Session manager with periodic idle cleanup
	sessions := session.NewManager()
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sessions.StartSweeper(sweepCtx, cfg.Session.SweepInterval, cfg.Session.MaxIdle, log.Logger)

	// WebSocket hub
	hub := web.NewHub()
	go hub.Run()

	tokens := web.NewTokenIssuer(cfg.Session.TokenSecret, cfg.Session.TokenTTL)

	// Create service
	service := web.NewService(sessions, store, tokens, hub)

	// Setup routes
	router := mux.NewRouter()

	// Add CORS middleware
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

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", service.HealthHandler).Methods("GET")
	api.HandleFunc("/games", service.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", service.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", service.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}", service.DeleteGameHandler).Methods("DELETE")
	api.HandleFunc("/games/{id}/moves", service.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/tick", service.TickHandler).Methods("POST")
	api.HandleFunc("/games/{id}/restart", service.RestartGameHandler).Methods("POST")
	api.HandleFunc("/scores", service.SubmitScoreHandler).Methods("POST")
	api.HandleFunc("/scores", service.TopScoresHandler).Methods("GET")
	api.HandleFunc("/scores/{handle}", service.RankHandler).Methods("GET")

	// Live game updates
	router.HandleFunc("/ws", service.WebSocketHandler(hub)).Methods("GET")

	// Serve static files
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./web/static/")))

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`Hacker Crush Game Server

DESCRIPTION:
    HTTP service for the Hacker Crush match-3 puzzle game. Hosts game
    sessions, resolves swaps and cascades server-side, streams game
    events over WebSocket and keeps the score leaderboard in SQLite.

USAGE:
    hackercrush-server [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    The server is configured via config.yaml in the current directory,
    with HACKERCRUSH_* environment variables taking precedence.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        leaderboard:
          db_path: data/scores.db

        session:
          token_secret: "change-me"
          max_idle: 30m

        development:
          debug: true
          log_level: debug

API ENDPOINTS:
    GET    /api/health              - Service health check
    POST   /api/games               - Create a game session
    GET    /api/games               - List active game sessions
    GET    /api/games/{id}          - Fetch a session snapshot
    DELETE /api/games/{id}          - Remove a session
    POST   /api/games/{id}/moves    - Swap two adjacent pieces
    POST   /api/games/{id}/tick     - Advance a timed session's clock
    POST   /api/games/{id}/restart  - Reset a session to a fresh board
    POST   /api/scores              - Submit a leaderboard score
    GET    /api/scores              - Top scores for a mode
    GET    /api/scores/{handle}     - One handle's best entry and rank
    GET    /ws?gameId={id}          - WebSocket stream of game events

BEHAVIOR:
    - Match resolution, cascades and special pieces run server-side
    - Play tokens tie score submissions to the session that earned them
    - Idle sessions are swept after the configured max_idle
    - Graceful shutdown on SIGINT/SIGTERM

EXAMPLES:
    # Start with default configuration
    hackercrush-server

    # Create a timed game via API
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"mode": "timed:120", "handle": "neo"}'`)
}
