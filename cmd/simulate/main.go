package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hackercrush/hackercrush/internal/game"
	"github.com/hackercrush/hackercrush/internal/leaderboard"
)

func main() {
	var (
		modeSpec = flag.String("mode", "moves", "game mode spec: moves[:n], timed[:seconds], endless[:reshuffles]")
		seed     = flag.Int64("seed", 0, "board seed, 0 picks one from the clock")
		games    = flag.Int("games", 1, "number of games to play")
		handle   = flag.String("handle", "", "leaderboard handle, empty skips submission")
		server   = flag.String("server", "", "leaderboard server base URL, empty plays offline")
		dbPath   = flag.String("db", "data/scores.db", "local score store used when the server is unreachable")
		think    = flag.Float64("think", 2.0, "simulated seconds spent per move in timed mode")
		maxTurns = flag.Int("max-turns", 1000, "abort a game after this many turns")
		verbose  = flag.Bool("v", false, "log every game event")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := game.ParseModeSpec(*modeSpec)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad mode spec")
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(baseSeed))

	var best game.State
	for i := 0; i < *games; i++ {
		state := playGame(cfg, baseSeed+int64(i), rng, *think, *maxTurns)
		if state.Score > best.Score {
			best = state
		}
	}

	log.Info().
		Int("games", *games).
		Int("bestScore", best.Score).
		Msg("Simulation finished")

	if *handle == "" {
		return
	}

	submitBest(cfg.Mode, best, *handle, *server, *dbPath)
}

// playGame runs one session to completion with random valid moves.
func playGame(cfg game.ModeConfig, seed int64, rng *rand.Rand, think float64, maxTurns int) game.State {
	listener := game.ListenerFunc(func(e game.Event) {
		switch ev := e.(type) {
		case game.MatchCleared:
			log.Debug().
				Int("pieces", ev.PieceCount).
				Int("cascadeLevel", ev.CascadeLevel).
				Str("special", string(ev.SpecialCreated)).
				Msg("Match cleared")
		case game.BoardReshuffled:
			log.Info().Msg("Board reshuffled")
		case game.LevelCompleted:
			log.Info().
				Int("level", ev.Level).
				Int("stars", ev.Stars).
				Int("newTarget", ev.NewTarget).
				Msg("Level completed")
		case game.GameOver:
			log.Info().Int("finalScore", ev.FinalScore).Msg("Game over")
		}
	})

	controller, err := game.NewController(cfg, seed, listener)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up game")
	}

	turns := 0
	for !controller.State().GameOver && turns < maxTurns {
		moves := controller.Board().FindValidMoves()
		if len(moves) == 0 {
			// A freshly dealt board can be stuck before any turn ran.
			log.Warn().Msg("No valid moves on the board")
			break
		}

		pick := moves[rng.Intn(len(moves))]
		result := controller.Swap(pick.From, pick.To)
		if !result.Accepted {
			log.Warn().
				Interface("move", pick).
				Msg("Board-verified move was rejected")
			break
		}
		turns++

		if cfg.Mode == game.ModeTimed && !controller.State().GameOver {
			controller.Tick(think)
			log.Debug().
				Str("clock", game.FormatTimeRemaining(controller.State().Timed.TimeRemaining)).
				Msg("Clock ticked")
		}
		if st := controller.State(); cfg.Mode == game.ModeMoves && st.Moves != nil {
			log.Debug().
				Int("level", st.Moves.Level).
				Int("movesLeft", st.Moves.MovesRemaining).
				Str("progress", fmt.Sprintf("%.0f%%", st.LevelProgress())).
				Msg("Turn resolved")
		}
	}

	state := *controller.State()
	log.Info().
		Int64("seed", seed).
		Int("turns", turns).
		Int("score", state.Score).
		Msg("Session done")
	return state
}

// submitBest records the best score, preferring the remote leaderboard
// and falling back to the local store when it is unreachable.
func submitBest(mode game.Mode, state game.State, handle, server, dbPath string) {
	local, err := leaderboard.OpenStore(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("Failed to open local score store")
	}
	defer local.Close()

	var remote *leaderboard.Client
	if server != "" {
		remote = leaderboard.NewClient(server)
	}
	svc := leaderboard.NewService(remote, local, log.Logger)

	level := 1
	if state.Moves != nil {
		level = state.Moves.Level
	}
	entry := leaderboard.Entry{
		Handle: handle,
		Mode:   mode,
		Score:  state.Score,
		Level:  level,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := svc.Submit(ctx, entry); err != nil {
		log.Fatal().Err(err).Msg("Failed to submit score")
	}
	log.Info().Str("handle", handle).Int("score", entry.Score).Msg("Score submitted")

	top, err := svc.Top(ctx, mode, leaderboard.DefaultTopLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch top scores")
	}

	fmt.Fprintf(os.Stdout, "\nTop %s scores:\n", mode)
	for _, e := range top {
		fmt.Fprintf(os.Stdout, "%3d. %-12s %8d  (level %d)\n", e.Rank, e.Handle, e.Score, e.Level)
	}
}
