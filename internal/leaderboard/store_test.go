package leaderboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hackercrush/hackercrush/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func submit(t *testing.T, s *Store, handle string, mode game.Mode, score int) bool {
	t.Helper()
	improved, err := s.SubmitScore(context.Background(), Entry{Handle: handle, Mode: mode, Score: score, Level: 1})
	if err != nil {
		t.Fatalf("SubmitScore(%s, %d) returned error: %v", handle, score, err)
	}
	return improved
}

func TestSubmitScoreKeepsBest(t *testing.T) {
	s := newTestStore(t)

	if !submit(t, s, "neo", game.ModeEndless, 100) {
		t.Error("Expected first submission to count as an improvement")
	}
	if !submit(t, s, "neo", game.ModeEndless, 250) {
		t.Error("Expected a higher score to improve")
	}
	if submit(t, s, "neo", game.ModeEndless, 180) {
		t.Error("Expected a lower score to be ignored")
	}

	entry, rank, err := s.Rank(context.Background(), "neo", game.ModeEndless)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if entry.Score != 250 {
		t.Errorf("Expected best score 250, got %d", entry.Score)
	}
	if rank != 1 {
		t.Errorf("Expected rank 1, got %d", rank)
	}
}

func TestSubmitScoreRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SubmitScore(context.Background(), Entry{Handle: "bad handle", Mode: game.ModeEndless, Score: 10})
	if !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Expected ErrInvalidHandle, got %v", err)
	}
	_, err = s.SubmitScore(context.Background(), Entry{Handle: "ok", Mode: game.ModeEndless, Score: MaxScore + 1})
	if !errors.Is(err, ErrInvalidScore) {
		t.Errorf("Expected ErrInvalidScore, got %v", err)
	}
}

func TestScoresIsolatedPerMode(t *testing.T) {
	s := newTestStore(t)

	submit(t, s, "neo", game.ModeEndless, 100)
	submit(t, s, "neo", game.ModeTimed, 900)

	endless, err := s.Top(context.Background(), game.ModeEndless, 10)
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	if len(endless) != 1 || endless[0].Score != 100 {
		t.Errorf("Expected one endless entry with score 100, got %+v", endless)
	}
}

func TestTopOrdering(t *testing.T) {
	s := newTestStore(t)

	submit(t, s, "alice", game.ModeEndless, 300)
	submit(t, s, "bob", game.ModeEndless, 900)
	submit(t, s, "carol", game.ModeEndless, 600)

	top, err := s.Top(context.Background(), game.ModeEndless, 10)
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	want := []string{"bob", "carol", "alice"}
	if len(top) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(top))
	}
	for i, handle := range want {
		if top[i].Handle != handle {
			t.Errorf("Expected %s at position %d, got %s", handle, i, top[i].Handle)
		}
		if top[i].Rank != i+1 {
			t.Errorf("Expected rank %d for %s, got %d", i+1, handle, top[i].Rank)
		}
	}
}

func TestTopTiedScoresShareRank(t *testing.T) {
	s := newTestStore(t)

	submit(t, s, "alice", game.ModeTimed, 500)
	submit(t, s, "bob", game.ModeTimed, 500)
	submit(t, s, "carol", game.ModeTimed, 900)

	top, err := s.Top(context.Background(), game.ModeTimed, 10)
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(top))
	}
	if top[0].Handle != "carol" || top[0].Rank != 1 {
		t.Errorf("Expected carol first at rank 1, got %+v", top[0])
	}
	for _, e := range top[1:] {
		if e.Rank != 2 {
			t.Errorf("Expected tied scores to share rank 2, got %+v", e)
		}
	}
}

func TestTopRespectsLimit(t *testing.T) {
	s := newTestStore(t)

	handles := []string{"a", "b", "c", "d", "e"}
	for i, h := range handles {
		submit(t, s, h, game.ModeMoves, (i+1)*100)
	}

	top, err := s.Top(context.Background(), game.ModeMoves, 3)
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	if len(top) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(top))
	}
	if top[0].Handle != "e" {
		t.Errorf("Expected e first, got %s", top[0].Handle)
	}
}

func TestRankCountsStrictlyHigher(t *testing.T) {
	s := newTestStore(t)

	submit(t, s, "alice", game.ModeEndless, 500)
	submit(t, s, "bob", game.ModeEndless, 500)
	submit(t, s, "carol", game.ModeEndless, 900)

	_, rank, err := s.Rank(context.Background(), "alice", game.ModeEndless)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if rank != 2 {
		t.Errorf("Expected tied scores to share rank 2, got %d", rank)
	}
	_, rank, err = s.Rank(context.Background(), "bob", game.ModeEndless)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if rank != 2 {
		t.Errorf("Expected tied scores to share rank 2, got %d", rank)
	}
	_, rank, err = s.Rank(context.Background(), "carol", game.ModeEndless)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if rank != 1 {
		t.Errorf("Expected rank 1 for the top score, got %d", rank)
	}
}

func TestRankUnknownHandle(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Rank(context.Background(), "nobody", game.ModeEndless)
	if !errors.Is(err, ErrNotRanked) {
		t.Errorf("Expected ErrNotRanked, got %v", err)
	}
}
