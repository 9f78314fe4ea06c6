package leaderboard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hackercrush/hackercrush/internal/game"
)

// Service submits and reads scores through the remote leaderboard,
// falling back to a local store when the remote is unreachable. Scores
// cached locally are not re-sent; the next successful submission
// supersedes them.
type Service struct {
	remote *Client
	local  *Store
	log    zerolog.Logger
}

func NewService(remote *Client, local *Store, log zerolog.Logger) *Service {
	return &Service{remote: remote, local: local, log: log}
}

// Submit records a score remotely, caching it locally instead when the
// remote call fails.
func (s *Service) Submit(ctx context.Context, e Entry) error {
	if s.remote != nil {
		_, err := s.remote.SubmitScore(ctx, e)
		if err == nil {
			return nil
		}
		s.log.Warn().Err(err).Str("handle", e.Handle).Msg("leaderboard unreachable, caching score locally")
	}
	if s.local == nil {
		return nil
	}
	_, err := s.local.SubmitScore(ctx, e)
	return err
}

// Top reads the remote standings, serving the local cache when the
// remote call fails.
func (s *Service) Top(ctx context.Context, mode game.Mode, limit int) ([]Entry, error) {
	if s.remote != nil {
		entries, err := s.remote.Top(ctx, mode, limit)
		if err == nil {
			return entries, nil
		}
		s.log.Warn().Err(err).Msg("leaderboard unreachable, serving local scores")
	}
	if s.local == nil {
		return nil, nil
	}
	return s.local.Top(ctx, mode, limit)
}
