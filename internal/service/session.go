package service

import (
	"context"
	"fmt"

	"kda-engine/internal/constants"
	"kda-engine/internal/domain"
	"kda-engine/internal/engine"

	"github.com/rs/zerolog"
)

type SessionService struct {
	sessions SessionStore
	logger   zerolog.Logger
}

func NewSessionService(sessions SessionStore, logger zerolog.Logger) *SessionService {
	return &SessionService{sessions: sessions, logger: logger}
}

func (s *SessionService) Create(ctx context.Context, stats domain.MatchStats, target float64) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stats = clampStats(stats)
	target = clampTarget(target)

	session, err := s.sessions.Create(ctx, stats, target)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Int("kills", stats.Kills).
		Int("deaths", stats.Deaths).
		Int("assists", stats.Assists).
		Float64("target_ratio", target).
		Msg("session created")
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.sessions.Get(ctx, id)
}

// UpdateStats clamps the incoming stats to the engine's valid domain and
// persists them, returning the refreshed session.
func (s *SessionService) UpdateStats(ctx context.Context, id string, stats domain.MatchStats) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stats = clampStats(stats)
	if err := s.sessions.UpdateStats(ctx, id, stats); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", id).
		Int("kills", stats.Kills).
		Int("deaths", stats.Deaths).
		Int("assists", stats.Assists).
		Msg("session stats updated")
	return s.sessions.Get(ctx, id)
}

func (s *SessionService) SetTargetRatio(ctx context.Context, id string, target float64) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	target = clampTarget(target)
	if err := s.sessions.SetTargetRatio(ctx, id, target); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("session_id", id).Float64("target_ratio", target).Msg("target ratio updated")
	return s.sessions.Get(ctx, id)
}

// SuggestGoal computes the kills/assists still needed to reach the target
// ratio. A non-nil target overrides the session's stored one for this call
// only.
func (s *SessionService) SuggestGoal(ctx context.Context, id string, target *float64) (domain.GoalSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.GoalSuggestion{}, err
	}

	t := session.TargetRatio
	if target != nil {
		t = clampTarget(*target)
	}

	suggestion := engine.SuggestGoal(session.Stats, t)
	s.logger.Debug().
		Str("session_id", id).
		Float64("target_ratio", t).
		Int("need_kills", suggestion.NeedKills).
		Int("need_assists", suggestion.NeedAssists).
		Msg("goal suggested")
	return suggestion, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// clampStats floors every field at zero. The engine treats negative inputs
// as a caller precondition violation, so the clamp lives here.
func clampStats(stats domain.MatchStats) domain.MatchStats {
	if stats.Kills < 0 {
		stats.Kills = 0
	}
	if stats.Deaths < 0 {
		stats.Deaths = 0
	}
	if stats.Assists < 0 {
		stats.Assists = 0
	}
	return stats
}

func clampTarget(target float64) float64 {
	if target < 0 {
		return 0
	}
	return target
}
