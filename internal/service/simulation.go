package service

import (
	"context"
	"fmt"
	"math/rand"

	"kda-engine/internal/constants"
	"kda-engine/internal/domain"
	"kda-engine/internal/engine"

	"github.com/rs/zerolog"
)

// randSource draws from math/rand's global generator, which is safe for
// concurrent handlers.
type randSource struct{}

func (randSource) Float64() float64 { return rand.Float64() }

func NewRandSource() engine.Source { return randSource{} }

type SimulationService struct {
	sessions SessionStore
	history  HistoryStore
	src      engine.Source
	logger   zerolog.Logger
}

func NewSimulationService(sessions SessionStore, history HistoryStore, src engine.Source, logger zerolog.Logger) *SimulationService {
	return &SimulationService{sessions: sessions, history: history, src: src, logger: logger}
}

// Run simulates count hypothetical matches around the session's current
// stats and replaces the stored history with the result. The count is
// clamped to the valid range before the engine sees it.
func (s *SimulationService) Run(ctx context.Context, sessionID string, count int) ([]domain.SimulatedMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	count = clampMatchCount(count)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	matches := engine.Simulate(session.Stats, count, s.src)

	stored, err := s.history.Replace(ctx, sessionID, matches)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to store simulation run")
		return nil, fmt.Errorf("failed to store simulation run: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("match_count", len(stored)).
		Msg("simulation run stored")
	return stored, nil
}

func (s *SimulationService) History(ctx context.Context, sessionID string) ([]domain.SimulatedMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	// Resolve the session first so a bad id is a not-found, not an empty list.
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.history.ListBySession(ctx, sessionID)
}

func (s *SimulationService) ClearHistory(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.history.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("history cleared")
	return nil
}

func clampMatchCount(count int) int {
	if count < constants.MinSimulatedMatches {
		return constants.MinSimulatedMatches
	}
	if count > constants.MaxSimulatedMatches {
		return constants.MaxSimulatedMatches
	}
	return count
}
