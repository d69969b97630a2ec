package service

import (
	"context"

	"kda-engine/internal/domain"
)

// SessionStore is the persistence surface the services need for sessions.
// Satisfied by repository.SessionRepository; tests use in-memory fakes.
type SessionStore interface {
	Create(ctx context.Context, stats domain.MatchStats, target float64) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	UpdateStats(ctx context.Context, id string, stats domain.MatchStats) error
	SetTargetRatio(ctx context.Context, id string, target float64) error
	Delete(ctx context.Context, id string) error
}

// HistoryStore persists simulated-match history for a session.
type HistoryStore interface {
	Replace(ctx context.Context, sessionID string, matches []domain.SimulatedMatch) ([]domain.SimulatedMatch, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.SimulatedMatch, error)
	Clear(ctx context.Context, sessionID string) error
}
