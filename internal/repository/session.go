package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kda-engine/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned when a session id matches no row.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSessionRepository(sqlDB *sql.DB, logger zerolog.Logger) *SessionRepository {
	return &SessionRepository{db: sqlDB, logger: logger}
}

func (r *SessionRepository) Create(ctx context.Context, stats domain.MatchStats, target float64) (*domain.Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:          id,
		Stats:       stats,
		TargetRatio: target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, kills, deaths, assists, target_ratio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, stats.Kills, stats.Deaths, stats.Assists, target, now, now)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to insert session")
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	r.logger.Debug().Str("session_id", id).Msg("session created")
	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kills, deaths, assists, target_ratio, created_at, updated_at
		 FROM sessions WHERE id = ?`, id)

	var s domain.Session
	err := row.Scan(&s.ID, &s.Stats.Kills, &s.Stats.Deaths, &s.Stats.Assists,
		&s.TargetRatio, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to load session")
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) UpdateStats(ctx context.Context, id string, stats domain.MatchStats) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET kills = ?, deaths = ?, assists = ?, updated_at = ? WHERE id = ?`,
		stats.Kills, stats.Deaths, stats.Assists, time.Now(), id)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to update session stats")
		return fmt.Errorf("failed to update session stats: %w", err)
	}
	return r.requireRow(res, id)
}

func (r *SessionRepository) SetTargetRatio(ctx context.Context, id string, target float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET target_ratio = ?, updated_at = ? WHERE id = ?`,
		target, time.Now(), id)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to update target ratio")
		return fmt.Errorf("failed to update target ratio: %w", err)
	}
	return r.requireRow(res, id)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return r.requireRow(res, id)
}

// requireRow converts a zero-row write into ErrSessionNotFound.
func (r *SessionRepository) requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		r.logger.Debug().Str("session_id", id).Msg("write touched no rows")
		return ErrSessionNotFound
	}
	return nil
}
