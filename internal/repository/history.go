package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kda-engine/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type HistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{db: sqlDB, logger: logger}
}

// Replace swaps a session's entire stored history for the given matches in
// one transaction. History is always overwritten wholesale, never merged.
func (r *HistoryRepository) Replace(ctx context.Context, sessionID string, matches []domain.SimulatedMatch) ([]domain.SimulatedMatch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM simulated_matches WHERE session_id = ?`, sessionID); err != nil {
		return nil, fmt.Errorf("failed to clear previous history: %w", err)
	}

	now := time.Now()
	stored := make([]domain.SimulatedMatch, 0, len(matches))
	for _, m := range matches {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}

		m.ID = id
		m.SessionID = sessionID
		m.CreatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO simulated_matches (id, session_id, position, kills, deaths, assists, ratio, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.SessionID, m.Position, m.Kills, m.Deaths, m.Assists, m.Ratio, m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert simulated match %d: %w", m.Position, err)
		}
		stored = append(stored, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit history: %w", err)
	}

	r.logger.Debug().Str("session_id", sessionID).Int("match_count", len(stored)).Msg("history replaced")
	return stored, nil
}

func (r *HistoryRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SimulatedMatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, position, kills, deaths, assists, ratio, created_at
		 FROM simulated_matches WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to query history")
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var matches []domain.SimulatedMatch
	for rows.Next() {
		var m domain.SimulatedMatch
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Position, &m.Kills, &m.Deaths, &m.Assists, &m.Ratio, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan simulated match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return matches, nil
}

func (r *HistoryRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM simulated_matches WHERE session_id = ?`, sessionID)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear history")
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
