package service

import (
	"context"
	"fmt"
	"strings"

	"kda-engine/internal/constants"
	"kda-engine/internal/domain"
	"kda-engine/internal/engine"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ExportService struct {
	sessions SessionStore
	history  HistoryStore
	logger   zerolog.Logger
}

func NewExportService(sessions SessionStore, history HistoryStore, logger zerolog.Logger) *ExportService {
	return &ExportService{sessions: sessions, history: history, logger: logger}
}

// Snapshot renders a plain-text summary of the session: current stats, the
// computed ratio, the goal line and any stored simulated matches. It is a
// display blob, not a persisted file format.
func (s *ExportService) Snapshot(ctx context.Context, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var session *domain.Session
	var matches []domain.SimulatedMatch

	g.Go(func() error {
		var err error
		session, err = s.sessions.Get(gCtx, sessionID)
		return err
	})

	g.Go(func() error {
		var err error
		matches, err = s.history.ListBySession(gCtx, sessionID)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", err
	}

	s.logger.Debug().Str("session_id", sessionID).Int("match_count", len(matches)).Msg("rendering export snapshot")
	return renderSnapshot(session, matches), nil
}

func renderSnapshot(session *domain.Session, matches []domain.SimulatedMatch) string {
	ratio := engine.ComputeRatio(session.Stats.Kills, session.Stats.Deaths, session.Stats.Assists)
	goal := engine.SuggestGoal(session.Stats, session.TargetRatio)

	var b strings.Builder
	fmt.Fprintf(&b, "KDA Session %s\n", session.ID)
	fmt.Fprintf(&b, "Kills:   %d\n", session.Stats.Kills)
	fmt.Fprintf(&b, "Deaths:  %d\n", session.Stats.Deaths)
	fmt.Fprintf(&b, "Assists: %d\n", session.Stats.Assists)
	fmt.Fprintf(&b, "KDA Ratio: %s\n", engine.FormatRatio(ratio))
	fmt.Fprintf(&b, "Target Ratio: %s\n", engine.FormatRatio(session.TargetRatio))
	fmt.Fprintf(&b, "Goal: %s\n", goal.Message)

	if len(matches) == 0 {
		b.WriteString("\nNo simulated matches.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nSimulated Matches (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&b, "  %2d. %dK / %dD / %dA  ratio %s\n",
			m.Position, m.Kills, m.Deaths, m.Assists, engine.FormatRatio(m.Ratio))
	}
	return b.String()
}
