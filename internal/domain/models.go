package domain

import (
	"time"
)

// MatchStats is the current input state for a session. All fields are
// clamped to >= 0 at the service boundary before they reach the engine.
type MatchStats struct {
	Kills   int
	Deaths  int
	Assists int
}

// SimulatedMatch is one synthetic match produced by the simulator,
// immutable once created.
type SimulatedMatch struct {
	ID        string // nanoid, assigned on persist
	SessionID string
	Position  int // 1-based order within the run
	Kills     int
	Deaths    int
	Assists   int
	Ratio     float64
	CreatedAt time.Time
}

// GoalSuggestion is an approximate allocation of extra kills/assists needed
// to reach a target ratio in one hypothetical match.
type GoalSuggestion struct {
	Message     string
	NeedKills   int
	NeedAssists int
}

type Session struct {
	ID          string // nanoid
	Stats       MatchStats
	TargetRatio float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
