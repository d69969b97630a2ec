package constants

import "time"

// Simulation bounds: a run always produces between Min and Max matches.
// Counts outside the range are clamped at the service boundary before the
// engine is invoked.
const (
	MinSimulatedMatches = 1
	MaxSimulatedMatches = 20
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
