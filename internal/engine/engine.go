// Package engine holds the pure KDA computations: the ratio formula, the
// goal-suggestion heuristic and the match simulator. Nothing in here does
// I/O or keeps state; callers own the inputs and clamp them to valid
// ranges before calling in.
package engine

import (
	"fmt"
	"math"

	"kda-engine/internal/domain"
)

// Source supplies uniform draws in [0, 1). *math/rand.Rand satisfies it;
// tests inject a fixed sequence.
type Source interface {
	Float64() float64
}

// GoalMetMessage is returned when the current stats already reach the target.
const GoalMetMessage = "goal already met"

// assistWeight discounts existing assists when deciding how much of the
// missing contribution to ask for as kills. The resulting split is a rough
// bias toward kills, not a minimal allocation, and NeedKills+NeedAssists can
// differ from ceil(missing) because the two terms round independently.
const assistWeight = 0.6

// Simulator noise parameters: each drawn stat is the base value shifted by
// (U-bias)*spread, rounded, floored at 0.
const (
	killsBias     = 0.3
	killsSpread   = 3
	deathsBias    = 0.5
	deathsSpread  = 2
	assistsBias   = 0.2
	assistsSpread = 4
)

// ComputeRatio returns (kills+assists) / max(1, deaths). The denominator
// floor makes the function total; deaths = 0 yields kills+assists.
func ComputeRatio(kills, deaths, assists int) float64 {
	d := deaths
	if d < 1 {
		d = 1
	}
	return float64(kills+assists) / float64(d)
}

// FormatRatio renders a ratio for display with two decimal digits. Display
// only: the rounded string must never feed back into further computation.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2f", r)
}

// SuggestGoal estimates how many extra kills and assists would lift the
// given stats to the target ratio in one hypothetical match.
func SuggestGoal(stats domain.MatchStats, target float64) domain.GoalSuggestion {
	d := stats.Deaths
	if d < 1 {
		d = 1
	}
	current := float64(stats.Kills + stats.Assists)
	required := target * float64(d)
	missing := required - current

	if missing <= 0 {
		return domain.GoalSuggestion{Message: GoalMetMessage}
	}

	needKills := int(math.Ceil(math.Max(0, missing-assistWeight*float64(stats.Assists))))
	needAssists := int(math.Ceil(math.Max(0, missing-float64(needKills))))

	return domain.GoalSuggestion{
		Message:     fmt.Sprintf("need about %d more kills and %d more assists to reach %s", needKills, needAssists, FormatRatio(target)),
		NeedKills:   needKills,
		NeedAssists: needAssists,
	}
}

// Simulate draws count hypothetical matches around the base stats and
// returns them eagerly, in draw order, with Position starting at 1. The
// caller clamps count to the valid [1, 20] range beforehand; behavior for
// other counts is undefined. Each iteration draws kills, deaths and assists
// from src in that order.
func Simulate(base domain.MatchStats, count int, src Source) []domain.SimulatedMatch {
	matches := make([]domain.SimulatedMatch, 0, count)
	for i := 0; i < count; i++ {
		kills := perturb(base.Kills, src.Float64(), killsBias, killsSpread)
		deaths := perturb(base.Deaths, src.Float64(), deathsBias, deathsSpread)
		assists := perturb(base.Assists, src.Float64(), assistsBias, assistsSpread)

		matches = append(matches, domain.SimulatedMatch{
			Position: i + 1,
			Kills:    kills,
			Deaths:   deaths,
			Assists:  assists,
			Ratio:    ComputeRatio(kills, deaths, assists),
		})
	}
	return matches
}

func perturb(base int, u, bias, spread float64) int {
	v := int(math.Round(float64(base) + (u-bias)*spread))
	if v < 0 {
		return 0
	}
	return v
}
