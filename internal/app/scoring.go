package app

import (
	"sort"

	"snarkel-service/internal/domain"
)

// Score evaluates a submission against a question. It returns whether the
// selected option set exactly matches the correct set, and the points
// earned: base points plus a speed bonus proportional to time remaining.
// timeRemaining must already be clamped to [0, timeLimit] by the caller.
//
// The bonus is computed with integer arithmetic, rounding half up, so
// scoring is deterministic across platforms.
func Score(optionIDs []string, timeRemaining int, q domain.Question, cfg domain.ScoringConfig) (bool, int) {
	if !sameOptionSet(optionIDs, q.CorrectOptionIDs()) {
		return false, 0
	}

	points := cfg.BasePointsPerQuestion
	if cfg.SpeedBonusEnabled && cfg.MaxSpeedBonus > 0 {
		limit := q.TimeLimit
		if limit <= 0 {
			limit = defaultTimeLimit
		}
		if timeRemaining < 0 {
			timeRemaining = 0
		}
		if timeRemaining > limit {
			timeRemaining = limit
		}
		bonus := (cfg.MaxSpeedBonus*timeRemaining + limit/2) / limit
		if bonus > cfg.MaxSpeedBonus {
			bonus = cfg.MaxSpeedBonus
		}
		points += bonus
	}
	return true, points
}

const defaultTimeLimit = 15

// sameOptionSet compares two option ID slices as sets.
func sameOptionSet(got, want []string) bool {
	if len(got) != len(want) || len(want) == 0 {
		return false
	}
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}
