package grading

import (
	"math"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

// StateFor maps a fraction onto cutoffs, which must be ordered highest first.
// Cutoffs are inclusive at their lower bound; a non-positive fraction has no grade.
func StateFor(fraction float64, cutoffs []domain.Cutoff) domain.GradeState {
	if fraction <= 0 || math.IsNaN(fraction) {
		return domain.StateNone
	}
	for _, c := range cutoffs {
		if fraction >= c.Min {
			return domain.GradeState(c.Label)
		}
	}
	return domain.StateFail
}

// CoursePercent rounds a weighted course total to two decimals. The total is
// nudged by 0.05 percentage points and rounded half away from zero.
func CoursePercent(total float64) float64 {
	// rounded before the nudge so no platform fuses it into an FMA
	nudged := float64(total*100) + 0.05
	return roundAwayFromZero(nudged) / 100
}

func roundAwayFromZero(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}
