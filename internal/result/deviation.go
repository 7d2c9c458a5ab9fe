package result

import (
	"math"

	"github.com/abhisek/lovesim/internal/evaluation"
)

// DeviationScore condenses the five axes into one number: the rounded
// mean, clamped to [MinDeviation, MaxDeviation].
func DeviationScore(s evaluation.SkillScores) int {
	sum := 0
	n := 0
	s.Each(func(_ string, score int) {
		sum += score
		n++
	})
	mean := int(math.Round(float64(sum) / float64(n)))
	return min(max(mean, MinDeviation), MaxDeviation)
}
