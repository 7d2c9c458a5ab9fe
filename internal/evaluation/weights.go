package evaluation

import (
	"math"
	"strings"
)

// WeightTable holds the multiplier applied to each axis when ranking
// choices.
type WeightTable struct {
	Care          float64 `json:"思いやり"`
	Observation   float64 `json:"観察力"`
	Communication float64 `json:"コミュニケーション"`
	Proactivity   float64 `json:"積極性"`
	Fun           float64 `json:"面白さ"`
}

// confessionBoost is added to communication and proactivity when the
// player is working toward a confession.
const confessionBoost = 0.2

// Weights returns the axis weights for a relationship stage and goal.
// Care and fun weigh 1.2, the rest 1.0; a confession in either the stage
// or the goal raises communication and proactivity by 0.2.
func Weights(stage, goal string) WeightTable {
	w := WeightTable{
		Care:          1.2,
		Observation:   1.0,
		Communication: 1.0,
		Proactivity:   1.0,
		Fun:           1.2,
	}
	if mentionsConfession(stage) || mentionsConfession(goal) {
		w.Communication += confessionBoost
		w.Proactivity += confessionBoost
	}
	return w
}

func mentionsConfession(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "告白") || strings.Contains(s, "confess")
}

// WeightedScore is the weighted sum of the five axes, rounded to two
// decimals.
func WeightedScore(s SkillScores, w WeightTable) float64 {
	sum := float64(s.Care)*w.Care +
		float64(s.Observation)*w.Observation +
		float64(s.Communication)*w.Communication +
		float64(s.Proactivity)*w.Proactivity +
		float64(s.Fun)*w.Fun
	return math.Round(sum*100) / 100
}
