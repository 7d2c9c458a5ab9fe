package result

import (
	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/scenario"
)

// Deviation score bounds.
const (
	MinDeviation = 30
	MaxDeviation = 85
)

// LoveType names the player's overall style.
type LoveType struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GrowthTips holds one piece of advice for strengths and one for
// weaknesses.
type GrowthTips struct {
	StrengthAdvice    string `json:"strengthAdvice"`
	ImprovementAdvice string `json:"improvementAdvice"`
}

// Compatibility describes the kind of partner that suits the player.
type Compatibility struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Report is the end-of-quiz analysis. DeviationScore is computed locally
// from Scores.
type Report struct {
	Scores         evaluation.SkillScores `json:"scores"`
	LoveType       LoveType               `json:"loveType"`
	GrowthTips     GrowthTips             `json:"growthTips"`
	Compatibility  Compatibility          `json:"compatibility"`
	DeviationScore int                    `json:"deviationScore"`
}

// Request carries everything the report is based on. SelectedAnswers[i]
// belongs to Problems[i]; it may be a letter or the chosen text.
type Request struct {
	ProfileData     scenario.Profile   `json:"profileData"`
	Problems        []scenario.Problem `json:"problems" validate:"min=1"`
	SelectedAnswers []string           `json:"selectedAnswers"`
}
