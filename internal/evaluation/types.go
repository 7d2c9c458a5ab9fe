package evaluation

import (
	"encoding/json"

	"github.com/abhisek/lovesim/internal/scenario"
)

// Label grades one choice relative to the others.
type Label string

const (
	LabelBest Label = "BEST"
	LabelGood Label = "GOOD"
	LabelBad  Label = "BAD"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return l == LabelBest || l == LabelGood || l == LabelBad
}

// Skill axis names as they appear in JSON.
const (
	SkillCare          = "思いやり"
	SkillObservation   = "観察力"
	SkillCommunication = "コミュニケーション"
	SkillProactivity   = "積極性"
	SkillFun           = "面白さ"
)

// SkillScores rates a behaviour on the five axes, each 1 to 99.
type SkillScores struct {
	Care          int `json:"思いやり"`
	Observation   int `json:"観察力"`
	Communication int `json:"コミュニケーション"`
	Proactivity   int `json:"積極性"`
	Fun           int `json:"面白さ"`
}

// Each calls fn for every axis in display order.
func (s SkillScores) Each(fn func(name string, score int)) {
	fn(SkillCare, s.Care)
	fn(SkillObservation, s.Observation)
	fn(SkillCommunication, s.Communication)
	fn(SkillProactivity, s.Proactivity)
	fn(SkillFun, s.Fun)
}

// Item is a titled one-line remark.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChoiceExplanation is the grading of one choice. WeightedScore is computed
// locally from SkillScores; every other field comes from the model.
type ChoiceExplanation struct {
	Label         Label       `json:"label"`
	LabelReason   string      `json:"labelReason"`
	SkillScores   SkillScores `json:"skillScores"`
	Strengths     []Item      `json:"strengths"`
	Improvements  []Item      `json:"improvements"`
	Tips          []Item      `json:"tips"`
	WeightedScore float64     `json:"weightedScore"`
}

// Evaluation grades all four choices of a problem.
type Evaluation struct {
	Explanations   map[scenario.Letter]*ChoiceExplanation `json:"explanations"`
	SelectedChoice scenario.Letter                        `json:"selectedChoice,omitempty"`
}

// Selected returns the explanation for the chosen letter.
func (e *Evaluation) Selected() *ChoiceExplanation {
	if e == nil {
		return nil
	}
	return e.Explanations[e.SelectedChoice]
}

// Best returns the letter labelled BEST, or "" when none is.
func (e *Evaluation) Best() scenario.Letter {
	for _, l := range scenario.Letters {
		if c := e.Explanations[l]; c != nil && c.Label == LabelBest {
			return l
		}
	}
	return ""
}

// Request asks for the grading of a problem's choices. Stage and Goal are
// optional profile hints that adjust the axis weights.
type Request struct {
	Question       string           `json:"question" validate:"notblank"`
	Choices        scenario.Choices `json:"choices"`
	SelectedChoice scenario.Letter  `json:"selectedChoice" validate:"oneof=a b c d"`
	QuestionType   string           `json:"questionType"`
	Subject        string           `json:"subject,omitempty"`
	Context        json.RawMessage  `json:"context,omitempty"`
	Stage          string           `json:"stage,omitempty"`
	Goal           string           `json:"goal,omitempty"`
}
