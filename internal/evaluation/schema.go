package evaluation

import "github.com/abhisek/lovesim/internal/llm"

var scoreDefinition = map[string]any{"type": "integer", "minimum": 1, "maximum": 99}

var itemsDefinition = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []any{"title", "description"},
	},
}

var choiceDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"label":       map[string]any{"type": "string", "enum": []any{"BEST", "GOOD", "BAD"}},
		"labelReason": map[string]any{"type": "string"},
		"skillScores": map[string]any{
			"type": "object",
			"properties": map[string]any{
				SkillCare:          scoreDefinition,
				SkillObservation:   scoreDefinition,
				SkillCommunication: scoreDefinition,
				SkillProactivity:   scoreDefinition,
				SkillFun:           scoreDefinition,
			},
			"required": []any{SkillCare, SkillObservation, SkillCommunication, SkillProactivity, SkillFun},
		},
		"strengths":    itemsDefinition,
		"improvements": itemsDefinition,
		"tips":         itemsDefinition,
	},
	"required": []any{"label", "labelReason", "skillScores", "strengths", "improvements", "tips"},
}

// EvaluationSchema describes the grading payload for all four choices.
var EvaluationSchema = &llm.Schema{
	Name:        "choice-evaluation",
	Description: "Label, skill scores and advice for each of the four choices",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanations": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": choiceDefinition,
					"b": choiceDefinition,
					"c": choiceDefinition,
					"d": choiceDefinition,
				},
				"required": []any{"a", "b", "c", "d"},
			},
		},
		"required": []any{"explanations"},
	},
}
