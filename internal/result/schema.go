package result

import (
	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/llm"
)

func textPair(a, b string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			a: map[string]any{"type": "string"},
			b: map[string]any{"type": "string"},
		},
		"required": []any{a, b},
	}
}

var scoreDefinition = map[string]any{"type": "integer", "minimum": 1, "maximum": 99}

// ReportSchema describes the end-of-quiz report payload.
var ReportSchema = &llm.Schema{
	Name:        "love-report",
	Description: "Aggregate skill scores, love type, growth tips and compatibility",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "object",
				"properties": map[string]any{
					evaluation.SkillCare:          scoreDefinition,
					evaluation.SkillObservation:   scoreDefinition,
					evaluation.SkillCommunication: scoreDefinition,
					evaluation.SkillProactivity:   scoreDefinition,
					evaluation.SkillFun:           scoreDefinition,
				},
				"required": []any{
					evaluation.SkillCare,
					evaluation.SkillObservation,
					evaluation.SkillCommunication,
					evaluation.SkillProactivity,
					evaluation.SkillFun,
				},
			},
			"loveType":      textPair("title", "description"),
			"growthTips":    textPair("strengthAdvice", "improvementAdvice"),
			"compatibility": textPair("type", "description"),
		},
		"required": []any{"scores", "loveType", "growthTips", "compatibility"},
	},
}
