package scenario

import "github.com/abhisek/lovesim/internal/llm"

var choicesDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"a": map[string]any{"type": "string"},
		"b": map[string]any{"type": "string"},
		"c": map[string]any{"type": "string"},
		"d": map[string]any{"type": "string"},
	},
	"required": []any{"a", "b", "c", "d"},
}

// ProblemsSchema describes the payload the model must return for both the
// opening and the follow-up situations.
var ProblemsSchema = &llm.Schema{
	Name:        "love-scenario",
	Description: "Dating-simulation situations, each with four possible reactions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problems": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":      map[string]any{"type": "string"},
						"choices":       choicesDefinition,
						"estimatedTime": map[string]any{"type": "number"},
					},
					"required": []any{"question", "choices"},
				},
			},
		},
		"required": []any{"problems"},
	},
}
