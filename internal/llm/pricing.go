package llm

import "regexp"

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// datedSuffix matches release-date suffixes such as "-20250514" or
// "-2024-08-06" that providers append to served model names.
var datedSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Dated snapshots fall back to their undated family name.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if base := datedSuffix.ReplaceAllString(modelID, ""); base != modelID {
		if c, ok := modelCosts[base]; ok {
			return &c
		}
	}
	return nil
}

// LookupImageCost returns the USD price of one generated image, or false
// when the model and size are not in the table.
func LookupImageCost(model, size string) (float64, bool) {
	c, ok := imageCosts[model+"@"+size]
	return c, ok
}

// modelCosts covers the chat models this service is configured with.
// Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-5":   {5, 25},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	// Google (Gemini)
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}

// imageCosts is keyed by "model@size", USD per image (standard quality).
var imageCosts = map[string]float64{
	"dall-e-3@1024x1024": 0.04,
	"dall-e-3@1024x1792": 0.08,
	"dall-e-3@1792x1024": 0.08,
	"dall-e-2@1024x1024": 0.02,
	"dall-e-2@512x512":   0.018,
	"dall-e-2@256x256":   0.016,
}
