package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
		input float64
	}{
		{"gpt-4o-mini", true, 0.15},
		{"gpt-4o-mini-2024-07-18", true, 0.15},
		{"claude-haiku-4-5-20251001", true, 1},
		{"gemini-2.0-flash", true, 0.1},
		{"mock", false, 0},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if (c != nil) != tt.found {
			t.Errorf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.found)
			continue
		}
		if c != nil && c.InputPerMTok != tt.input {
			t.Errorf("LookupCost(%q).InputPerMTok = %v, want %v", tt.model, c.InputPerMTok, tt.input)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("Cost() = %v, want 0.45", got)
	}
}

func TestLookupImageCost(t *testing.T) {
	if c, ok := LookupImageCost("dall-e-3", "1024x1024"); !ok || c != 0.04 {
		t.Fatalf("LookupImageCost(dall-e-3, 1024x1024) = %v, %v", c, ok)
	}
	if _, ok := LookupImageCost("dall-e-3", "64x64"); ok {
		t.Fatal("expected unknown size to be missing")
	}
}
