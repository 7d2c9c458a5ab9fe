package evaluation

import (
	"fmt"
	"strings"

	"github.com/abhisek/lovesim/internal/scenario"
)

// itemsPerList is the exact number of strengths, improvements and tips
// each choice carries.
const itemsPerList = 2

// Validator checks a decoded evaluation before it is returned.
type Validator interface {
	Name() string
	Validate(ev *Evaluation) *ValidationError
}

// ValidationError describes why an evaluation was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// CompletenessValidator requires all four letters, scores within 1..99 and
// exactly two non-empty items in every list.
type CompletenessValidator struct{}

func (v *CompletenessValidator) Name() string { return "completeness" }

func (v *CompletenessValidator) Validate(ev *Evaluation) *ValidationError {
	for _, l := range scenario.Letters {
		c := ev.Explanations[l]
		if c == nil {
			return v.fail("choice %q has no explanation", l)
		}
		var bad string
		c.SkillScores.Each(func(name string, score int) {
			if bad == "" && (score < 1 || score > 99) {
				bad = fmt.Sprintf("choice %q: %s score %d outside 1..99", l, name, score)
			}
		})
		if bad != "" {
			return &ValidationError{Validator: v.Name(), Message: bad}
		}
		lists := []struct {
			name  string
			items []Item
		}{
			{"strengths", c.Strengths},
			{"improvements", c.Improvements},
			{"tips", c.Tips},
		}
		for _, list := range lists {
			if len(list.items) != itemsPerList {
				return v.fail("choice %q: %s has %d items, want %d", l, list.name, len(list.items), itemsPerList)
			}
			for i, it := range list.items {
				if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Description) == "" {
					return v.fail("choice %q: %s[%d] is incomplete", l, list.name, i)
				}
			}
		}
	}
	return nil
}

func (v *CompletenessValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
}

// LabelValidator enforces the label distribution: every label is known,
// exactly one choice is BEST and at least one is BAD.
type LabelValidator struct{}

func (v *LabelValidator) Name() string { return "labels" }

func (v *LabelValidator) Validate(ev *Evaluation) *ValidationError {
	counts := map[Label]int{}
	for _, l := range scenario.Letters {
		c := ev.Explanations[l]
		if c == nil {
			continue
		}
		if !c.Label.Valid() {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %q has unknown label %q", l, c.Label),
			}
		}
		counts[c.Label]++
	}
	if counts[LabelBest] != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("want exactly one BEST, got %d", counts[LabelBest]),
		}
	}
	if counts[LabelBad] < 1 {
		return &ValidationError{Validator: v.Name(), Message: "want at least one BAD"}
	}
	return nil
}
