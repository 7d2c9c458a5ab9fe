package scenario

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxQuestionRunes = 400
	maxChoiceRunes   = 150
)

// StructuralValidator checks that the question and all four choices are
// present and within length limits. A missing choice is an error; it is
// never filled with a placeholder.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if strings.TrimSpace(p.Question) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if utf8.RuneCountInString(p.Question) > maxQuestionRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question exceeds %d characters", maxQuestionRunes),
		}
	}
	for _, l := range Letters {
		text := p.Choices.Get(l)
		if strings.TrimSpace(text) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %q is empty", l),
			}
		}
		if utf8.RuneCountInString(text) > maxChoiceRunes {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %q exceeds %d characters", l, maxChoiceRunes),
			}
		}
	}
	return nil
}

// DistinctChoicesValidator rejects problems that repeat a choice.
type DistinctChoicesValidator struct{}

func (v *DistinctChoicesValidator) Name() string { return "distinct-choices" }

func (v *DistinctChoicesValidator) Validate(p *Problem) *ValidationError {
	seen := make(map[string]Letter, len(Letters))
	for _, l := range Letters {
		key := strings.TrimSpace(p.Choices.Get(l))
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choices %q and %q are identical", prev, l),
			}
		}
		seen[key] = l
	}
	return nil
}
