package scenario

import (
	"fmt"
	"strings"
	"time"
)

// Letter identifies one of the four choices.
type Letter string

const (
	LetterA Letter = "a"
	LetterB Letter = "b"
	LetterC Letter = "c"
	LetterD Letter = "d"
)

// Letters lists the choice letters in display order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

// ParseLetter accepts "a".."d" in either case.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Letters {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown choice %q", s)
}

// Upper returns the letter as shown in prompts, e.g. "A".
func (l Letter) Upper() string { return strings.ToUpper(string(l)) }

// Choices holds the four options of a problem.
type Choices struct {
	A string `json:"a" validate:"notblank"`
	B string `json:"b" validate:"notblank"`
	C string `json:"c" validate:"notblank"`
	D string `json:"d" validate:"notblank"`
}

// Get returns the text for l.
func (c Choices) Get(l Letter) string {
	switch l {
	case LetterA:
		return c.A
	case LetterB:
		return c.B
	case LetterC:
		return c.C
	case LetterD:
		return c.D
	}
	return ""
}

// Problem types and the fixed difficulty.
const (
	TypeLove          = "love"
	TypeGeneral       = "general"
	SubjectLove       = "love"
	DifficultyDefault = "medium"
)

// Problem is one situation with four possible reactions.
type Problem struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Subject    string      `json:"subject,omitempty"`
	Difficulty string      `json:"difficulty"`
	Question   string      `json:"question"`
	Choices    Choices     `json:"choices"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
	SceneImage *SceneImage `json:"sceneImage,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Metadata carries descriptive extras about a problem.
type Metadata struct {
	Topic         string   `json:"topic,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	EstimatedTime int      `json:"estimatedTime,omitempty"`
	Model         string   `json:"model,omitempty"`
}

// SceneImage illustrates a problem. Data is a data URI; URL is a remote
// location. At most one is normally set.
type SceneImage struct {
	Data string `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Person is one side of the simulated relationship.
type Person struct {
	Age                 string `json:"age" validate:"notblank"`
	Gender              string `json:"gender" validate:"notblank"`
	Occupation          string `json:"occupation" validate:"notblank"`
	Traits              string `json:"traits" validate:"notblank"`
	Preference          string `json:"preference" validate:"notblank"`
	Background          string `json:"background" validate:"notblank"`
	DetailedDescription string `json:"detailedDescription" validate:"notblank"`
}

// Profile is the player's setup for a simulation.
type Profile struct {
	My                Person `json:"my"`
	Partner           Person `json:"partner"`
	Relationship      string `json:"relationship" validate:"notblank"`
	Stage             string `json:"stage" validate:"notblank"`
	Goal              string `json:"goal" validate:"notblank"`
	NumberOfQuestions string `json:"numberOfQuestions"`
}

// Topic joins relationship, stage and goal, skipping empty parts.
func (p Profile) Topic() string {
	var parts []string
	for _, s := range []string{p.Relationship, p.Stage, p.Goal} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}

// NextInput describes the situation just answered.
type NextInput struct {
	PreviousQuestion string  `json:"previousQuestion" validate:"notblank"`
	PreviousChoices  Choices `json:"previousChoices"`
	SelectedChoice   Letter  `json:"selectedChoice" validate:"oneof=a b c d"`
}
