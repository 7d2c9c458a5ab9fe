// Package progress tracks where a player is within a quiz: which question
// is showing and whether its explanation has been revealed.
package progress

import (
	"errors"
	"fmt"
)

// Phase is the screen the current question is on.
type Phase string

const (
	PhaseProblem     Phase = "problem"
	PhaseExplanation Phase = "explanation"
	PhaseCompleted   Phase = "completed"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current phase.
var ErrInvalidTransition = errors.New("invalid progress transition")

// Snapshot is the client-visible view of a Progress.
type Snapshot struct {
	CurrentQuestionIndex int      `json:"currentQuestionIndex"`
	TotalQuestions       int      `json:"totalQuestions"`
	CurrentPhase         Phase    `json:"currentPhase"`
	IsLastQuestion       bool     `json:"isLastQuestion"`
	SelectedAnswers      []string `json:"selectedAnswers"`
}

// Progress is the quiz state machine. The zero value is the reset state.
// It is not safe for concurrent use.
type Progress struct {
	index   int
	total   int
	phase   Phase
	isLast  bool
	answers []string
}

// New returns a Progress initialized for n questions.
func New(n int) (*Progress, error) {
	p := &Progress{}
	if err := p.Initialize(n); err != nil {
		return nil, err
	}
	return p, nil
}

// Initialize starts a quiz of n questions at the first question.
func (p *Progress) Initialize(n int) error {
	if n < 1 {
		return fmt.Errorf("initialize with %d questions: %w", n, ErrInvalidTransition)
	}
	p.index = 0
	p.total = n
	p.phase = PhaseProblem
	p.isLast = n == 1
	p.answers = make([]string, n)
	return nil
}

// ConfirmAnswer reveals the explanation for the current question.
func (p *Progress) ConfirmAnswer() error {
	if p.total == 0 || p.Phase() != PhaseProblem {
		return fmt.Errorf("confirm answer in phase %q: %w", p.Phase(), ErrInvalidTransition)
	}
	p.phase = PhaseExplanation
	return nil
}

// Advance leaves the explanation, either to the next question or to the
// completed phase after the last one.
func (p *Progress) Advance() error {
	if p.phase != PhaseExplanation {
		return fmt.Errorf("advance in phase %q: %w", p.Phase(), ErrInvalidTransition)
	}
	if p.isLast {
		p.phase = PhaseCompleted
		return nil
	}
	p.index++
	p.phase = PhaseProblem
	p.isLast = p.index == p.total-1
	return nil
}

// Reset returns to the zero state.
func (p *Progress) Reset() {
	*p = Progress{}
}

// SetSelectedAnswer records the answer for question i.
func (p *Progress) SetSelectedAnswer(i int, answer string) error {
	if i < 0 || i >= len(p.answers) {
		return fmt.Errorf("answer index %d out of range [0,%d)", i, len(p.answers))
	}
	p.answers[i] = answer
	return nil
}

// SelectedAnswer returns the answer recorded for question i.
func (p *Progress) SelectedAnswer(i int) (string, bool) {
	if i < 0 || i >= len(p.answers) {
		return "", false
	}
	return p.answers[i], true
}

// Answers returns a copy of all recorded answers.
func (p *Progress) Answers() []string {
	out := make([]string, len(p.answers))
	copy(out, p.answers)
	return out
}

// Index returns the zero-based current question.
func (p *Progress) Index() int { return p.index }

// Total returns the number of questions.
func (p *Progress) Total() int { return p.total }

func (p *Progress) IsLastQuestion() bool { return p.isLast }

// Phase returns the current phase. The zero value reports PhaseProblem.
func (p *Progress) Phase() Phase {
	if p.phase == "" {
		return PhaseProblem
	}
	return p.phase
}

// Snapshot returns a copy of the state for rendering.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		CurrentQuestionIndex: p.index,
		TotalQuestions:       p.total,
		CurrentPhase:         p.Phase(),
		IsLastQuestion:       p.isLast,
		SelectedAnswers:      p.Answers(),
	}
}
