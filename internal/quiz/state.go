package quiz

import (
	"errors"

	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/progress"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
)

var (
	// ErrBusy is returned when the session already has an operation in
	// flight.
	ErrBusy = errors.New("another quiz operation is in progress")

	// ErrNotStarted is returned when the session has no quiz.
	ErrNotStarted = errors.New("quiz not started")
)

// State is one session's quiz.
type State struct {
	Profile     scenario.Profile
	Problems    []scenario.Problem
	Evaluations []*evaluation.Evaluation
	Progress    *progress.Progress
	Result      *result.Report

	// upcoming is the follow-up prepared while the last answer was graded.
	upcoming *scenario.Problem
}

func newState(profile scenario.Profile, first scenario.Problem) (*State, error) {
	p, err := progress.New(scenario.ClampCount(profile.NumberOfQuestions))
	if err != nil {
		return nil, err
	}
	return &State{
		Profile:     profile,
		Problems:    []scenario.Problem{first},
		Evaluations: make([]*evaluation.Evaluation, p.Total()),
		Progress:    p,
	}, nil
}

func (s *State) current() *scenario.Problem {
	i := s.Progress.Index()
	if i < len(s.Problems) {
		return &s.Problems[i]
	}
	return nil
}

// Snapshot is the client view of a quiz.
type Snapshot struct {
	Problem    *scenario.Problem      `json:"problem,omitempty"`
	Evaluation *evaluation.Evaluation `json:"evaluation,omitempty"`
	Result     *result.Report         `json:"result,omitempty"`
	Progress   progress.Snapshot      `json:"progress"`
}

func (s *State) snapshot() *Snapshot {
	snap := &Snapshot{
		Problem:  s.current(),
		Progress: s.Progress.Snapshot(),
	}
	if s.Progress.Phase() != progress.PhaseProblem {
		snap.Evaluation = s.Evaluations[s.Progress.Index()]
	}
	if s.Progress.Phase() == progress.PhaseCompleted {
		snap.Result = s.Result
	}
	return snap
}

// AnswerResult is the composite reply to an answer: the grading plus
// either the next problem or the final report.
type AnswerResult struct {
	Evaluation *evaluation.Evaluation `json:"evaluation"`
	Next       *scenario.Problem      `json:"next,omitempty"`
	Result     *result.Report         `json:"result,omitempty"`
	Progress   progress.Snapshot      `json:"progress"`
}
