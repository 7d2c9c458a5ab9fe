// Package quiz runs a whole simulation on the server: it keeps each
// session's problems, answers and progress, and drives the scenario,
// evaluation and result orchestrators as the player answers.
package quiz

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/progress"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/session"
)

// Scenarios produces problems.
type Scenarios interface {
	Generate(ctx context.Context, sess session.Context, profile scenario.Profile) ([]scenario.Problem, error)
	Next(ctx context.Context, sess session.Context, in scenario.NextInput) (*scenario.Problem, error)
}

// Grader evaluates an answered problem.
type Grader interface {
	Evaluate(ctx context.Context, sess session.Context, req evaluation.Request) (*evaluation.Evaluation, error)
}

// Reporter builds the final report.
type Reporter interface {
	Aggregate(ctx context.Context, sess session.Context, req result.Request) (*result.Report, error)
}

// Service is the stateful quiz workflow.
type Service struct {
	scenarios Scenarios
	grader    Grader
	reporter  Reporter
	store     *Store
	memory    *llm.Memory
	events    *ops.Bus
}

// NewService wires the workflow. memory and events may be nil; when memory
// is set, a reset also forgets the session's conversation.
func NewService(scenarios Scenarios, grader Grader, reporter Reporter, store *Store, memory *llm.Memory, events *ops.Bus) *Service {
	return &Service{
		scenarios: scenarios,
		grader:    grader,
		reporter:  reporter,
		store:     store,
		memory:    memory,
		events:    events,
	}
}

// Start generates the first problem and replaces any quiz the session had.
func (s *Service) Start(ctx context.Context, sess session.Context, profile scenario.Profile) (*Snapshot, error) {
	e, err := s.store.lock(sess.ID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	problems, err := s.scenarios.Generate(ctx, sess, profile)
	if err != nil {
		return nil, err
	}
	st, err := newState(profile, problems[0])
	if err != nil {
		return nil, err
	}
	e.state = st
	e.commit()

	s.events.Emit(ops.SourceWorkflow, "quiz-started", stepID(0), map[string]any{
		"totalQuestions": st.Progress.Total(),
	})
	return st.snapshot(), nil
}

// Answer records the choice for the current problem. It grades the answer
// and, at the same time, prepares the next problem or, after the last
// question, the final report. Nothing changes if either call fails.
func (s *Service) Answer(ctx context.Context, sess session.Context, choice scenario.Letter) (*AnswerResult, error) {
	e, err := s.store.lock(sess.ID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	st := e.state
	if st == nil {
		return nil, ErrNotStarted
	}
	if st.Progress.Phase() != progress.PhaseProblem {
		return nil, fmt.Errorf("answer in phase %q: %w", st.Progress.Phase(), progress.ErrInvalidTransition)
	}

	index := st.Progress.Index()
	current := st.current()
	s.events.Emit(ops.SourceUser, "answer-selected", stepID(index), map[string]any{"choice": choice})

	answers := st.Progress.Answers()
	answers[index] = string(choice)

	var (
		ev     *evaluation.Evaluation
		next   *scenario.Problem
		report *result.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ev, err = s.grader.Evaluate(gctx, sess, evaluation.Request{
			Question:       current.Question,
			Choices:        current.Choices,
			SelectedChoice: choice,
			QuestionType:   current.Type,
			Subject:        current.Subject,
			Stage:          st.Profile.Stage,
			Goal:           st.Profile.Goal,
		})
		return err
	})
	if st.Progress.IsLastQuestion() {
		g.Go(func() error {
			var err error
			report, err = s.reporter.Aggregate(gctx, sess, result.Request{
				ProfileData:     st.Profile,
				Problems:        st.Problems,
				SelectedAnswers: answers,
			})
			return err
		})
	} else {
		g.Go(func() error {
			var err error
			next, err = s.scenarios.Next(gctx, sess, scenario.NextInput{
				PreviousQuestion: current.Question,
				PreviousChoices:  current.Choices,
				SelectedChoice:   choice,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logging.FromContext(ctx).Warn("answer processing failed", zap.Int("index", index), zap.Error(err))
		return nil, err
	}

	if err := st.Progress.SetSelectedAnswer(index, string(choice)); err != nil {
		return nil, err
	}
	if err := st.Progress.ConfirmAnswer(); err != nil {
		return nil, err
	}
	st.Evaluations[index] = ev
	st.upcoming = next
	st.Result = report
	e.commit()

	return &AnswerResult{
		Evaluation: ev,
		Next:       next,
		Result:     report,
		Progress:   st.Progress.Snapshot(),
	}, nil
}

// Advance leaves the explanation of the current problem, moving to the
// prepared follow-up or completing the quiz.
func (s *Service) Advance(ctx context.Context, sess session.Context) (*Snapshot, error) {
	e, err := s.store.lock(sess.ID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	st := e.state
	if st == nil {
		return nil, ErrNotStarted
	}
	if st.Progress.Phase() == progress.PhaseExplanation && !st.Progress.IsLastQuestion() && st.upcoming == nil {
		return nil, fmt.Errorf("no follow-up prepared: %w", progress.ErrInvalidTransition)
	}
	if err := st.Progress.Advance(); err != nil {
		return nil, err
	}
	defer e.commit()

	if st.Progress.Phase() == progress.PhaseCompleted {
		s.events.Emit(ops.SourceWorkflow, "quiz-completed", "", map[string]any{
			"deviationScore": deviation(st.Result),
		})
	} else {
		st.Problems = append(st.Problems, *st.upcoming)
		st.upcoming = nil
		s.events.Emit(ops.SourceWorkflow, "quiz-advanced", stepID(st.Progress.Index()), nil)
	}
	logging.FromContext(ctx).Debug("quiz advanced",
		zap.Int("index", st.Progress.Index()),
		zap.String("phase", string(st.Progress.Phase())),
	)
	return st.snapshot(), nil
}

// Get returns the session's quiz as of its last completed operation. It
// does not wait for, or conflict with, an answer being processed.
func (s *Service) Get(sess session.Context) (*Snapshot, error) {
	snap := s.store.entry(sess.ID).view.Load()
	if snap == nil {
		return nil, ErrNotStarted
	}
	return snap, nil
}

// Reset discards the session's quiz and its conversation memory.
func (s *Service) Reset(sess session.Context) error {
	e, err := s.store.lock(sess.ID)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	if e.state != nil {
		e.state.Progress.Reset()
	}
	e.state = nil
	e.commit()
	if s.memory != nil {
		s.memory.Forget(sess.ID)
	}
	s.events.Emit(ops.SourceUser, "quiz-reset", "", nil)
	return nil
}

func stepID(index int) string {
	return fmt.Sprintf("q%d", index+1)
}

func deviation(r *result.Report) int {
	if r == nil {
		return 0
	}
	return r.DeviationScore
}
