// Package evaluation grades the four choices of a problem: a label, five
// skill scores and short advice for each.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/lovesim/internal/jsonextract"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/session"
)

// Evaluator grades choices through an LLM provider.
type Evaluator struct {
	provider llm.Provider
	events   *ops.Bus
	config   Config
}

// New creates an Evaluator. events may be nil.
func New(provider llm.Provider, events *ops.Bus, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, events: events, config: cfg}
}

// Evaluate grades all four choices of req and fills in each choice's
// weighted score.
func (e *Evaluator) Evaluate(ctx context.Context, sess session.Context, req Request) (*Evaluation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)
	e.events.Emit(ops.SourceGrader, "grading-started", "", map[string]any{"selectedChoice": req.SelectedChoice})

	ev, err := e.evaluate(ctx, sess, req)
	if err != nil {
		e.events.Emit(ops.SourceGrader, "grading-failed", "", map[string]any{"error": err.Error()})
		return nil, err
	}

	var label Label
	if selected := ev.Selected(); selected != nil {
		label = selected.Label
	}
	logging.FromContext(ctx).Info("choice evaluated",
		zap.String("selected", string(req.SelectedChoice)),
		zap.String("label", string(label)),
		zap.String("best", string(ev.Best())),
	)
	e.events.Emit(ops.SourceGrader, "grading-finished", "", map[string]any{
		"selectedChoice": req.SelectedChoice,
		"label":          label,
		"best":           ev.Best(),
	})
	return ev, nil
}

func (e *Evaluator) evaluate(ctx context.Context, sess session.Context, req Request) (*Evaluation, error) {
	weights := Weights(req.Stage, req.Goal)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:         buildSystemPrompt(weights),
		Messages:       []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req)}},
		ConversationID: sess.ID,
		MaxTokens:      e.config.MaxTokens,
		Temperature:    e.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate choice: %w", err)
	}

	raw, err := jsonextract.Raw(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("extract evaluation JSON: %w", err)
	}
	if err := llm.ValidateJSON(EvaluationSchema, raw); err != nil {
		return nil, err
	}

	var ev Evaluation
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}
	for _, v := range e.config.Validators {
		if verr := v.Validate(&ev); verr != nil {
			return nil, &llm.ErrInvalidResponse{Content: raw, Err: verr}
		}
	}

	ev.SelectedChoice = req.SelectedChoice
	for _, c := range ev.Explanations {
		if c != nil {
			c.WeightedScore = WeightedScore(c.SkillScores, weights)
		}
	}
	return &ev, nil
}
