// Package result produces the end-of-quiz report from the profile and the
// answers given.
package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/lovesim/internal/jsonextract"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/logging"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/session"
)

// Aggregator requests and checks the report.
type Aggregator struct {
	provider  llm.Provider
	events    *ops.Bus
	maxTokens int
}

// New creates an Aggregator. events may be nil.
func New(provider llm.Provider, events *ops.Bus) *Aggregator {
	return &Aggregator{provider: provider, events: events, maxTokens: 2048}
}

// Aggregate builds the report for req.
func (a *Aggregator) Aggregate(ctx context.Context, sess session.Context, req Request) (*Report, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeResult)
	a.events.Emit(ops.SourceWorkflow, "result-started", "", map[string]any{"problems": len(req.Problems)})

	report, err := a.aggregate(ctx, sess, req)
	if err != nil {
		a.events.Emit(ops.SourceWorkflow, "result-failed", "", map[string]any{"error": err.Error()})
		return nil, err
	}

	logging.FromContext(ctx).Info("result generated",
		zap.Int("problems", len(req.Problems)),
		zap.Int("deviation", report.DeviationScore),
	)
	a.events.Emit(ops.SourceWorkflow, "result-ready", "", map[string]any{
		"deviationScore": report.DeviationScore,
		"loveType":       report.LoveType.Title,
	})
	return report, nil
}

func (a *Aggregator) aggregate(ctx context.Context, sess session.Context, req Request) (*Report, error) {
	resp, err := a.provider.Generate(ctx, llm.Request{
		System:         systemPrompt,
		Messages:       []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req)}},
		ConversationID: sess.ID,
		MaxTokens:      a.maxTokens,
		Temperature:    0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("generate result: %w", err)
	}

	raw, err := jsonextract.Raw(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("extract result JSON: %w", err)
	}
	if err := llm.ValidateJSON(ReportSchema, raw); err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := checkReport(&report); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: err}
	}

	report.DeviationScore = DeviationScore(report.Scores)
	return &report, nil
}

// checkReport rejects reports the schema lets through: out-of-range
// scores and blank text.
func checkReport(r *Report) error {
	var errs []error
	r.Scores.Each(func(name string, score int) {
		if score < 1 || score > 99 {
			errs = append(errs, fmt.Errorf("%s score %d outside 1..99", name, score))
		}
	})
	fields := map[string]string{
		"loveType.title":               r.LoveType.Title,
		"loveType.description":         r.LoveType.Description,
		"growthTips.strengthAdvice":    r.GrowthTips.StrengthAdvice,
		"growthTips.improvementAdvice": r.GrowthTips.ImprovementAdvice,
		"compatibility.type":           r.Compatibility.Type,
		"compatibility.description":    r.Compatibility.Description,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s is empty", name))
		}
	}
	return errors.Join(errs...)
}
