package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/session"
)

func TestMockProviderServesDemo(t *testing.T) {
	require.NoError(t, serveCmd.Flags().Set("provider", "mock"))
	t.Cleanup(func() { _ = serveCmd.Flags().Set("provider", "") })

	cfg, err := resolveLLMConfig(serveCmd)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.MockReplies)

	ctx := context.Background()
	p, err := llm.NewProvider(ctx, cfg, nil, llm.NewMemory(0))
	require.NoError(t, err)

	bus := ops.NewBus(ops.DefaultCapacity)
	sess := session.New()

	problems, err := scenario.New(p, nil, bus, scenario.DefaultConfig()).Generate(ctx, sess, scenario.Profile{
		Relationship: "同僚", Stage: "好意を持つ", Goal: "告白する",
	})
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	first := problems[0]

	next, err := scenario.New(p, nil, bus, scenario.DefaultConfig()).Next(ctx, sess, scenario.NextInput{
		PreviousQuestion: first.Question,
		PreviousChoices:  first.Choices,
		SelectedChoice:   scenario.LetterA,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, next.Question)

	graded, err := evaluation.New(p, bus, evaluation.DefaultConfig()).Evaluate(ctx, sess, evaluation.Request{
		Question:       first.Question,
		Choices:        first.Choices,
		SelectedChoice: scenario.LetterB,
	})
	require.NoError(t, err)
	assert.Equal(t, scenario.LetterA, graded.Best())

	report, err := result.New(p, bus).Aggregate(ctx, sess, result.Request{
		Problems:        problems,
		SelectedAnswers: []string{"b"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, report.LoveType.Title)
}
