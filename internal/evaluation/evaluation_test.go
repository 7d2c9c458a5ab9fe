package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/scenario"
	"github.com/abhisek/lovesim/internal/session"
)

func items(prefix string) []Item {
	return []Item{
		{Title: prefix + "1", Description: prefix + "の説明1"},
		{Title: prefix + "2", Description: prefix + "の説明2"},
	}
}

func choice(label Label, base int) *ChoiceExplanation {
	return &ChoiceExplanation{
		Label:       label,
		LabelReason: "理由",
		SkillScores: SkillScores{
			Care:          base,
			Observation:   base + 1,
			Communication: base + 2,
			Proactivity:   base + 3,
			Fun:           base + 4,
		},
		Strengths:    items("強み"),
		Improvements: items("改善"),
		Tips:         items("TIP"),
	}
}

func validEvaluation() *Evaluation {
	return &Evaluation{Explanations: map[scenario.Letter]*ChoiceExplanation{
		scenario.LetterA: choice(LabelBest, 80),
		scenario.LetterB: choice(LabelGood, 60),
		scenario.LetterC: choice(LabelBad, 20),
		scenario.LetterD: choice(LabelGood, 50),
	}}
}

func evaluationText(t *testing.T, ev *Evaluation) string {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return "評価です。\n```json\n" + string(b) + "\n```"
}

func testRequest() Request {
	return Request{
		Question: "相手が仕事で疲れているようだ。どうする？",
		Choices: scenario.Choices{
			A: "温かい飲み物を差し入れる",
			B: "気分転換に散歩に誘う",
			C: "自分の話を続ける",
			D: "早めに解散しようと提案する",
		},
		SelectedChoice: scenario.LetterB,
		QuestionType:   "multiple_choice",
	}
}

func TestWeights(t *testing.T) {
	w := Weights("好意を持つ", "デートする")
	assert.Equal(t, 1.2, w.Care)
	assert.Equal(t, 1.2, w.Fun)
	assert.Equal(t, 1.0, w.Observation)
	assert.Equal(t, 1.0, w.Communication)
	assert.Equal(t, 1.0, w.Proactivity)

	for _, tt := range []struct{ stage, goal string }{
		{"好意を持つ", "告白する"},
		{"告白直前", ""},
		{"", "Confess on the last date"},
	} {
		w := Weights(tt.stage, tt.goal)
		assert.InDelta(t, 1.2, w.Communication, 1e-9, "%+v", tt)
		assert.InDelta(t, 1.2, w.Proactivity, 1e-9, "%+v", tt)
		assert.Equal(t, 1.0, w.Observation)
	}
}

func TestWeightedScore(t *testing.T) {
	all50 := SkillScores{Care: 50, Observation: 50, Communication: 50, Proactivity: 50, Fun: 50}
	assert.InDelta(t, 270.0, WeightedScore(all50, Weights("", "")), 1e-9)
	assert.InDelta(t, 290.0, WeightedScore(all50, Weights("", "告白")), 1e-9)

	s := SkillScores{Care: 10, Observation: 20, Communication: 30, Proactivity: 40, Fun: 50}
	// 12 + 20 + 30 + 40 + 60
	assert.InDelta(t, 162.0, WeightedScore(s, Weights("", "")), 1e-9)
}

func TestEvaluate(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(evaluationText(t, validEvaluation())))
	bus := ops.NewBus(10)
	e := New(mock, bus, DefaultConfig())

	ev, err := e.Evaluate(context.Background(), session.Context{ID: "sess-9"}, testRequest())
	require.NoError(t, err)

	assert.Equal(t, scenario.LetterB, ev.SelectedChoice)
	assert.Equal(t, scenario.LetterA, ev.Best())
	require.NotNil(t, ev.Selected())
	assert.Equal(t, LabelGood, ev.Selected().Label)

	// 80*1.2 + 81 + 82 + 83 + 84*1.2
	assert.InDelta(t, 442.8, ev.Explanations[scenario.LetterA].WeightedScore, 1e-9)
	for _, l := range scenario.Letters {
		assert.Greater(t, ev.Explanations[l].WeightedScore, 0.0, string(l))
	}

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "sess-9", call.ConversationID)
	assert.Contains(t, call.System, "思いやり×1.2、面白さ×1.2、観察力×1.0、コミュニケーション×1.0、積極性×1.0")
	assert.Contains(t, call.Messages[0].Content, "選択された選択肢: B")
	assert.Contains(t, call.Messages[0].Content, "C: 自分の話を続ける")

	snap := bus.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "grading-finished", snap[1].Type)
	assert.Equal(t, ops.SourceGrader, snap[1].Source)
}

func TestEvaluate_ConfessionWeightsInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(evaluationText(t, validEvaluation())))
	e := New(mock, nil, DefaultConfig())

	req := testRequest()
	req.Stage = "好意を持つ"
	req.Goal = "告白する"
	ev, err := e.Evaluate(context.Background(), session.Context{ID: "s"}, req)
	require.NoError(t, err)

	call, _ := mock.LastCall()
	assert.Contains(t, call.System, "コミュニケーション×1.2、積極性×1.2")
	assert.Contains(t, call.Messages[0].Content, "【目標】告白する")

	// 80*1.2 + 81 + 82*1.2 + 83*1.2 + 84*1.2
	assert.InDelta(t, 475.8, ev.Explanations[scenario.LetterA].WeightedScore, 1e-9)
}

func TestEvaluate_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ev *Evaluation)
	}{
		{"two BEST", func(ev *Evaluation) { ev.Explanations[scenario.LetterB].Label = LabelBest }},
		{"no BEST", func(ev *Evaluation) { ev.Explanations[scenario.LetterA].Label = LabelGood }},
		{"no BAD", func(ev *Evaluation) { ev.Explanations[scenario.LetterC].Label = LabelGood }},
		{"unknown label", func(ev *Evaluation) { ev.Explanations[scenario.LetterD].Label = "OK" }},
		{"missing letter", func(ev *Evaluation) { delete(ev.Explanations, scenario.LetterD) }},
		{"score zero", func(ev *Evaluation) { ev.Explanations[scenario.LetterB].SkillScores.Fun = 0 }},
		{"score 100", func(ev *Evaluation) { ev.Explanations[scenario.LetterB].SkillScores.Care = 100 }},
		{"one strength", func(ev *Evaluation) {
			ev.Explanations[scenario.LetterA].Strengths = ev.Explanations[scenario.LetterA].Strengths[:1]
		}},
		{"three tips", func(ev *Evaluation) {
			c := ev.Explanations[scenario.LetterC]
			c.Tips = append(c.Tips, Item{Title: "x", Description: "y"})
		}},
		{"blank improvement", func(ev *Evaluation) {
			ev.Explanations[scenario.LetterD].Improvements[1].Description = " "
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvaluation()
			tt.mutate(ev)
			e := New(llm.NewMockProvider(llm.TextResponse(evaluationText(t, ev))), nil, DefaultConfig())

			_, err := e.Evaluate(context.Background(), session.Context{ID: "s"}, testRequest())
			var inv *llm.ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "got %v", err)
		})
	}
}

func TestEvaluate_ProviderError(t *testing.T) {
	bus := ops.NewBus(10)
	e := New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}), bus, DefaultConfig())

	_, err := e.Evaluate(context.Background(), session.Context{ID: "s"}, testRequest())
	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "grading-failed", bus.Snapshot()[1].Type)
}

func TestLabelValidator(t *testing.T) {
	v := &LabelValidator{}
	assert.Nil(t, v.Validate(validEvaluation()))

	ev := validEvaluation()
	ev.Explanations[scenario.LetterC].Label = LabelBest
	verr := v.Validate(ev)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "exactly one BEST")
}

func TestCompletenessValidator(t *testing.T) {
	v := &CompletenessValidator{}
	assert.Nil(t, v.Validate(validEvaluation()))

	ev := validEvaluation()
	ev.Explanations[scenario.LetterB].SkillScores.Observation = 120
	verr := v.Validate(ev)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "観察力 score 120")
}

func TestContextNote(t *testing.T) {
	assert.Equal(t, "", contextNote(nil))
	assert.Equal(t, "", contextNote(json.RawMessage("null")))
	assert.Equal(t, "前回はAを選択", contextNote(json.RawMessage(`"前回はAを選択"`)))
	assert.Equal(t, "{\n  \"stage\": \"first-date\"\n}", contextNote(json.RawMessage(`{"stage":"first-date"}`)))
}

func TestBuildUserMessage_Context(t *testing.T) {
	req := testRequest()
	req.Context = json.RawMessage(`{"previous":"a"}`)
	msg := buildUserMessage(req)
	assert.Contains(t, msg, "追加コンテキスト:\n{\n  \"previous\": \"a\"\n}")
}
