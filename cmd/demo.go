package cmd

import (
	"encoding/json"

	"github.com/abhisek/lovesim/internal/evaluation"
	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/result"
	"github.com/abhisek/lovesim/internal/scenario"
)

// demoReplies is what the mock provider answers for each purpose. Every
// scenario call returns the same situation; the grading and report are
// fixed too.
func demoReplies() map[string]llm.MockResponse {
	problems := demoJSON(map[string]any{
		"problems": []map[string]any{{
			"question": "待ち合わせの10分前、相手から「少し遅れそう」と連絡が来た。どう返す？",
			"choices": scenario.Choices{
				A: "近くのカフェで待ってるね、気をつけて来てね",
				B: "了解！",
				C: "既読だけつけて待つ",
				D: "じゃあ今日はやめておこうか",
			},
			"estimatedTime": 30,
		}},
	})

	items := func(a, b string) []evaluation.Item {
		return []evaluation.Item{{Title: a, Description: a + "を意識した対応です。"}, {Title: b, Description: b + "につながります。"}}
	}
	choice := func(label evaluation.Label, reason string, score int) *evaluation.ChoiceExplanation {
		return &evaluation.ChoiceExplanation{
			Label:       label,
			LabelReason: reason,
			SkillScores: evaluation.SkillScores{
				Care: score, Observation: score, Communication: score, Proactivity: score, Fun: score,
			},
			Strengths:    items("気配り", "安心感"),
			Improvements: items("一言添える", "次の提案"),
			Tips:         items("相手の状況を想像する", "自分の予定も伝える"),
		}
	}
	graded := demoJSON(evaluation.Evaluation{Explanations: map[scenario.Letter]*evaluation.ChoiceExplanation{
		scenario.LetterA: choice(evaluation.LabelBest, "相手を気遣いつつ自分の居場所も伝えている。", 82),
		scenario.LetterB: choice(evaluation.LabelGood, "感じは良いが情報が少ない。", 58),
		scenario.LetterC: choice(evaluation.LabelBad, "返事がないと相手が不安になる。", 25),
		scenario.LetterD: choice(evaluation.LabelBad, "遅刻一つで予定を取りやめるのは冷たい印象。", 12),
	}})

	report := demoJSON(result.Report{
		Scores: evaluation.SkillScores{Care: 72, Observation: 61, Communication: 66, Proactivity: 54, Fun: 58},
		LoveType: result.LoveType{
			Title:       "寄り添い型",
			Description: "相手のペースに合わせて安心感を与えるタイプ。",
		},
		GrowthTips: result.GrowthTips{
			StrengthAdvice:    "気配りを言葉にして伝えると、さらに信頼が深まります。",
			ImprovementAdvice: "次のデートは自分から提案してみましょう。",
		},
		Compatibility: result.Compatibility{
			Type:        "リード型",
			Description: "行動力のある相手と支え合える関係になれます。",
		},
	})

	return map[string]llm.MockResponse{
		llm.PurposeScenario:     problems,
		llm.PurposeNextScenario: problems,
		llm.PurposeEvaluation:   graded,
		llm.PurposeResult:       report,
	}
}

func demoJSON(v any) llm.MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return llm.MockResponse{Content: b, Usage: llm.Usage{InputTokens: 200, OutputTokens: len(b) / 4}}
}
