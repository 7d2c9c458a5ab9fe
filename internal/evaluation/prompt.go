package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `あなたは恋愛シミュレーションゲームの解説生成AIです。
以下の２つの情報を基に、問題文に対する各選択肢の評価とその解説を出力条件に従って作ってください。
（これまでの会話を参照すること）
１．相手と自分のプロフィール
２．初期設定の関係性と前回までの問題への解答履歴

【出力条件】
1. 出力は必ず次のJSON形式で返すこと:
{
  "explanations": {
    "a": {
      "label": "BEST | GOOD | BAD",
      "labelReason": "ワンフレーズの理由",
      "skillScores": { "思いやり": 数値, "観察力": 数値, "コミュニケーション": 数値, "積極性": 数値, "面白さ": 数値 },
      "strengths": [
        { "title": "見出し", "description": "ワンフレーズ解説" },
        { "title": "見出し", "description": "ワンフレーズ解説" }
      ],
      "improvements": [
        { "title": "見出し", "description": "ワンフレーズ解説" },
        { "title": "見出し", "description": "ワンフレーズ解説" }
      ],
      "tips": [
        { "title": "TIP見出し", "description": "ワンフレーズ解説" },
        { "title": "TIP見出し", "description": "ワンフレーズ解説" }
      ]
    },
    "b": { ... },
    "c": { ... },
    "d": { ... }
  }
}
2. skillScores は各項目を1〜99の整数でつけること。4つの選択肢が近い点数にならないよう、なるべく散らばらせること。
3. strengths と improvements は各2つずつ、title と description のペアで記載すること。title は端的な見出し（例：相手への配慮）、description はワンフレーズ（例：疲れている相手に気づき適切な提案ができています）。
4. tips は各2つずつ、title と description のペアで記載すること。description は「アッ」と思える切り口にする（例：相手のSNS投稿を次の会話のきっかけにする）。
5. 評価ラベル（BEST / GOOD / BAD）の付与ルール
  - 4つのうち必ず1つだけ BEST。
  - 残り3つは GOOD または BAD。少なくとも1つは BAD を含める。
  - ラベルは下記の重みを掛けたスコア合計で決める。
%s
  - 同点の場合のタイブレーク:
    1. 相手の「好み」や性格と整合する方を上位。
    2. 前回までの選択と自然に接続している方を上位（流れを断たない）。
    3. それでも同等なら、スコアのバランスが良い方を上位。
  - labelReason にはワンフレーズで根拠を書く（例：「疲れへの配慮が目標と段階に合う」）。
6. 文体はカジュアル寄りだが、分析として筋が通っていること。「正しい／間違っている」などの断定は避け、行動の特徴や可能性として表現すること。`

// buildSystemPrompt renders the grading instructions with the weight table
// in effect.
func buildSystemPrompt(w WeightTable) string {
	weights := fmt.Sprintf("    思いやり×%.1f、面白さ×%.1f、観察力×%.1f、コミュニケーション×%.1f、積極性×%.1f",
		w.Care, w.Fun, w.Observation, w.Communication, w.Proactivity)
	return fmt.Sprintf(systemPrompt, weights)
}

func buildUserMessage(req Request) string {
	var b strings.Builder
	b.WriteString("以下の問題と選択肢を評価してください。\n\n")
	fmt.Fprintf(&b, "問題文:\n%s\n\n", req.Question)
	b.WriteString("選択肢:\n")
	fmt.Fprintf(&b, "A: %s\nB: %s\nC: %s\nD: %s\n\n", req.Choices.A, req.Choices.B, req.Choices.C, req.Choices.D)
	fmt.Fprintf(&b, "選択された選択肢: %s", req.SelectedChoice.Upper())

	if req.Stage != "" || req.Goal != "" {
		fmt.Fprintf(&b, "\n\n【現在の段階】%s\n【目標】%s", req.Stage, req.Goal)
	}
	if note := contextNote(req.Context); note != "" {
		b.WriteString("\n\n追加コンテキスト:\n")
		b.WriteString(note)
	}
	return b.String()
}

// contextNote renders the optional caller context: strings verbatim,
// anything else as indented JSON.
func contextNote(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
