package result

import (
	"fmt"
	"strings"

	"github.com/abhisek/lovesim/internal/scenario"
)

const systemPrompt = `あなたは恋愛シミュレーションゲームの結果分析AIです。
以下の情報を基に、ユーザーの選択パターンを分析し、総合的な結果レポートを作成してください。

【出力条件】
1. 出力は必ず次のJSON形式で返すこと:
{
  "scores": {
    "思いやり": 数値,
    "観察力": 数値,
    "コミュニケーション": 数値,
    "面白さ": 数値,
    "積極性": 数値
  },
  "loveType": {
    "title": "タイプ名（1〜2語）",
    "description": "タイプの説明（2文程度）"
  },
  "growthTips": {
    "strengthAdvice": "強みを活かすアドバイス（1文程度）",
    "improvementAdvice": "改善ポイントに関するアドバイス（1文程度）"
  },
  "compatibility": {
    "type": "相性の良いタイプ名",
    "description": "そのタイプの説明（2文程度）"
  }
}
2. 5つの軸（思いやり・観察力・面白さ・積極性・コミュニケーション）の点数を1〜99の整数で計算すること。
3. 恋愛偏差値は5つの軸の平均を整数に丸め、30〜85の範囲に収めたものとして扱う。
【文体ルール】カジュアル寄りだが、分析として筋が通っていること。また「正しい／間違っている」などの断定は避け、行動の特徴や可能性として記述すること。`

func writePerson(b *strings.Builder, heading string, p scenario.Person) {
	b.WriteString(heading + "\n")
	fmt.Fprintf(b, "年齢: %s\n", p.Age)
	fmt.Fprintf(b, "性別: %s\n", p.Gender)
	fmt.Fprintf(b, "職業: %s\n", p.Occupation)
	fmt.Fprintf(b, "性格: %s\n", p.Traits)
	fmt.Fprintf(b, "趣味・好み: %s\n", p.Preference)
	fmt.Fprintf(b, "背景: %s\n", p.Background)
	fmt.Fprintf(b, "詳細: %s\n", p.DetailedDescription)
}

func buildProfileInfo(p scenario.Profile) string {
	var b strings.Builder
	writePerson(&b, "【自分】", p.My)
	b.WriteString("\n")
	writePerson(&b, "【相手】", p.Partner)
	b.WriteString("\n")
	fmt.Fprintf(&b, "【関係性】%s\n", p.Relationship)
	fmt.Fprintf(&b, "【現在の段階】%s\n", p.Stage)
	fmt.Fprintf(&b, "【目標】%s", p.Goal)
	return b.String()
}

// buildHistory pairs every problem with the answer given to it. A letter
// answer is expanded with the choice text.
func buildHistory(problems []scenario.Problem, answers []string) string {
	blocks := make([]string, 0, len(problems))
	for i, p := range problems {
		var answer string
		if i < len(answers) {
			answer = describeAnswer(p, answers[i])
		}
		blocks = append(blocks, fmt.Sprintf("問題%d: %s\n選択した回答: %s\n", i+1, p.Question, answer))
	}
	return strings.Join(blocks, "\n")
}

func describeAnswer(p scenario.Problem, answer string) string {
	l, err := scenario.ParseLetter(answer)
	if err != nil {
		return answer
	}
	text := p.Choices.Get(l)
	if text == "" {
		return l.Upper()
	}
	return fmt.Sprintf("%s（%s）", l.Upper(), text)
}

func buildUserMessage(req Request) string {
	var b strings.Builder
	b.WriteString("以下のプロフィール情報と問題選択履歴を利用してください。\n\n")
	b.WriteString(buildProfileInfo(req.ProfileData))
	b.WriteString("\n\n【問題選択履歴】\n")
	b.WriteString(buildHistory(req.Problems, req.SelectedAnswers))
	b.WriteString("\n上記の情報を基に、ユーザーの恋愛スキルと選択パターンを分析し、総合的な結果レポートを作成してください。")
	return b.String()
}
