package scenario

import (
	"fmt"
	"strings"
)

const systemPrompt = "過去の会話文脈を踏まえて、クイズの生成や説明を行うアシスタント。"

const responseFormat = `{
  "problems": [
    {
      "question": "問題文",
      "choices": { "a": "選択肢1", "b": "選択肢2", "c": "選択肢3", "d": "選択肢4" }
    }
  ]
}`

const exampleProblem = `{"question": "２人とも飲むのが好きということが共通していたので、飲みに行くことになった。金曜日に会おうと聞いたところ、金曜日は残業で２１時以降になってしまうと言われた。なんて返信する？", "choices": { "a": "じゃあ２１時以降に待ち合わせしよう", "b": "土日のお昼に飲みに行くのはどうかな", "c": "休日ではなく来週の都合のいい日を聞く", "d": "飲むのをやめる" }}`

const imageStyle = "テキストやロゴは入れないこと。人物は自然体で、抽象・概念図ではなくシーンの雰囲気が伝わる絵にしてください。"

// buildProfileBlock renders both people and the relationship for prompts.
func buildProfileBlock(p Profile) string {
	var b strings.Builder
	writePerson(&b, "【自分】", p.My)
	b.WriteString("\n")
	writePerson(&b, "【相手】", p.Partner)
	b.WriteString("\n")
	fmt.Fprintf(&b, "【関係性】relationship: %s, stage: %s\n", p.Relationship, p.Stage)
	fmt.Fprintf(&b, "【目標】goal: %s", p.Goal)
	return b.String()
}

func writePerson(b *strings.Builder, heading string, p Person) {
	b.WriteString(heading + "\n")
	fmt.Fprintf(b, "age: %s\n", p.Age)
	fmt.Fprintf(b, "gender: %s\n", p.Gender)
	fmt.Fprintf(b, "occupation: %s\n", p.Occupation)
	fmt.Fprintf(b, "traits: %s\n", p.Traits)
	fmt.Fprintf(b, "preference: %s\n", p.Preference)
	fmt.Fprintf(b, "background: %s\n", p.Background)
	fmt.Fprintf(b, "detailedDescription: %s\n", p.DetailedDescription)
}

// buildGeneratePrompt asks for the opening situation of a simulation.
func buildGeneratePrompt(p Profile) string {
	rules := []string{
		"1. 必ず次のJSON形式で出力してください。\n" + responseFormat,
		"2. 問題文は1〜2文程度で短く状況を説明するだけにしてください。",
		"3. 選択肢は問題に対してワンフレーズで自然な行動・発言とすること。明らかに不自然な選択肢は入れないようにしてください。",
		"4. 「最も適切なのは？」など正解を誘導する表現は禁止します。「どうする？」「どんな言葉をかける？」など、自分らしい行動を選べる問いにしてください。ただし、「伝えたい気持ちがある」「好きな気持ちを伝えたい」など、心理状態を直接的に表現するのは避けてください。",
		"5. プロフィール情報（年齢・職業・性格・趣味・背景・関係性・問題数・目標など）を考慮した選択肢と問題を作成しますが、その情報をそのまま問題文に書き込まないようにしてください。自然な会話や状況として表現してください。",
		"6. 作問例として、以下を参考にしてください\n" + exampleProblem,
	}

	var b strings.Builder
	b.WriteString(buildProfileBlock(p))
	b.WriteString("\n\n上記プロフィールを前提に、現実的な恋愛シチュエーション問題を1問生成してください。\n")
	b.WriteString("出力条件\n")
	b.WriteString(strings.Join(rules, "\n"))
	return b.String()
}

// buildNextPrompt asks for the situation that follows the chosen reaction.
func buildNextPrompt(in NextInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "「%s」というシチュエーションにおいて、\n\n", in.PreviousQuestion)
	fmt.Fprintf(&b, "%s（%s）という選択肢を選びました。", in.SelectedChoice.Upper(), in.PreviousChoices.Get(in.SelectedChoice))
	b.WriteString("この選択肢を選んだことにより、次に進むべきシチュエーションが生まれます。\n\n")
	b.WriteString("選択肢を踏まえた次のシチュエーションを考え、その内容をquestionに、そこで取ることのできる選択肢をchoicesに4択で含めて解答してください。\n\n")
	b.WriteString("応答形式:\n")
	b.WriteString(responseFormat)
	return b.String()
}

// buildGenerateImagePrompt describes the opening scene for an image model.
func buildGenerateImagePrompt(p Profile) string {
	return buildProfileBlock(p) + "\n\n" +
		"上記プロフィールから連想される現在進行中のデート・会話シーンを、やわらかい色調で1枚の正方形イメージとして生成してください。\n" +
		imageStyle
}

// buildNextImagePrompt describes the scene following the chosen reaction.
func buildNextImagePrompt(in NextInput) string {
	c := in.PreviousChoices
	lines := []string{
		"直前のシチュエーション: " + in.PreviousQuestion,
		fmt.Sprintf("選択肢: A:%s / B:%s / C:%s / D:%s", c.A, c.B, c.C, c.D),
		"ユーザーの選択: " + in.SelectedChoice.Upper(),
		"上記の文脈から自然に続く次の場面を、やわらかい色調の正方形イメージとして生成してください。",
		imageStyle,
	}
	return strings.Join(lines, "\n")
}
