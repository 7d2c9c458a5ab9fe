package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProfile() Profile {
	return Profile{
		My: Person{
			Age: "22", Gender: "女性", Occupation: "大学院生",
			Traits: "理系、優しい", Preference: "お酒、海外旅行",
			Background: "研究室とアルバイトを両立中", DetailedDescription: "人見知りだが打ち解けるとよく話す",
		},
		Partner: Person{
			Age: "23", Gender: "男性", Occupation: "エンタメ総合職",
			Traits: "几帳面、身長が高い", Preference: "筋トレ",
			Background: "今年から新卒", DetailedDescription: "マッチングアプリで知り合った",
		},
		Relationship:      "マッチングアプリ",
		Stage:             "今度初めて会う",
		Goal:              "二回目のデートにつなげる",
		NumberOfQuestions: "3",
	}
}

func TestBuildProfileBlock(t *testing.T) {
	block := buildProfileBlock(testProfile())

	assert.True(t, strings.HasPrefix(block, "【自分】\nage: 22\n"))
	assert.Contains(t, block, "【相手】\nage: 23\ngender: 男性\noccupation: エンタメ総合職\n")
	assert.Contains(t, block, "detailedDescription: マッチングアプリで知り合った\n")
	assert.Contains(t, block, "【関係性】relationship: マッチングアプリ, stage: 今度初めて会う\n")
	assert.True(t, strings.HasSuffix(block, "【目標】goal: 二回目のデートにつなげる"))
	assert.Less(t, strings.Index(block, "【自分】"), strings.Index(block, "【相手】"))
}

func TestBuildGeneratePrompt(t *testing.T) {
	prompt := buildGeneratePrompt(testProfile())

	assert.Contains(t, prompt, "現実的な恋愛シチュエーション問題を1問生成してください")
	for _, rule := range []string{"1. ", "2. ", "3. ", "4. ", "5. ", "6. "} {
		assert.Contains(t, prompt, "\n"+rule)
	}
	assert.Contains(t, prompt, `"problems"`)
	assert.Contains(t, prompt, "最も適切なのは？")
	assert.Contains(t, prompt, "金曜日は残業")
}

func TestBuildNextPrompt(t *testing.T) {
	in := NextInput{
		PreviousQuestion: "待ち合わせに遅れると連絡が来た。どう返す？",
		PreviousChoices:  Choices{A: "大丈夫だよ", B: "先に店に入ってるね", C: "何分くらい？", D: "既読だけつける"},
		SelectedChoice:   LetterB,
	}
	prompt := buildNextPrompt(in)

	assert.Contains(t, prompt, "「待ち合わせに遅れると連絡が来た。どう返す？」というシチュエーションにおいて")
	assert.Contains(t, prompt, "B（先に店に入ってるね）という選択肢を選びました")
	assert.Contains(t, prompt, "choicesに4択")
}

func TestImagePrompts(t *testing.T) {
	gen := buildGenerateImagePrompt(testProfile())
	assert.Contains(t, gen, "【自分】")
	assert.Contains(t, gen, "正方形イメージ")
	assert.Contains(t, gen, "テキストやロゴは入れないこと")

	next := buildNextImagePrompt(NextInput{
		PreviousQuestion: "雨が降ってきた。",
		PreviousChoices:  Choices{A: "傘に入れる", B: "走る", C: "雨宿り", D: "タクシー"},
		SelectedChoice:   LetterC,
	})
	assert.Equal(t, []string{
		"直前のシチュエーション: 雨が降ってきた。",
		"選択肢: A:傘に入れる / B:走る / C:雨宿り / D:タクシー",
		"ユーザーの選択: C",
	}, strings.Split(next, "\n")[:3])
}

func TestProfileTopic(t *testing.T) {
	p := testProfile()
	assert.Equal(t, "マッチングアプリ / 今度初めて会う / 二回目のデートにつなげる", p.Topic())

	p.Stage = ""
	assert.Equal(t, "マッチングアプリ / 二回目のデートにつなげる", p.Topic())

	assert.Equal(t, "", Profile{}.Topic())
}

func TestParseLetter(t *testing.T) {
	l, err := ParseLetter(" C ")
	assert.NoError(t, err)
	assert.Equal(t, LetterC, l)

	_, err = ParseLetter("e")
	assert.Error(t, err)
}
