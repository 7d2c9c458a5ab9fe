package scenario

// Preset is a ready-made profile a player can start from.
type Preset struct {
	ID          string  `json:"id"`
	Emoji       string  `json:"emoji"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Profile     Profile `json:"profile"`
}

func person(age, gender, occupation, traits, preference, background, detail string) Person {
	return Person{
		Age:                 age,
		Gender:              gender,
		Occupation:          occupation,
		Traits:              traits,
		Preference:          preference,
		Background:          background,
		DetailedDescription: detail,
	}
}

var presets = []Preset{
	{
		ID: "university", Emoji: "🎓", Title: "大学生カップル", Color: "blue",
		Description: "👤 20歳 大学生\n💝 19歳 大学生\n💕 友達 → 恋人",
		Profile: Profile{
			My:           person("20", "男性", "大学生", "真面目、優しい", "明るい人、一緒にいて楽しい人", "サークル活動、読書", "同じサークルで知り合い、最近よく二人で話すようになった"),
			Partner:      person("19", "女性", "大学生", "明るい、社交的", "誠実な人、面白い人", "アート、音楽鑑賞", "サークルの後輩で、誰とでもすぐ打ち解ける"),
			Relationship: "友達", Stage: "好意を持つ", Goal: "告白する", NumberOfQuestions: "10",
		},
	},
	{
		ID: "workplace", Emoji: "💼", Title: "社会人出会い", Color: "pink",
		Description: "👤 27歳 会社員\n💝 25歳 デザイナー\n💕 初対面 → デート",
		Profile: Profile{
			My:           person("27", "男性", "会社員", "責任感が強い、穏やか", "クリエイティブな人、話しやすい人", "映画鑑賞、料理", "友人の紹介で参加した食事会に来ている"),
			Partner:      person("25", "女性", "デザイナー", "クリエイティブ、独立心がある", "理解のある人、サポートしてくれる人", "アート、カフェ巡り", "食事会で隣の席になった、初めて会う相手"),
			Relationship: "初対面", Stage: "親しくなる", Goal: "デートする", NumberOfQuestions: "15",
		},
	},
	{
		ID: "childhood", Emoji: "🌸", Title: "幼馴染み", Color: "purple",
		Description: "👤 22歳 大学生\n💝 22歳 看護師\n💕 親友 → 恋人",
		Profile: Profile{
			My:           person("22", "男性", "大学生", "思いやりがある、内向的", "一緒に成長できる人、理解し合える人", "ゲーム、スポーツ観戦", "小学校からの付き合いで、家族ぐるみで仲が良い"),
			Partner:      person("22", "女性", "看護師", "優しい、しっかり者", "信頼できる人、長く付き合える人", "読書、散歩", "今年から病院で働き始め、会う頻度が減っている"),
			Relationship: "親友", Stage: "関係深化", Goal: "関係を深める", NumberOfQuestions: "20",
		},
	},
	{
		ID: "office", Emoji: "🏢", Title: "職場恋愛", Color: "green",
		Description: "👤 28歳 営業\n💝 26歳 事務\n💕 同僚 → 恋人",
		Profile: Profile{
			My:           person("28", "男性", "営業", "コミュニケーション能力が高い、積極的", "仕事に理解がある人、支え合える人", "ゴルフ、飲み会", "同じ部署で、外回りの合間によく雑談する"),
			Partner:      person("26", "女性", "事務", "丁寧、気配りができる", "頼りがいのある人、優しい人", "ヨガ、料理", "部署の書類をまとめてくれている同僚"),
			Relationship: "知り合い", Stage: "親しくなる", Goal: "デートする", NumberOfQuestions: "10",
		},
	},
	{
		ID: "older", Emoji: "👩‍💼", Title: "年上女性", Color: "red",
		Description: "👤 24歳 新卒\n💝 30歳 先輩\n💕 憧れ → 恋愛",
		Profile: Profile{
			My:           person("24", "男性", "新卒社員", "素直、向上心がある", "包容力のある人、教えてくれる人", "スポーツ、勉強", "配属先で指導を受けている新人"),
			Partner:      person("30", "女性", "主任", "落ち着いている、面倒見が良い", "一生懸命な人、成長する人", "ワイン、旅行", "チームをまとめる先輩で、新人の教育係"),
			Relationship: "気になる人", Stage: "好意を持つ", Goal: "告白する", NumberOfQuestions: "15",
		},
	},
	{
		ID: "hobby", Emoji: "🎨", Title: "趣味友達", Color: "yellow",
		Description: "👤 25歳 会社員\n💝 23歳 学生\n💕 趣味仲間 → 恋人",
		Profile: Profile{
			My:           person("25", "男性", "会社員", "クリエイティブ、情熱的", "同じ趣味を持つ人、感性が合う人", "写真、アート鑑賞", "写真サークルの撮影会で何度か一緒になった"),
			Partner:      person("23", "女性", "美大生", "感受性豊か、自由奔放", "理解してくれる人、刺激的な人", "絵画、展示会巡り", "展示会の情報をよく教えてくれる"),
			Relationship: "友達", Stage: "親しくなる", Goal: "恋人になる", NumberOfQuestions: "10",
		},
	},
	{
		ID: "longdistance", Emoji: "✈️", Title: "遠距離恋愛", Color: "indigo",
		Description: "👤 26歳 エンジニア\n💝 24歳 教師\n💕 遠距離 → 結婚",
		Profile: Profile{
			My:           person("26", "男性", "エンジニア", "論理的、忍耐強い", "信頼できる人、将来を考えられる人", "プログラミング、読書", "転勤で東京に住んでいる"),
			Partner:      person("24", "女性", "教師", "優しい、責任感が強い", "誠実な人、家族を大切にする人", "教育、子供との時間", "地元の小学校で働いており、月に一度会っている"),
			Relationship: "恋人候補", Stage: "交際開始", Goal: "結婚を考える", NumberOfQuestions: "20",
		},
	},
	{
		ID: "reunion", Emoji: "🔄", Title: "再会恋愛", Color: "teal",
		Description: "👤 29歳 会社員\n💝 28歳 元同級生\n💕 再会 → 恋愛",
		Profile: Profile{
			My:           person("29", "男性", "会社員", "懐かしがり、安定志向", "昔を知っている人、安心できる人", "同窓会、地元の友達", "十年ぶりの同窓会に参加している"),
			Partner:      person("28", "女性", "公務員", "変わらない魅力、成熟した", "昔から知っている人、信頼できる人", "地元愛、安定した生活", "高校の同級生で、卒業以来会っていなかった"),
			Relationship: "知り合い", Stage: "出会い", Goal: "デートする", NumberOfQuestions: "15",
		},
	},
	{
		ID: "younger", Emoji: "👨‍🎓", Title: "年下男性", Color: "orange",
		Description: "👤 32歳 女性管理職\n💝 26歳 部下\n💕 上司部下 → 恋人",
		Profile: Profile{
			My:           person("32", "女性", "管理職", "リーダーシップがある、自立している", "素直な人、成長意欲のある人", "キャリア、自己投資", "新しいプロジェクトのリーダーを任されている"),
			Partner:      person("26", "男性", "部下", "素直、エネルギッシュ", "頼りがいのある人、導いてくれる人", "スポーツ、新しいことへの挑戦", "同じプロジェクトのメンバーで、よく相談に来る"),
			Relationship: "知り合い", Stage: "親しくなる", Goal: "関係を深める", NumberOfQuestions: "15",
		},
	},
	{
		ID: "international", Emoji: "🌍", Title: "国際恋愛", Color: "cyan",
		Description: "👤 27歳 日本人\n💝 25歳 外国人\n💕 文化交流 → 恋愛",
		Profile: Profile{
			My:           person("27", "男性", "商社マン", "国際的、適応力がある", "文化の違いを楽しめる人、オープンな人", "海外経験、語学学習", "語学交流イベントに参加している"),
			Partner:      person("25", "女性", "英語教師", "明るい、文化に興味がある", "国際的な人、新しい体験を共有できる人", "異文化交流、旅行", "日本に来て二年目で、日本語を勉強中"),
			Relationship: "初対面", Stage: "出会い", Goal: "友達になる", NumberOfQuestions: "10",
		},
	},
}

// Presets returns the built-in profiles in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByID returns the preset with the given id.
func PresetByID(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
