package emotion

import "github.com/hanseolabs/diaryd/internal/i18n"

var displayNames = map[i18n.Locale]map[Label]string{
	i18n.Korean: {
		Stable: "안정", Tired: "피곤", Anxious: "불안", Confused: "혼란",
	},
	i18n.English: {
		Stable: "Stable", Tired: "Tired", Anxious: "Anxious", Confused: "Confused",
	},
	i18n.Japanese: {
		Stable: "安定", Tired: "疲れ", Anxious: "不安", Confused: "混乱",
	},
}

var summaries = map[i18n.Locale]map[Label]string{
	i18n.Korean: {
		Stable:   "오늘은 비교적 차분하게 나를 바라본 하루였어요.",
		Tired:    "오늘은 에너지가 많이 소모된 하루로 보여요. 쉬어갈 여지를 만들어보면 좋아요.",
		Anxious:  "마음이 조심스레 경계하고 있는 신호가 보여요. 무엇을 지키고 싶은지 떠올려보면 좋아요.",
		Confused: "생각과 감정이 한꺼번에 몰려온 하루로 보여요. 한 가지부터 천천히 정리해봐도 괜찮아요.",
	},
	i18n.English: {
		Stable:   "Today looks like a relatively calm day of gently seeing yourself.",
		Tired:    "It seems your energy was heavily used today. Giving yourself room to rest could help.",
		Anxious:  "I sense a careful signal of vigilance. What are you trying to protect right now?",
		Confused: "Thoughts and feelings may have arrived all at once. It's okay to sort just one thing at a time.",
	},
	i18n.Japanese: {
		Stable:   "今日は比較的落ち着いて自分を見つめられた一日だったようです。",
		Tired:    "今日はエネルギーをたくさん使ったようです。休む余白を作ってみてもいいですね。",
		Anxious:  "心が慎重に警戒しているサインが見えます。いま守りたいものは何でしょう？",
		Confused: "考えと感情が一度に押し寄せたようです。一つずつ整理しても大丈夫です。",
	},
}

// DisplayName returns the localized short name for a label.
func DisplayName(label Label, locale i18n.Locale) string {
	if m, ok := displayNames[locale]; ok {
		if s, ok := m[label]; ok {
			return s
		}
	}
	return displayNames[i18n.Default][label]
}

// Summary returns the localized canned summary sentence for a label.
func Summary(label Label, locale i18n.Locale) string {
	if m, ok := summaries[locale]; ok {
		if s, ok := m[label]; ok {
			return s
		}
	}
	return summaries[i18n.Default][label]
}
