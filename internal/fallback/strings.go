package fallback

import "github.com/hanseolabs/diaryd/internal/i18n"

var headers = map[i18n.Locale]string{
	i18n.Korean:   "오프라인 모드",
	i18n.English:  "Offline mode",
	i18n.Japanese: "オフラインモード",
}

var reasonLines = map[i18n.Locale]map[Reason]string{
	i18n.Korean: {
		ReasonDailyLimit:     "(서버 AI: 일일 제한으로 생략)",
		ReasonCooldown:       "(서버 AI: 쿨다운으로 생략)",
		ReasonMessageTooLong: "(서버 AI: 메시지가 길어 생략)",
		ReasonNetworkError:   "(서버 AI: 네트워크로 생략)",
	},
	i18n.English: {
		ReasonDailyLimit:     "(Server AI skipped: daily limit)",
		ReasonCooldown:       "(Server AI skipped: cooldown)",
		ReasonMessageTooLong: "(Server AI skipped: message too long)",
		ReasonNetworkError:   "(Server AI skipped: network error)",
	},
	i18n.Japanese: {
		ReasonDailyLimit:     "（サーバーAI: 本日の上限でスキップ）",
		ReasonCooldown:       "（サーバーAI: クールダウンでスキップ）",
		ReasonMessageTooLong: "（サーバーAI: 文章が長すぎてスキップ）",
		ReasonNetworkError:   "（サーバーAI: ネットワークでスキップ）",
	},
}

func reasonLine(locale i18n.Locale, reason Reason) string {
	if reason == ReasonNone {
		return ""
	}
	if line, ok := reasonLines[locale][reason]; ok {
		return line
	}
	return reasonLines[locale][ReasonNetworkError]
}

var topicPrefixes = map[i18n.Locale]string{
	i18n.Korean:   "주제: ",
	i18n.English:  "Topic: ",
	i18n.Japanese: "テーマ: ",
}

var emptyTopics = map[i18n.Locale]string{
	i18n.Korean:   "주제: (비어 있음)",
	i18n.English:  "Topic: (empty)",
	i18n.Japanese: "テーマ:（空）",
}

var recentFormats = map[i18n.Locale]string{
	i18n.Korean:   "최근 기록: “%s…”",
	i18n.English:  "Recent log: \"%s…\"",
	i18n.Japanese: "最近の記録: 「%s…」",
}

var promptLines = map[i18n.Locale]string{
	i18n.Korean:   "몇 가지 진행 방향을 제안할게요:",
	i18n.English:  "Here are a few ways we can approach this:",
	i18n.Japanese: "いくつか進め方を提案します：",
}

var variants = map[i18n.Locale][3][]string{
	i18n.Korean: {
		{
			"- 먼저 상황을 한 문장으로 요약해볼까요?",
			"- 지금 당장 할 수 있는 ‘가장 작은 다음 행동’ 1개를 정해요.",
			"- 원하면 선택지(2~3개) 중 우선순위를 같이 정리해요.",
		},
		{
			"- 핵심 목표가 뭐였는지(오늘/이번주)만 딱 정해요.",
			"- 방해 요인이 뭐였는지 1~2개만 적어봐요.",
			"- 그 방해를 줄이는 행동을 10분짜리로 쪼개요.",
		},
		{
			"- 지금 마음/에너지(0~10)가 어느 정도인지부터 잡아요.",
			"- 에너지가 낮으면 ‘유지/회복’ 플랜으로, 높으면 ‘전진’ 플랜으로 가요.",
			"- 다음 질문 하나만 답해줘도 돼요: “지금 제일 걱정되는 건 뭐야?”",
		},
	},
	i18n.English: {
		{
			"- Let’s summarize the situation in one sentence.",
			"- Pick the smallest next action you can do today.",
			"- If you have options, we can prioritize them together.",
		},
		{
			"- Clarify your goal for today/this week.",
			"- Name 1–2 blockers.",
			"- Turn the next step into a 10‑minute task.",
		},
		{
			"- Rate your energy (0–10).",
			"- Low energy: stabilize/restore; high energy: advance.",
			"- What’s the single biggest concern right now?",
		},
	},
	i18n.Japanese: {
		{
			"- 状況を一文で要約してみましょう。",
			"- 今日できる最小の次の行動を1つ決めます。",
			"- 選択肢があるなら優先順位を一緒に整理します。",
		},
		{
			"- 今日/今週の目標を1つに絞ります。",
			"- 障害を1〜2個挙げます。",
			"- 次の一歩を10分タスクに分解します。",
		},
		{
			"- エネルギー(0〜10)を教えてください。",
			"- 低い:維持/回復、高い:前進。",
			"- いま一番の不安は何ですか？",
		},
	},
}

var closingQuestions = map[i18n.Locale]string{
	i18n.Korean:   "확인: 이 대화에서 얻고 싶은 결과가 뭐예요?",
	i18n.English:  "Quick question: what outcome do you want from this conversation?",
	i18n.Japanese: "確認: この会話で得たい結果は何ですか？",
}

// QuotaNote is the framing line prepended when the remote mentor was skipped
// for a quota reason and the conversation switches to offline questions.
var quotaNotes = map[i18n.Locale]map[Reason]string{
	i18n.Korean: {
		ReasonMessageTooLong: "내용이 너무 길어서, 오프라인 질문 모드로 전환할게요.",
		ReasonCooldown:       "잠시만 기다려주세요. 오프라인 질문 모드로 전환할게요.",
		ReasonDailyLimit:     "오늘 AI 사용량 제한에 도달했어요. 오프라인 질문 모드로 전환할게요.",
	},
	i18n.English: {
		ReasonMessageTooLong: "Your message is too long, so I’ll switch to offline questions.",
		ReasonCooldown:       "Please wait a moment—switching to offline questions.",
		ReasonDailyLimit:     "You’ve reached today’s AI usage limit. Switching to offline questions.",
	},
	i18n.Japanese: {
		ReasonMessageTooLong: "文章が長すぎるため、オフラインの質問モードに切り替えます。",
		ReasonCooldown:       "少し待ってください。オフラインの質問モードに切り替えます。",
		ReasonDailyLimit:     "本日のAI利用上限に達しました。オフラインの質問モードに切り替えます。",
	},
}

// QuotaNote returns the localized framing message for a quota rejection.
// Unknown reasons use the daily-limit phrasing.
func QuotaNote(locale i18n.Locale, reason Reason) string {
	locale = locale.OrDefault()
	if note, ok := quotaNotes[locale][reason]; ok {
		return note
	}
	return quotaNotes[locale][ReasonDailyLimit]
}
