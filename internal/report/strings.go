package report

import "github.com/hanseolabs/diaryd/internal/i18n"

var monthlyTitles = map[i18n.Locale]string{
	i18n.Korean:   "이번 달, 나의 이야기",
	i18n.English:  "This month, my story",
	i18n.Japanese: "今月、私の物語",
}

var monthlyEmptyBodies = map[i18n.Locale]string{
	i18n.Korean:   "이번 달의 기록이 아직 없어요.\n\n작은 한 문장부터 시작해도 괜찮아요. 오늘의 나를 한 줄로 남겨볼까요?",
	i18n.English:  "You don’t have any logs this month yet.\n\nIt’s okay to start with one small sentence. Want to write one line about today?",
	i18n.Japanese: "今月の記録はまだありません。\n\n一文からでも大丈夫。今日の自分を一行で残してみませんか？",
}

var monthlyCountParas = map[i18n.Locale]string{
	i18n.Korean:   "이번 달 나는 %d번의 기록으로 나를 남겼어요. 기록은 “잘했다/못했다”를 가르는 것이 아니라, 내 삶을 있는 그대로 바라보는 창이 되어줍니다.",
	i18n.English:  "This month, I left %d logs for myself. Logging isn’t about judging “good/bad”; it’s a window to see my life as it is.",
	i18n.Japanese: "今月、私は%d回の記録を残しました。記録は「良い/悪い」を決めるものではなく、人生をそのまま見つめる窓になります。",
}

var monthlyEmotionParas = map[i18n.Locale]string{
	i18n.Korean:   "기록을 종합해보면, 이번 달에는 ‘%s’의 흐름이 자주 보였어요. 그 감정이 생길 때마다 나는 무엇을 지키고 싶었는지, 무엇이 필요했는지 떠올려보면 좋아요.",
	i18n.English:  "Across your logs, the mood “%s” appeared often this month. When it shows up, what were you trying to protect, and what did you need?",
	i18n.Japanese: "記録をまとめると、今月は「%s」の流れがよく見られました。その感情が出るとき、何を守りたくて、何が必要だったのでしょう？",
}

var monthlyMixedEmotionParas = map[i18n.Locale]string{
	i18n.Korean:   "이번 달의 감정은 한 가지로 정리하기보다, 여러 결이 함께 있었던 것으로 보여요.",
	i18n.English:  "This month’s feelings may not fit into a single label—more like multiple textures together.",
	i18n.Japanese: "今月の感情は一つにまとめるより、いくつかの質感が一緒にあったようです。",
}

var monthlyHighlightParas = map[i18n.Locale]string{
	i18n.Korean:   "특히 기억에 남는 한 줄은 “%s…”였어요. 이 문장을 쓴 ‘그때의 나’에게 지금의 내가 한마디 건넨다면, 어떤 말이 가장 다정할까요?",
	i18n.English:  "One line that stood out was “%s…”. If you could say one kind sentence to the “you” who wrote that, what would it be?",
	i18n.Japanese: "特に印象的だった一文は「%s…」でした。そのときの自分に、今の自分が一言かけるなら何がいちばん優しいでしょう？",
}

var monthlyNoHighlightParas = map[i18n.Locale]string{
	i18n.Korean:   "이번 달의 나는 어떤 순간을 가장 또렷하게 기억하나요? 그 장면을 한 문장으로 적어볼까요?",
	i18n.English:  "What moment do you remember most clearly this month? Want to write it in one sentence?",
	i18n.Japanese: "今月いちばんはっきり覚えている瞬間はいつですか？一文で書いてみませんか？",
}

var monthlyClosingParas = map[i18n.Locale]string{
	i18n.Korean:   "다음 달을 위한 작은 방향을 하나만 고른다면, ‘늘리기’보다 ‘덜어내기’에서 시작해도 좋아요. 내게 편안함을 주는 한 가지를 찾아, 일주일에 한 번만이라도 해보는 건 어떨까요?",
	i18n.English:  "For next month, you can start with ‘less’ rather than ‘more’. Find one thing that brings you ease—and try it just once a week.",
	i18n.Japanese: "来月の小さな方向を一つ選ぶなら、「増やす」より「減らす」から始めてもいいです。心が楽になる一つを見つけ、週に一度だけでも試してみませんか？",
}

var lifeTitles = map[i18n.Locale]string{
	i18n.Korean:   "자서전",
	i18n.English:  "Autobiography",
	i18n.Japanese: "自叙伝",
}

var lifeEmptyBodies = map[i18n.Locale]string{
	i18n.Korean:   "이 기간의 기록이 아직 없어요.\n\n작은 한 문장부터 시작해도 괜찮아요. 그곳에서 이야기가 시작됩니다.",
	i18n.English:  "There are no logs in this period yet.\n\nStart with one small sentence—your story begins there.",
	i18n.Japanese: "この期間の記録はまだありません。\n\n一文からでも大丈夫。そこから物語が始まります。",
}

var lifeRangeParas = map[i18n.Locale]string{
	i18n.Korean:   "%s부터 %s까지, 나는 %d번의 기록으로 나를 남겼어요. 하나하나가 ‘계속 살아낸’ 증거예요.",
	i18n.English:  "From %s to %s, I left %d logs for myself. Each entry is a quiet proof that I kept going.",
	i18n.Japanese: "%s〜%sの間に、私は%d回の記録を残しました。ひとつひとつが、歩き続けた証です。",
}

var lifeMonthsParas = map[i18n.Locale]string{
	i18n.Korean:   "지난 %d개월 동안, 나는 %d번의 기록으로 나를 남겼어요. 하나하나가 ‘계속 살아낸’ 증거예요.",
	i18n.English:  "Over the last %d months, I left %d logs for myself. Each entry is a quiet proof that I kept going.",
	i18n.Japanese: "この%dか月で、私は%d回の記録を残しました。ひとつひとつが、歩き続けた証です。",
}

var lifeEmotionParas = map[i18n.Locale]string{
	i18n.Korean:   "가장 자주 등장한 정서는 ‘%s’였어요. 이것은 평가가 아니라, 내게 중요했던 것의 신호예요.",
	i18n.English:  "The emotion that appeared most often was “%s”. It’s not a verdict—it’s a signal about what mattered to me.",
	i18n.Japanese: "もっとも多く見られた感情は「%s」でした。これは評価ではなく、私にとって大切だったもののサインです。",
}

var lifeMixedEmotionParas = map[i18n.Locale]string{
	i18n.Korean:   "감정은 한 가지로만 정리되지 않았고, 여러 결이 함께 얽혀 있었던 것 같아요.",
	i18n.English:  "My emotions didn’t fit into one box—more like several threads woven together.",
	i18n.Japanese: "感情は一つにまとまらず、いくつかの糸が織り重なっていたようです。",
}

var lifeHighlightParas = map[i18n.Locale]string{
	i18n.Korean:   "특히 마음에 남은 한 줄은 “%s…”였어요. 그 순간의 나에게 다정하게 답해준다면, 어떤 말을 해주고 싶나요?",
	i18n.English:  "One line that stayed with me was: “%s…”. If I could reply to that moment with kindness, what would I say?",
	i18n.Japanese: "心に残った一文は「%s…」でした。その瞬間の自分へ、優しく返事をするなら何と言うでしょう？",
}

var lifeNoHighlightParas = map[i18n.Locale]string{
	i18n.Korean:   "이 기간 동안 기억해두고 싶은 순간은 무엇인가요? 한 문장으로 이름 붙여볼 수 있어요.",
	i18n.English:  "What moment do I want to remember from this period? I can name it in one sentence.",
	i18n.Japanese: "この期間で覚えておきたい瞬間は何でしょう？一文で名付けてみます。",
}

var lifeClosingParas = map[i18n.Locale]string{
	i18n.Korean:   "내 이야기는 완벽할 필요가 없어요. 그저 ‘내 것’이면 충분해요. 조용히, 비공개로, 솔직하게.",
	i18n.English:  "My story doesn’t need to be perfect. It only needs to be mine—quietly, privately, and honestly.",
	i18n.Japanese: "私の物語は完璧である必要はありません。ただ私のものであればいい。静かに、非公開で、正直に。",
}
