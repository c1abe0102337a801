// Package chat persists the single ongoing mentor conversation transcript.
//
// Messages are append-only except for the thinking placeholder, which is
// replaced in place once a real reply (or an offline fallback) arrives.
package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/kvstore"
)

// Role distinguishes the two sides of the transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript line.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAtISO"`
}

var greetings = map[i18n.Locale]string{
	i18n.Korean:   "여기는 비교나 평가가 없는 공간이에요.\n\n오늘의 마음을 한 문장으로 적어볼까요? 저는 '답'을 주기보다, 스스로 정리할 수 있도록 질문을 건넬게요.",
	i18n.English:  "This is a space without comparison or judgment.\n\nWrite one sentence about how you feel today. I won't give you \"the answer\"—I'll ask questions to help you organize your thoughts.",
	i18n.Japanese: "ここは比較や評価のない場所です。\n\n今日の気持ちを一文で書いてみませんか？私は「答え」を与えるのではなく、考えを整えるための質問を届けます。",
}

var thinkingTexts = map[i18n.Locale]string{
	i18n.Korean:   "생각중...",
	i18n.English:  "Thinking...",
	i18n.Japanese: "考えています…",
}

// Transcript stores the conversation under local key-value storage.
type Transcript struct {
	kv  kvstore.Store
	now func() time.Time
}

// NewTranscript creates a transcript over kv.
func NewTranscript(kv kvstore.Store) *Transcript {
	return &Transcript{kv: kv, now: time.Now}
}

// LoadOrSeed returns the stored messages, seeding the mentor's greeting when
// the transcript is empty.
func (t *Transcript) LoadOrSeed(locale i18n.Locale) ([]Message, error) {
	msgs, err := t.load()
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	greeting := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Text:      greetings[locale.OrDefault()],
		CreatedAt: t.now(),
	}
	if err := t.save([]Message{greeting}); err != nil {
		return nil, err
	}
	return []Message{greeting}, nil
}

// Append adds messages to the end of the transcript and persists it.
func (t *Transcript) Append(msgs ...Message) error {
	existing, err := t.load()
	if err != nil {
		return err
	}
	return t.save(append(existing, msgs...))
}

// NewUserMessage builds an unsaved user message.
func (t *Transcript) NewUserMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Text: text, CreatedAt: t.now()}
}

// NewAssistantMessage builds an unsaved assistant message.
func (t *Transcript) NewAssistantMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Text: text, CreatedAt: t.now()}
}

// AppendThinking appends the localized thinking placeholder and returns it so
// the caller can later replace it by id.
func (t *Transcript) AppendThinking(locale i18n.Locale) (Message, error) {
	msg := t.NewAssistantMessage(thinkingTexts[locale.OrDefault()])
	if err := t.Append(msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// ReplaceThinking swaps the placeholder with the real reply in place. A
// missing placeholder id appends instead, so the reply is never lost.
func (t *Transcript) ReplaceThinking(placeholderID string, replacement Message) error {
	msgs, err := t.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, m := range msgs {
		if m.ID == placeholderID {
			msgs[i] = replacement
			replaced = true
			break
		}
	}
	if !replaced {
		msgs = append(msgs, replacement)
	}
	return t.save(msgs)
}

func (t *Transcript) load() ([]Message, error) {
	var msgs []Message
	if _, err := t.kv.Get(kvstore.KeyChat, &msgs); err != nil {
		return nil, fmt.Errorf("failed to load chat transcript: %w", err)
	}
	return msgs, nil
}

func (t *Transcript) save(msgs []Message) error {
	if err := t.kv.Set(kvstore.KeyChat, msgs); err != nil {
		return fmt.Errorf("failed to persist chat transcript: %w", err)
	}
	return nil
}

// Recent returns the last n user/assistant exchanges for prompt history.
func Recent(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) == 0 {
		return nil
	}
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
