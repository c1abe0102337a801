package chat

import (
	"testing"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrSeedGreetsOnce(t *testing.T) {
	tr := NewTranscript(kvstore.NewMemory())

	msgs, err := tr.LoadOrSeed(i18n.English)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Contains(t, msgs[0].Text, "without comparison")

	// A second load must not seed again.
	again, err := tr.LoadOrSeed(i18n.English)
	require.NoError(t, err)
	assert.Equal(t, msgs, again)
}

func TestAppendAndReplaceThinking(t *testing.T) {
	tr := NewTranscript(kvstore.NewMemory())

	_, err := tr.LoadOrSeed(i18n.Korean)
	require.NoError(t, err)

	user := tr.NewUserMessage("요즘 잠을 잘 못 자요")
	require.NoError(t, tr.Append(user))

	thinking, err := tr.AppendThinking(i18n.Korean)
	require.NoError(t, err)
	assert.Equal(t, "생각중...", thinking.Text)

	reply := tr.NewAssistantMessage("수면 루틴부터 정리해볼까요?")
	require.NoError(t, tr.ReplaceThinking(thinking.ID, reply))

	msgs, err := tr.LoadOrSeed(i18n.Korean)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, user.ID, msgs[1].ID)
	assert.Equal(t, reply.ID, msgs[2].ID)
	assert.Equal(t, "수면 루틴부터 정리해볼까요?", msgs[2].Text)

	// The placeholder id must be gone.
	for _, m := range msgs {
		assert.NotEqual(t, thinking.ID, m.ID)
	}
}

func TestReplaceThinkingMissingPlaceholderAppends(t *testing.T) {
	tr := NewTranscript(kvstore.NewMemory())

	reply := tr.NewAssistantMessage("hello")
	require.NoError(t, tr.ReplaceThinking("missing", reply))

	msgs, err := tr.LoadOrSeed(i18n.Korean)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, reply.ID, msgs[0].ID)
}

func TestRecent(t *testing.T) {
	tr := NewTranscript(kvstore.NewMemory())

	var all []Message
	for i := 0; i < 8; i++ {
		all = append(all, tr.NewUserMessage("m"))
	}

	assert.Len(t, Recent(all, 5), 5)
	assert.Equal(t, all[3].ID, Recent(all, 5)[0].ID)
	assert.Len(t, Recent(all, 20), 8)
	assert.Nil(t, Recent(all, 0))
	assert.Nil(t, Recent(nil, 5))
}
