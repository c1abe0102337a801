package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileRoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	in := payload{Name: "entry", Count: 3}
	require.NoError(t, store.Set(KeyEntries, in))

	var out payload
	found, err := store.Get(KeyEntries, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestFileMissingKey(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	var out payload
	found, err := store.Get("nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileOverwrite(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyProfile, payload{Name: "a"}))
	require.NoError(t, store.Set(KeyProfile, payload{Name: "b"}))

	var out payload
	found, err := store.Get(KeyProfile, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", out.Name)
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "data")
	store, err := NewFile(sub)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyChat, payload{}))

	info, err := os.Stat(sub)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(sub, KeyChat+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileRequiresDir(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()

	var out payload
	found, err := store.Get(KeyLocale, &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(KeyLocale, payload{Name: "ko"}))
	found, err = store.Get(KeyLocale, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ko", out.Name)
}
