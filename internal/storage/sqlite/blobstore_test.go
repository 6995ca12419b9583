package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer store.Close()

	_, exists, err := store.Load("board")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save("board", []byte(`{"version":1}`)))

	data, exists, err := store.Load("board")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, []byte(`{"version":1}`), data)
}

func TestSaveOverwrites(t *testing.T) {
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("board", []byte("first")))
	require.NoError(t, store.Save("board", []byte("second")))

	data, exists, err := store.Load("board")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, []byte("second"), data)
}

func TestBlobsAreIndependentByName(t *testing.T) {
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("a", []byte("alpha")))
	require.NoError(t, store.Save("b", []byte("beta")))

	data, _, err := store.Load("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), data)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "board.db")

	store, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("board", []byte("persisted")))

	data, exists, err := store.Load("board")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, []byte("persisted"), data)
}
