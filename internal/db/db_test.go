package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemory(t *testing.T) {
	conn, err := Open(InMemory)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "objects.db")

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	assert.DirExists(t, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestOpenAppliesWAL(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "objects.db"))
	require.NoError(t, err)
	defer conn.Close()

	var mode string
	require.NoError(t, conn.Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)
}
