package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("postgres", "postgres://localhost/bazar")
	assert.ErrorContains(t, err, "unsupported database driver")
}
