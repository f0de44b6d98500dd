package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/config"
	"okinoko_vault/logger"
	"okinoko_vault/sdk"
)

func TestOpenFallsBackToMemory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "state.json")
	seed := NewMemory(file)
	require.NoError(t, seed.Apply([]sdk.Write{{Key: "a", Value: "1"}}, nil))

	backend, err := Open(config.Config{StateFile: file}, logger.Discard())
	require.NoError(t, err)
	mem, ok := backend.(*Memory)
	require.True(t, ok)
	assert.Equal(t, 1, mem.Len())
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(config.Config{DBDialect: "sqlite", DBDsn: "file:vault.db"}, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database dialect")
}
