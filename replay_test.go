package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/contract"
	"okinoko_vault/store"
)

const replayLines = `# seed
{"tx_id":"1","sender":"hive:tibfox","timestamp":1756857600,"action":"init","payload":"Okinoko|OKI||Staked Okinoko|stOKI|"}

{"tx_id":"2","sender":"hive:tibfox","timestamp":1756857600,"action":"vault_create","payload":"1|1000|1756861200|Vote One|VOTE1|"}
{"tx_id":"3","sender":"hive:bob","timestamp":1756857600,"action":"vault_create","payload":"2|1000|1756861200|Vote Two|VOTE2|"}
`

func TestReplayAppliesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(replayLines), 0o644))

	c := contract.New(store.NewMemory(""), contract.Options{})
	var out bytes.Buffer
	stats, err := replay(context.Background(), c, path, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.applied)
	assert.Equal(t, 1, stats.rejected)
	assert.Zero(t, stats.failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], `"code":"NotAdmin"`)

	v, err := c.Vault(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1756861200), v.Deadline)
}

func TestReplayStopsOnMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json\n"), 0o644))

	_, err := replay(context.Background(), contract.New(store.NewMemory(""), contract.Options{}), path, &bytes.Buffer{})
	assert.ErrorIs(t, err, contract.ErrInvalidPayload)
	assert.Contains(t, err.Error(), "line 1")
}
