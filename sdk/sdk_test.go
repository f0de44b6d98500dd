package sdk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/sdk"
	"okinoko_vault/store"
)

func TestTxReadsOwnWrites(t *testing.T) {
	mem := store.NewMemory("")
	require.NoError(t, mem.Apply([]sdk.Write{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, nil))

	tx := sdk.NewTx(mem)
	assert.Equal(t, "1", *tx.Get("a"))
	tx.Set("a", "10")
	tx.Delete("b")
	tx.Set("c", "3")
	assert.Equal(t, "10", *tx.Get("a"))
	assert.Nil(t, tx.Get("b"))

	// nothing reached the backend yet
	v, err := mem.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "1", *v)

	assert.Equal(t, []sdk.Write{
		{Key: "a", Value: "10"},
		{Key: "b", Delete: true},
		{Key: "c", Value: "3"},
	}, tx.Writes())

	require.NoError(t, tx.Commit(&sdk.Receipt{TxID: "t1", Success: true}))
	v, _ = mem.Load("a")
	assert.Equal(t, "10", *v)
	v, _ = mem.Load("b")
	assert.Nil(t, v)
	r, err := mem.Receipt("t1")
	require.NoError(t, err)
	assert.True(t, r.Success)
}

func TestTxGetReturnsCopies(t *testing.T) {
	tx := sdk.NewTx(store.NewMemory(""))
	tx.Set("k", "v")
	p := tx.Get("k")
	*p = "changed"
	assert.Equal(t, "v", *tx.Get("k"))
}

type failingBackend struct{ *store.Memory }

var errDisk = errors.New("disk on fire")

func (failingBackend) Load(string) (*string, error) { return nil, errDisk }

func TestTxRemembersReadFailure(t *testing.T) {
	tx := sdk.NewTx(failingBackend{store.NewMemory("")})
	assert.Nil(t, tx.Get("k"))
	assert.ErrorIs(t, tx.Err(), errDisk)
	tx.Set("k", "v")
	assert.ErrorIs(t, tx.Commit(nil), errDisk)
}

func TestTxLogs(t *testing.T) {
	tx := sdk.NewTx(store.NewMemory(""))
	tx.Log("v|id:1")
	logs := tx.Logs()
	logs[0] = "mutated"
	assert.Equal(t, []string{"v|id:1"}, tx.Logs())
}

func TestDeriveAddress(t *testing.T) {
	a := sdk.DeriveAddress("prog", "vault", []byte{1})
	assert.Equal(t, a, sdk.DeriveAddress("prog", "vault", []byte{1}))
	assert.NotEqual(t, a, sdk.DeriveAddress("prog", "vault", []byte{2}))
	assert.NotEqual(t, sdk.DeriveAddress("prog", "ab", []byte("c")), sdk.DeriveAddress("prog", "a", []byte("bc")))
	assert.Equal(t, sdk.AddressDomainDerived, a.Domain())
	assert.Equal(t, sdk.AddressTypeDerived, a.Type())
	assert.True(t, a.IsValid())
}

func TestAddressTypes(t *testing.T) {
	assert.Equal(t, sdk.AddressTypeHive, sdk.Address("hive:alice").Type())
	assert.Equal(t, sdk.AddressTypeEVM, sdk.Address("did:pkh:eip155:1:0xabc").Type())
	assert.Equal(t, sdk.AddressTypeKey, sdk.Address("did:key:z6Mk").Type())
	assert.Equal(t, sdk.AddressDomainSystem, sdk.Address("system:fr_balance").Domain())
	assert.False(t, sdk.Address("alice").IsValid())
}

func TestParseTimestamp(t *testing.T) {
	v, ok := sdk.ParseTimestamp("2025-09-03T00:00:00")
	assert.True(t, ok)
	assert.Equal(t, int64(1756857600), v)
	_, ok = sdk.ParseTimestamp("yesterday")
	assert.False(t, ok)
	v, ok = sdk.ParseTimestamp("1756857600")
	assert.True(t, ok)
	assert.Equal(t, int64(1756857600), v)
}

func TestTokenMetadataValidate(t *testing.T) {
	assert.NoError(t, sdk.TokenMetadata{Name: "Okinoko", Symbol: "OKI"}.Validate())
	assert.ErrorIs(t, sdk.TokenMetadata{Name: "a|b", Symbol: "X"}.Validate(), sdk.ErrInvalidMetadata)
	assert.ErrorIs(t, sdk.TokenMetadata{Name: "N", Symbol: ""}.Validate(), sdk.ErrInvalidMetadata)
}
