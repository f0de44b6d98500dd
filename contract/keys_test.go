package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"okinoko_vault/sdk"
)

func TestKeysArePrefixed(t *testing.T) {
	assert.Equal(t, string([]byte{kRegistry}), registryKey())
	assert.Len(t, vaultKey(7), 9)
	assert.Equal(t, kVault, vaultKey(7)[0])
	assert.Equal(t, byte(7), vaultKey(7)[1])

	uk := userVaultKey(7, "hive:alice")
	assert.Equal(t, kUserVault, uk[0])
	assert.Equal(t, "hive:alice", uk[9:])
	assert.NotEqual(t, userVaultKey(7, "hive:alice"), userVaultKey(8, "hive:alice"))
	assert.Len(t, voterIndexKey(1, 2), 17)
}

func TestDerivedAddressesAreStable(t *testing.T) {
	a := VaultAddress("okinoko_vault", 7)
	assert.Equal(t, a, VaultAddress("okinoko_vault", 7))
	assert.NotEqual(t, a, VaultAddress("okinoko_vault", 8))
	assert.NotEqual(t, a, VaultAddress("other_program", 7))
	assert.Equal(t, sdk.AddressDomainDerived, a.Domain())

	assert.NotEqual(t, governanceAsset("p"), stakedAsset("p"))
	assert.NotEqual(t, voteAsset("p", a), voteAsset("p", VaultAddress("p", 8)))
	assert.NotEqual(t,
		CreatedAssetID("p", "hive:ab", "c"),
		CreatedAssetID("p", "hive:a", "bc"),
	)
}
