package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/sdk"
)

func TestVaultRecordRoundTrip(t *testing.T) {
	addr := VaultAddress("okinoko_vault", 7)
	v := &Vault{
		ID:              7,
		Address:         addr,
		Owner:           "hive:tibfox",
		GovernanceAsset: governanceAsset("okinoko_vault"),
		StakedAsset:     stakedAsset("okinoko_vault"),
		VoteAsset:       voteAsset("okinoko_vault", addr),
		ProjectAsset:    "pda:project",
		Escrow:          "pda:escrow",
		ClaimOpenTime:   NeverOpens,
		Deadline:        1767225600,
		CreatedAt:       -1,
		MaxVoteCap:      MaxU128,
		TotalBurned:     U128FromParts(1, 2),
		TotalDeposited:  U128From64(900),
	}
	got, err := DecodeVault(EncodeVault(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestRegistryAndVoteRecordRoundTrip(t *testing.T) {
	reg := &GlobalRegistry{
		Address:                 registryAddress("okinoko_vault"),
		Admin:                   "hive:tibfox",
		GovernanceAsset:         governanceAsset("okinoko_vault"),
		StakedAsset:             stakedAsset("okinoko_vault"),
		PayoutMode:              PayoutInteger,
		LockProjectAfterDeposit: true,
		InitializedAt:           1756857600,
	}
	gotReg, err := DecodeRegistry(EncodeRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, reg, gotReg)

	uv := &UserVault{User: "hive:someone", Vault: "pda:v", BurnedAmount: U128From64(400), Claimed: U128{}}
	gotUV, err := DecodeUserVault(EncodeUserVault(uv))
	require.NoError(t, err)
	assert.Equal(t, uv, gotUV)
}

func TestDecodeRejectsDamagedRecords(t *testing.T) {
	data := EncodeVault(&Vault{ID: 1, Owner: sdk.Address("hive:x")})
	for _, cut := range []int{0, 1, 5, len(data) - 1} {
		_, err := DecodeVault(data[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}

	bumped := append([]byte(nil), data...)
	bumped[0] = codecVersion + 1
	_, err := DecodeVault(bumped)
	assert.Error(t, err)
}
