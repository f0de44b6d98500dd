package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/sdk"
)

func TestDecodeCreateVaultArgs(t *testing.T) {
	args, err := decodeCreateVaultArgs(" 7 | 1000 | 2026-01-01T00:00:00Z |Vote Seven|VOTE7|https://okinoko.io/v7.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), args.VaultID)
	assert.Equal(t, "1000", args.MaxVoteCap.String())
	assert.Equal(t, int64(1767225600), args.Deadline)
	assert.Equal(t, sdk.TokenMetadata{Name: "Vote Seven", Symbol: "VOTE7", URI: "https://okinoko.io/v7.json"}, args.Label)

	_, err = decodeCreateVaultArgs("7|1000|1767225600")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeTimestamps(t *testing.T) {
	for in, want := range map[string]int64{
		"1767225600":                1767225600,
		"2026-01-01T00:00:00Z":      1767225600,
		"2026-01-01T01:00:00+01:00": 1767225600,
		"2026-01-01T00:00:00":       1767225600,
	} {
		got, err := parseTimeField(in, "deadline")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseTimeField("next week", "deadline")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeAmounts(t *testing.T) {
	_, err := decodeVoteArgs("1|-1")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeVoteArgs("1|18446744073709551616")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	args, err := decodeDepositArgs(`"3|18446744073709551615"`)
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), args.Amount)
	_, err = decodeClaimArgs("")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeRejectsExtraFields(t *testing.T) {
	_, err := decodeVoteArgs("1|100|junk")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeDepositArgs("1|100|")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeClaimArgs("1|2")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeConvertArgs("10|10")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeProjectSetArgs("1|pda:x|1767225600|later")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeCreateVaultArgs("7|1000|1767225600|Vote|VOTE||extra")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeAssetMintArgs("pda:x|hive:bob|1|1")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	// decimals is the one optional trailing field
	_, err = decodeAssetCreateArgs("Reward|RWD||6|x")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeAssetArgs(t *testing.T) {
	args, err := decodeAssetCreateArgs("Reward|RWD|")
	require.NoError(t, err)
	assert.Equal(t, TokenDecimals, args.Decimals)

	args, err = decodeAssetCreateArgs("Reward|RWD||0")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), args.Decimals)

	_, err = decodeAssetMintArgs("pda:x|pda:y|1")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = decodeAssetMintArgs("pda:x|bob|1")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	mint, err := decodeAssetMintArgs("pda:x| hive:bob |1")
	require.NoError(t, err)
	assert.Equal(t, sdk.Address("hive:bob"), mint.To)
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "VotingEnded", ErrorCode(ErrVotingEnded))
	assert.Equal(t, "Voting period has ended", ErrVotingEnded.Error())
	assert.Equal(t, "InsufficientFunds", ErrorCode(sdk.ErrInsufficientFunds))
	assert.Equal(t, CodeInternal, ErrorCode(assert.AnError))
	assert.True(t, IsRejection(ErrMaxVoteCapExceeded))
	assert.False(t, IsRejection(assert.AnError))
}
