package contract

import (
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// Rejections surfaced to callers. The first six messages are stable, clients
// match on them.
var (
	ErrVotingEnded        = errors.New("Voting period has ended")
	ErrVoteOverflow       = errors.New("Vote overflow")
	ErrMaxVoteCapExceeded = errors.New("Max vote cap exceeded")
	ErrDepositNotAllowed  = errors.New("Deposit is not allowed after convert time")
	ErrDepositOverflow    = errors.New("Deposit overflow")
	ErrClaimNotAvailable  = errors.New("Claim is not available yet")

	ErrNotInitialized       = errors.New("registry not initialized")
	ErrAlreadyInitialized   = errors.New("registry already initialized")
	ErrNotAdmin             = errors.New("only the registry admin may do this")
	ErrNotVaultOwner        = errors.New("only the vault owner may do this")
	ErrVaultExists          = errors.New("vault already exists")
	ErrVaultNotFound        = errors.New("vault not found")
	ErrNoVoteRecord         = errors.New("no vote record for sender")
	ErrProjectNotConfigured = errors.New("project asset not configured")
	ErrProjectLocked        = errors.New("project config is locked after deposits")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPayload       = errors.New("invalid payload")
	ErrUnknownAction        = errors.New("unknown action")
	ErrDuplicateTx          = errors.New("transaction id already used")
)

// CodeInternal marks failures that are not a rejection of the request itself
// (storage, corrupt records).
const CodeInternal = "Internal"

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrVotingEnded, "VotingEnded"},
	{ErrVoteOverflow, "VoteOverflow"},
	{ErrMaxVoteCapExceeded, "MaxVoteCapExceeded"},
	{ErrDepositNotAllowed, "DepositNotAllowed"},
	{ErrDepositOverflow, "DepositOverflow"},
	{ErrClaimNotAvailable, "ClaimNotAvailable"},
	{ErrNotInitialized, "NotInitialized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrNotAdmin, "NotAdmin"},
	{ErrNotVaultOwner, "NotVaultOwner"},
	{ErrVaultExists, "VaultExists"},
	{ErrVaultNotFound, "VaultNotFound"},
	{ErrNoVoteRecord, "NoVoteRecord"},
	{ErrProjectNotConfigured, "ProjectNotConfigured"},
	{ErrProjectLocked, "ProjectLocked"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrInvalidPayload, "InvalidPayload"},
	{ErrUnknownAction, "UnknownAction"},
	{ErrDuplicateTx, "DuplicateTx"},
	{sdk.ErrInsufficientFunds, "InsufficientFunds"},
	{sdk.ErrUnauthorized, "Unauthorized"},
	{sdk.ErrAccountNotFound, "AccountNotFound"},
	{sdk.ErrUnknownAsset, "UnknownAsset"},
	{sdk.ErrAssetExists, "AssetExists"},
	{sdk.ErrSupplyOverflow, "SupplyOverflow"},
	{sdk.ErrLabelExists, "LabelExists"},
	{sdk.ErrInvalidMetadata, "InvalidMetadata"},
}

// ErrorCode maps an error to its stable code. Nil maps to "".
// Example payload: ErrorCode(ErrVotingEnded) == "VotingEnded"
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsRejection reports whether err is an expected refusal rather than a fault.
func IsRejection(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != CodeInternal
}
