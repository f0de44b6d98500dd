package contract

import (
	"strings"

	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// PayoutMode picks how claim amounts are computed.
type PayoutMode uint8

const (
	// PayoutFloat floors amount * (burned / total) computed in double precision.
	PayoutFloat PayoutMode = 0
	// PayoutInteger uses exact floor division and hands the rounding remainder to the last claimant.
	PayoutInteger PayoutMode = 1
)

// String serializes the PayoutMode enum for config, logs and queries.
// Example payload: PayoutInteger.String()
func (m PayoutMode) String() string {
	switch m {
	case PayoutInteger:
		return "integer"
	default:
		return "float"
	}
}

// ParsePayoutMode accepts "float" or "integer" (case insensitive).
func ParsePayoutMode(s string) (PayoutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float":
		return PayoutFloat, nil
	case "integer":
		return PayoutInteger, nil
	default:
		return PayoutFloat, errors.Errorf("unknown payout mode %q", s)
	}
}

// GlobalRegistry is the deployment singleton. Asset ids and policy never change after init.
type GlobalRegistry struct {
	Address                 sdk.Address
	Admin                   sdk.Address
	GovernanceAsset         sdk.Asset
	StakedAsset             sdk.Asset
	PayoutMode              PayoutMode
	LockProjectAfterDeposit bool
	InitializedAt           int64
}

func (r *GlobalRegistry) recordAddress() sdk.Address { return r.Address }

// Vault is one vote campaign plus its project escrow.
type Vault struct {
	ID              uint64
	Address         sdk.Address
	Owner           sdk.Address
	GovernanceAsset sdk.Asset
	StakedAsset     sdk.Asset
	VoteAsset       sdk.Asset
	ProjectAsset    sdk.Asset
	Escrow          sdk.Address
	ClaimOpenTime   int64
	Deadline        int64
	CreatedAt       int64
	MaxVoteCap      U128
	TotalBurned     U128
	TotalDeposited  U128
	// claim bookkeeping, only read by the integer payout
	ClaimedVotes U128
	TotalClaimed U128
}

func (v *Vault) recordAddress() sdk.Address { return v.Address }

// VotingOpen is a single comparison against the deadline.
func (v *Vault) VotingOpen(now int64) bool { return now < v.Deadline }

// ClaimOpen reports whether claims are accepted (and deposits refused).
func (v *Vault) ClaimOpen(now int64) bool { return now >= v.ClaimOpenTime }

// ProjectConfigured reports whether project_set ran at least once.
func (v *Vault) ProjectConfigured() bool { return !v.ProjectAsset.IsZero() }

// UserVault is a voter's stake in one vault. It is never deleted, a claim zeroes it.
type UserVault struct {
	User         sdk.Address
	Vault        sdk.Address
	BurnedAmount U128
	Claimed      U128
}

// -----------------------------------------------------------------------------
// Call Arguments
// -----------------------------------------------------------------------------

type InitArgs struct {
	Governance sdk.TokenMetadata
	Staked     sdk.TokenMetadata
}

type ConvertArgs struct {
	Amount uint64
}

type CreateVaultArgs struct {
	VaultID    uint64
	MaxVoteCap U128
	Deadline   int64
	Label      sdk.TokenMetadata
}

type VoteArgs struct {
	VaultID uint64
	Amount  uint64
}

type ProjectSetArgs struct {
	VaultID       uint64
	ProjectAsset  sdk.Asset
	ClaimOpenTime int64
}

type DepositArgs struct {
	VaultID uint64
	Amount  uint64
}

type ClaimArgs struct {
	VaultID uint64
}

type AssetCreateArgs struct {
	Label    sdk.TokenMetadata
	Decimals uint8
}

type AssetMintArgs struct {
	Asset  sdk.Asset
	To     sdk.Address
	Amount uint64
}
