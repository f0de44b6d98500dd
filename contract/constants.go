package contract

import "math"

// -----------------------------------------------------------------------------
// Mint Settings
// -----------------------------------------------------------------------------

// TokenDecimals is used for the governance, staked and every vote mint.
const TokenDecimals uint8 = 6

// NeverOpens is the claim open time of a vault whose project is not configured yet.
// Deposits stay open and claims stay closed until project_set moves it.
const NeverOpens int64 = math.MaxInt64

// -----------------------------------------------------------------------------
// Address Seeds
// -----------------------------------------------------------------------------

const (
	seedRegistry     = "global_state"
	seedGovMint      = "governance_token_mint"
	seedStakedMint   = "st_governance_token_mint"
	seedVault        = "vault"
	seedVoteMint     = "vote_token_mint"
	seedAssetCreated = "asset"
)

// -----------------------------------------------------------------------------
// Counter Keys
// -----------------------------------------------------------------------------

// VaultsCount holds the number of vaults, used as the next index slot.
const VaultsCount = "count:vaults"

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kRegistry stores the encoded GlobalRegistry singleton.
	kRegistry byte = 0x01
	// kVault stores encoded Vault records by vault id.
	kVault byte = 0x02
	// kUserVault stores per (vault, user) vote records.
	kUserVault byte = 0x03
	// kVaultIndex maps index slot -> vault id for listings.
	kVaultIndex byte = 0x04
	// kVoterCount counts distinct voters per vault.
	kVoterCount byte = 0x05
	// kVoterIndex maps (vault, slot) -> voter address.
	kVoterIndex byte = 0x06
	// kClock stores the time of the latest committed call.
	kClock byte = 0x07
)

// -----------------------------------------------------------------------------
// Lock Names
// -----------------------------------------------------------------------------

const (
	lockVault      = "vault:"
	lockVoter      = "voter:"
	lockUser       = "user:"
	lockAsset      = "asset:"
	lockVaultIndex = "index:vaults"
	lockTx         = "tx:"
)
