package contract

import (
	"strconv"

	"okinoko_vault/sdk"
)

// Actions accepted by Execute.
const (
	ActionInit           = "init"
	ActionConvert        = "convert"
	ActionVaultCreate    = "vault_create"
	ActionVote           = "vote"
	ActionProjectSet     = "project_set"
	ActionProjectDeposit = "project_deposit"
	ActionClaim          = "claim"
	ActionAssetCreate    = "asset_create"
	ActionAssetMint      = "asset_mint"
)

// call is a decoded request. locks names every record the call may write so the
// runtime can serialize conflicting calls; reg is nil before init.
type call interface {
	locks(program string, reg *GlobalRegistry, sender sdk.Address) []string
	run(c *callContext) (string, error)
}

var decoders = map[string]func(string) (call, error){
	ActionInit:           decodeAs(decodeInitArgs),
	ActionConvert:        decodeAs(decodeConvertArgs),
	ActionVaultCreate:    decodeAs(decodeCreateVaultArgs),
	ActionVote:           decodeAs(decodeVoteArgs),
	ActionProjectSet:     decodeAs(decodeProjectSetArgs),
	ActionProjectDeposit: decodeAs(decodeDepositArgs),
	ActionClaim:          decodeAs(decodeClaimArgs),
	ActionAssetCreate:    decodeAs(decodeAssetCreateArgs),
	ActionAssetMint:      decodeAs(decodeAssetMintArgs),
}

func decodeAs[T call](dec func(string) (T, error)) func(string) (call, error) {
	return func(payload string) (call, error) {
		v, err := dec(payload)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Actions lists the supported action names.
func Actions() []string {
	return []string{
		ActionInit, ActionConvert, ActionVaultCreate, ActionVote, ActionProjectSet,
		ActionProjectDeposit, ActionClaim, ActionAssetCreate, ActionAssetMint,
	}
}

func vaultLock(id uint64) string { return lockVault + strconv.FormatUint(id, 10) }

func voterLock(id uint64, user sdk.Address) string {
	return lockVoter + strconv.FormatUint(id, 10) + "/" + user.String()
}

func userLock(a sdk.Address) string { return lockUser + a.String() }

func assetLock(a sdk.Asset) string { return lockAsset + a.String() }

// -----------------------------------------------------------------------------
// Lock Plans
// -----------------------------------------------------------------------------

// init runs under the exclusive registry lock, nothing else is needed.
func (a *InitArgs) locks(string, *GlobalRegistry, sdk.Address) []string { return nil }

func (a *InitArgs) run(c *callContext) (string, error) { return c.initialize(a) }

func (a *ConvertArgs) locks(_ string, reg *GlobalRegistry, sender sdk.Address) []string {
	keys := []string{userLock(sender)}
	if reg != nil {
		keys = append(keys, assetLock(reg.GovernanceAsset), assetLock(reg.StakedAsset))
	}
	return keys
}

func (a *ConvertArgs) run(c *callContext) (string, error) { return c.convert(a) }

func (a *CreateVaultArgs) locks(string, *GlobalRegistry, sdk.Address) []string {
	return []string{vaultLock(a.VaultID), lockVaultIndex}
}

func (a *CreateVaultArgs) run(c *callContext) (string, error) { return c.createVault(a) }

// vote touches the vault (and its vote mint), the voter record, the sender's
// staked account and the staked supply.
func (a *VoteArgs) locks(_ string, reg *GlobalRegistry, sender sdk.Address) []string {
	keys := []string{vaultLock(a.VaultID), voterLock(a.VaultID, sender), userLock(sender)}
	if reg != nil {
		keys = append(keys, assetLock(reg.StakedAsset))
	}
	return keys
}

func (a *VoteArgs) run(c *callContext) (string, error) { return c.vote(a) }

func (a *ProjectSetArgs) locks(string, *GlobalRegistry, sdk.Address) []string {
	return []string{vaultLock(a.VaultID)}
}

func (a *ProjectSetArgs) run(c *callContext) (string, error) { return c.configureProject(a) }

func (a *DepositArgs) locks(_ string, _ *GlobalRegistry, sender sdk.Address) []string {
	return []string{vaultLock(a.VaultID), userLock(sender)}
}

func (a *DepositArgs) run(c *callContext) (string, error) { return c.deposit(a) }

func (a *ClaimArgs) locks(_ string, _ *GlobalRegistry, sender sdk.Address) []string {
	return []string{vaultLock(a.VaultID), voterLock(a.VaultID, sender), userLock(sender)}
}

func (a *ClaimArgs) run(c *callContext) (string, error) { return c.claim(a) }

func (a *AssetCreateArgs) locks(program string, _ *GlobalRegistry, sender sdk.Address) []string {
	return []string{assetLock(CreatedAssetID(program, sender, a.Label.Symbol))}
}

func (a *AssetCreateArgs) run(c *callContext) (string, error) { return c.createAsset(a) }

func (a *AssetMintArgs) locks(string, *GlobalRegistry, sdk.Address) []string {
	return []string{assetLock(a.Asset), userLock(a.To)}
}

func (a *AssetMintArgs) run(c *callContext) (string, error) { return c.mintAsset(a) }
