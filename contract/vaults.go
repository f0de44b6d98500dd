package contract

import (
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// loadVault returns ErrVaultNotFound for unknown ids.
func loadVault(st sdk.State, id uint64) (*Vault, error) {
	ptr := st.Get(vaultKey(id))
	if ptr == nil {
		return nil, errors.Wrapf(ErrVaultNotFound, "vault %d", id)
	}
	v, err := DecodeVault([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(err, "decode vault %d", id)
	}
	return v, nil
}

func (c *callContext) saveVault(v *Vault) {
	c.state().Set(vaultKey(v.ID), string(EncodeVault(v)))
}

// createVault opens a vote campaign. The check-then-insert on the vault key runs
// under the vault lock, so two creates of the same id cannot both pass.
// Example payload: "7|1000|1767225600|Vote Seven|VOTE7|https://okinoko.io/v7.json"
func (c *callContext) createVault(args *CreateVaultArgs) (string, error) {
	reg, err := c.loadRegistry()
	if err != nil {
		return "", err
	}
	if c.sender() != reg.Admin {
		return "", ErrNotAdmin
	}
	if c.state().Get(vaultKey(args.VaultID)) != nil {
		return "", errors.Wrapf(ErrVaultExists, "vault %d", args.VaultID)
	}
	if err := args.Label.Validate(); err != nil {
		return "", err
	}

	addr := VaultAddress(c.program, args.VaultID)
	v := &Vault{
		ID:              args.VaultID,
		Address:         addr,
		Owner:           c.sender(),
		GovernanceAsset: reg.GovernanceAsset,
		StakedAsset:     reg.StakedAsset,
		VoteAsset:       voteAsset(c.program, addr),
		ClaimOpenTime:   NeverOpens,
		Deadline:        args.Deadline,
		CreatedAt:       c.now,
		MaxVoteCap:      args.MaxVoteCap,
	}

	// the vote mint answers to the vault address only
	if err := c.bank.CreateMint(v.VoteAsset, TokenDecimals, v.Address); err != nil {
		return "", errors.Wrap(err, "create vote mint")
	}
	if err := c.bank.RegisterLabel(v.VoteAsset, args.Label, actingAuthorityFor(v)); err != nil {
		return "", errors.Wrap(err, "label vote mint")
	}

	c.saveVault(v)
	c.addVaultToIndex(v.ID)
	emitVaultCreated(c, v)
	return "vault created", nil
}
