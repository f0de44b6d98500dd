package contract

import (
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// loadRegistry is the only way to reach the singleton; before init it fails.
func (c *callContext) loadRegistry() (*GlobalRegistry, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	ptr := c.state().Get(registryKey())
	if ptr == nil {
		return nil, ErrNotInitialized
	}
	reg, err := DecodeRegistry([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrap(err, "decode registry")
	}
	c.registry = reg
	return reg, nil
}

func (c *callContext) saveRegistry(reg *GlobalRegistry) {
	c.state().Set(registryKey(), string(EncodeRegistry(reg)))
	c.registry = reg
}

// initialize sets the sender as admin, creates the governance mint (admin is its
// authority) and the staked mint (the registry is its authority), labels both and
// pins the payout policy for the lifetime of the deployment.
// Example payload: "Okinoko|OKI|https://okinoko.io/oki.json|Staked Okinoko|stOKI|https://okinoko.io/stoki.json"
func (c *callContext) initialize(args *InitArgs) (string, error) {
	if c.state().Get(registryKey()) != nil {
		return "", ErrAlreadyInitialized
	}
	admin := c.sender()
	reg := &GlobalRegistry{
		Address:                 registryAddress(c.program),
		Admin:                   admin,
		GovernanceAsset:         governanceAsset(c.program),
		StakedAsset:             stakedAsset(c.program),
		PayoutMode:              c.opts.PayoutMode,
		LockProjectAfterDeposit: c.opts.LockProjectAfterDeposit,
		InitializedAt:           c.now,
	}

	if err := c.bank.CreateMint(reg.GovernanceAsset, TokenDecimals, admin); err != nil {
		return "", errors.Wrap(err, "create governance mint")
	}
	if err := c.bank.RegisterLabel(reg.GovernanceAsset, args.Governance, sdk.Signer(admin)); err != nil {
		return "", errors.Wrap(err, "label governance mint")
	}
	if err := c.bank.CreateMint(reg.StakedAsset, TokenDecimals, reg.Address); err != nil {
		return "", errors.Wrap(err, "create staked mint")
	}
	if err := c.bank.RegisterLabel(reg.StakedAsset, args.Staked, actingAuthorityFor(reg)); err != nil {
		return "", errors.Wrap(err, "label staked mint")
	}

	c.saveRegistry(reg)
	emitInitEvent(c, reg)
	return "initialized", nil
}
