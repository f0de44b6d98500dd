package contract

import (
	"github.com/pkg/errors"
)

// configureProject sets (or resets) the reward asset and the claim open time.
// Owner only. With LockProjectAfterDeposit on, neither field may change once
// the escrow holds anything.
// Example payload: "7|pda:9fQx...|1767830400"
func (c *callContext) configureProject(args *ProjectSetArgs) (string, error) {
	v, err := loadVault(c.state(), args.VaultID)
	if err != nil {
		return "", err
	}
	if c.sender() != v.Owner {
		return "", ErrNotVaultOwner
	}
	if args.ProjectAsset.IsZero() {
		return "", errors.Wrap(ErrInvalidPayload, "project asset required")
	}
	if _, err := c.bank.AssetInfo(args.ProjectAsset); err != nil {
		return "", err
	}
	changes := args.ProjectAsset != v.ProjectAsset || args.ClaimOpenTime != v.ClaimOpenTime
	if changes && !v.TotalDeposited.IsZero() {
		reg, err := c.loadRegistry()
		if err != nil {
			return "", err
		}
		if reg.LockProjectAfterDeposit {
			return "", ErrProjectLocked
		}
	}

	oldAsset, oldOpen := v.ProjectAsset, v.ClaimOpenTime
	v.ProjectAsset = args.ProjectAsset
	v.ClaimOpenTime = args.ClaimOpenTime
	c.saveVault(v)
	emitProjectSet(c, v, oldAsset, oldOpen)
	return "project set", nil
}

// deposit moves project units from the sender into the vault escrow. Anyone may
// deposit while the claim window is still closed.
// Example payload: "7|900"
func (c *callContext) deposit(args *DepositArgs) (string, error) {
	if args.Amount == 0 {
		return "", errors.Wrap(ErrInvalidAmount, "amount must be > 0")
	}
	v, err := loadVault(c.state(), args.VaultID)
	if err != nil {
		return "", err
	}
	if !v.ProjectConfigured() {
		return "", ErrProjectNotConfigured
	}
	if v.ClaimOpen(c.now) {
		return "", ErrDepositNotAllowed
	}
	newTotal, ok := v.TotalDeposited.Add(U128From64(args.Amount))
	if !ok {
		return "", ErrDepositOverflow
	}

	escrow, err := c.bank.CreateAccount(v.Address, v.ProjectAsset)
	if err != nil {
		return "", errors.Wrap(err, "open escrow")
	}
	user := c.sender()
	if err := c.bank.Transfer(v.ProjectAsset, user, v.Address, args.Amount, c.signer()); err != nil {
		return "", errors.Wrap(err, "transfer to escrow")
	}

	v.Escrow = escrow
	v.TotalDeposited = newTotal
	c.saveVault(v)
	emitDeposited(c, v.ID, user, args.Amount, v.TotalDeposited)
	return "deposited", nil
}
