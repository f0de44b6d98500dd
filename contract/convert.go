package contract

import "github.com/pkg/errors"

// convert burns governance units of the sender and mints the same number of
// staked units back to them. No cap, no time window.
// Example payload: "500"
func (c *callContext) convert(args *ConvertArgs) (string, error) {
	if args.Amount == 0 {
		return "", errors.Wrap(ErrInvalidAmount, "amount must be > 0")
	}
	reg, err := c.loadRegistry()
	if err != nil {
		return "", err
	}
	user := c.sender()
	if err := c.bank.Burn(reg.GovernanceAsset, user, args.Amount, c.signer()); err != nil {
		return "", errors.Wrap(err, "burn governance")
	}
	if err := c.bank.Mint(reg.StakedAsset, user, args.Amount, actingAuthorityFor(reg)); err != nil {
		return "", errors.Wrap(err, "mint staked")
	}
	emitConverted(c, user, args.Amount)
	return "converted " + U128From64(args.Amount).String(), nil
}
