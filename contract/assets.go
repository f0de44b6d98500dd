package contract

import (
	"github.com/pkg/errors"
)

// createAsset opens a plain mint with the sender as authority, used by project
// teams for their reward asset. The id is derived from (sender, symbol).
// Example payload: "Project Reward|RWD|https://project.io/rwd.json|6"
func (c *callContext) createAsset(args *AssetCreateArgs) (string, error) {
	if err := args.Label.Validate(); err != nil {
		return "", err
	}
	creator := c.sender()
	asset := CreatedAssetID(c.program, creator, args.Label.Symbol)
	if err := c.bank.CreateMint(asset, args.Decimals, creator); err != nil {
		return "", err
	}
	if err := c.bank.RegisterLabel(asset, args.Label, c.signer()); err != nil {
		return "", errors.Wrap(err, "label asset")
	}
	emitAssetCreated(c, asset, creator, args.Label.Symbol)
	return asset.String(), nil
}

// mintAsset mints units of any mint whose authority is the sender. The admin
// seeds governance balances this way.
// Example payload: "pda:9fQx...|hive:alice|1000"
func (c *callContext) mintAsset(args *AssetMintArgs) (string, error) {
	if args.Amount == 0 {
		return "", errors.Wrap(ErrInvalidAmount, "amount must be > 0")
	}
	if err := c.bank.Mint(args.Asset, args.To, args.Amount, c.signer()); err != nil {
		return "", err
	}
	emitAssetMinted(c, args.Asset, args.To, args.Amount)
	return "minted", nil
}
