package contract

import (
	"github.com/pkg/errors"
)

// claim pays the sender's share of the escrow and burns their vote units. The
// record is zeroed, vault totals stay as they are, so a second claim pays 0.
// Example payload: "7"
func (c *callContext) claim(args *ClaimArgs) (string, error) {
	v, err := loadVault(c.state(), args.VaultID)
	if err != nil {
		return "", err
	}
	if !v.ClaimOpen(c.now) {
		return "", ErrClaimNotAvailable
	}
	user := c.sender()
	uv, err := loadUserVault(c.state(), v.ID, user)
	if err != nil {
		return "", err
	}
	if uv == nil {
		return "", ErrNoVoteRecord
	}
	reg, err := c.loadRegistry()
	if err != nil {
		return "", err
	}

	burned := uv.BurnedAmount
	payout := payoutFor(reg.PayoutMode, v, burned)
	amount := payout.Uint64Sat()
	burnAmount := burned.Uint64Sat()

	if v.ProjectConfigured() {
		// the claimant always ends up with a project account, even for a zero payout
		if _, err := c.bank.CreateAccount(user, v.ProjectAsset); err != nil {
			return "", errors.Wrap(err, "open claimant account")
		}
	}
	if amount > 0 {
		if err := c.bank.Transfer(v.ProjectAsset, v.Address, user, amount, actingAuthorityFor(v)); err != nil {
			return "", errors.Wrap(err, "pay from escrow")
		}
	}
	if err := c.bank.Burn(v.VoteAsset, user, burnAmount, c.signer()); err != nil {
		return "", errors.Wrap(err, "burn vote")
	}

	if !burned.IsZero() {
		if claimedVotes, ok := v.ClaimedVotes.Add(burned); ok {
			v.ClaimedVotes = claimedVotes
		} else {
			v.ClaimedVotes = MaxU128
		}
		if totalClaimed, ok := v.TotalClaimed.Add(U128From64(amount)); ok {
			v.TotalClaimed = totalClaimed
		}
		c.saveVault(v)
	}
	uv.BurnedAmount = U128{}
	if claimed, ok := uv.Claimed.Add(U128From64(amount)); ok {
		uv.Claimed = claimed
	}
	c.saveUserVault(v.ID, uv)

	emitClaimed(c, v.ID, user, amount, burnAmount)
	return "claimed " + U128From64(amount).String(), nil
}
