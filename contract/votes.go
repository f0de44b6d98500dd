package contract

import (
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// -----------------------------------------------------------------------------
// Vote Records
// -----------------------------------------------------------------------------

// loadUserVault returns nil, nil when the user never voted in the vault.
func loadUserVault(st sdk.State, vaultID uint64, user sdk.Address) (*UserVault, error) {
	ptr := st.Get(userVaultKey(vaultID, user))
	if ptr == nil {
		return nil, nil
	}
	uv, err := DecodeUserVault([]byte(*ptr))
	if err != nil {
		return nil, errors.Wrapf(err, "decode vote record %d/%s", vaultID, user)
	}
	return uv, nil
}

func (c *callContext) saveUserVault(vaultID uint64, uv *UserVault) {
	c.state().Set(userVaultKey(vaultID, uv.User), string(EncodeUserVault(uv)))
}

// -----------------------------------------------------------------------------
// Voting
// -----------------------------------------------------------------------------

// vote burns staked units of the sender and mints the same number of vote units.
// All checks run before the first ledger call, and the whole call is one tx.
// Example payload: "7|100"
func (c *callContext) vote(args *VoteArgs) (string, error) {
	if args.Amount == 0 {
		return "", errors.Wrap(ErrInvalidAmount, "amount must be > 0")
	}
	v, err := loadVault(c.state(), args.VaultID)
	if err != nil {
		return "", err
	}
	if !v.VotingOpen(c.now) {
		return "", ErrVotingEnded
	}
	amount := U128From64(args.Amount)
	newTotal, ok := v.TotalBurned.Add(amount)
	if !ok {
		return "", ErrVoteOverflow
	}
	if v.MaxVoteCap.Less(newTotal) {
		return "", ErrMaxVoteCapExceeded
	}

	user := c.sender()
	uv, err := loadUserVault(c.state(), v.ID, user)
	if err != nil {
		return "", err
	}
	fresh := uv == nil
	if fresh {
		uv = &UserVault{User: user, Vault: v.Address}
	}
	burned, ok := uv.BurnedAmount.Add(amount)
	if !ok {
		return "", ErrVoteOverflow
	}

	if err := c.bank.Burn(v.StakedAsset, user, args.Amount, c.signer()); err != nil {
		return "", errors.Wrap(err, "burn staked")
	}
	if err := c.bank.Mint(v.VoteAsset, user, args.Amount, actingAuthorityFor(v)); err != nil {
		return "", errors.Wrap(err, "mint vote")
	}

	uv.BurnedAmount = burned
	c.saveUserVault(v.ID, uv)
	if fresh {
		c.addVoterToIndex(v.ID, user)
	}
	v.TotalBurned = newTotal
	c.saveVault(v)

	emitVoteCasted(c, v.ID, user, args.Amount, v.TotalBurned)
	return "voted", nil
}
