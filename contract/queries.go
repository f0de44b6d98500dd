package contract

import (
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// Queries read committed state through a throwaway overlay that is never committed.

func (c *Contract) view() (*sdk.Tx, sdk.Bank) {
	tx := sdk.NewTx(c.backend)
	return tx, c.opts.Bank(tx, c.opts.Program)
}

// Registry returns ErrNotInitialized before init.
func (c *Contract) Registry() (*GlobalRegistry, error) {
	tx, _ := c.view()
	cc := &callContext{tx: tx}
	reg, err := cc.loadRegistry()
	if err != nil {
		return nil, err
	}
	return reg, tx.Err()
}

func (c *Contract) Vault(id uint64) (*Vault, error) {
	tx, _ := c.view()
	v, err := loadVault(tx, id)
	if err != nil {
		return nil, err
	}
	return v, tx.Err()
}

// Vaults lists vaults in creation order.
func (c *Contract) Vaults(offset, limit uint64) ([]*Vault, error) {
	tx, _ := c.view()
	ids := listVaultIDs(tx, offset, limit)
	out := make([]*Vault, 0, len(ids))
	for _, id := range ids {
		v, err := loadVault(tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, tx.Err()
}

// VoteRecord returns ErrNoVoteRecord when user never voted in the vault.
func (c *Contract) VoteRecord(vaultID uint64, user sdk.Address) (*UserVault, error) {
	tx, _ := c.view()
	uv, err := loadUserVault(tx, vaultID, user)
	if err != nil {
		return nil, err
	}
	if uv == nil {
		return nil, errors.Wrapf(ErrNoVoteRecord, "vault %d user %s", vaultID, user)
	}
	return uv, tx.Err()
}

// Voters returns the vote records of a vault in first-vote order.
func (c *Contract) Voters(vaultID, offset, limit uint64) ([]*UserVault, error) {
	tx, _ := c.view()
	if _, err := loadVault(tx, vaultID); err != nil {
		return nil, err
	}
	users := listVoters(tx, vaultID, offset, limit)
	out := make([]*UserVault, 0, len(users))
	for _, u := range users {
		uv, err := loadUserVault(tx, vaultID, u)
		if err != nil {
			return nil, err
		}
		if uv != nil {
			out = append(out, uv)
		}
	}
	return out, tx.Err()
}

func (c *Contract) Balance(owner sdk.Address, asset sdk.Asset) (uint64, error) {
	tx, bank := c.view()
	bal := bank.Balance(owner, asset)
	return bal, tx.Err()
}

func (c *Contract) Asset(asset sdk.Asset) (sdk.AssetInfo, error) {
	tx, bank := c.view()
	info, err := bank.AssetInfo(asset)
	if err != nil {
		return sdk.AssetInfo{}, err
	}
	return info, tx.Err()
}

// Receipt returns nil, nil for unknown tx ids.
func (c *Contract) Receipt(txID string) (*sdk.Receipt, error) {
	return c.backend.Receipt(txID)
}

// ClaimPreview is what claim would pay user right now, computed from committed state.
func (c *Contract) ClaimPreview(vaultID uint64, user sdk.Address) (U128, error) {
	reg, err := c.Registry()
	if err != nil {
		return U128{}, err
	}
	v, err := c.Vault(vaultID)
	if err != nil {
		return U128{}, err
	}
	uv, err := c.VoteRecord(vaultID, user)
	if err != nil {
		return U128{}, err
	}
	return payoutFor(reg.PayoutMode, v, uv.BurnedAmount), nil
}

// VaultAudit sums the vote records of a vault next to the vault totals.
// OpenVotes is the sum of BurnedAmount (votes not claimed yet) and PaidOut the
// sum of Claimed over the records.
type VaultAudit struct {
	VaultID      uint64
	Voters       uint64
	OpenVotes    U128
	ClaimedVotes U128
	TotalBurned  U128
	PaidOut      U128
	TotalClaimed U128
}

// Balanced holds when open and claimed votes add up to TotalBurned and the
// records account for every unit paid out.
func (a *VaultAudit) Balanced() bool {
	votes, ok := a.OpenVotes.Add(a.ClaimedVotes)
	return ok && votes == a.TotalBurned && a.PaidOut == a.TotalClaimed
}

// Audit walks every vote record of a vault. Records are read from one overlay,
// concurrent commits may land between reads on a live node.
func (c *Contract) Audit(vaultID uint64) (*VaultAudit, error) {
	tx, _ := c.view()
	v, err := loadVault(tx, vaultID)
	if err != nil {
		return nil, err
	}
	a := &VaultAudit{
		VaultID:      v.ID,
		ClaimedVotes: v.ClaimedVotes,
		TotalBurned:  v.TotalBurned,
		TotalClaimed: v.TotalClaimed,
	}
	count := countIn(tx, voterCountKey(vaultID))
	for _, user := range listVoters(tx, vaultID, 0, count) {
		uv, err := loadUserVault(tx, vaultID, user)
		if err != nil {
			return nil, err
		}
		if uv == nil {
			return nil, errors.Errorf("vault %d indexes %s without a vote record", vaultID, user)
		}
		a.Voters++
		var ok bool
		if a.OpenVotes, ok = a.OpenVotes.Add(uv.BurnedAmount); !ok {
			return nil, errors.Wrapf(ErrVoteOverflow, "vault %d open votes", vaultID)
		}
		if a.PaidOut, ok = a.PaidOut.Add(uv.Claimed); !ok {
			return nil, errors.Errorf("vault %d paid out sum overflows", vaultID)
		}
	}
	return a, tx.Err()
}
