package contract

import (
	"strconv"

	"okinoko_vault/sdk"
)

// -----------------------------------------------------------------------------
// Vault Index
// -----------------------------------------------------------------------------

// addVaultToIndex appends the id to the listing; ids are caller chosen so the
// index keeps creation order.
func (c *callContext) addVaultToIndex(id uint64) {
	idx := c.getCount(VaultsCount)
	c.state().Set(vaultIndexKey(idx), strconv.FormatUint(id, 10))
	c.setCount(VaultsCount, idx+1)
}

// listVaultIDs walks the index in creation order from offset, at most limit ids.
func listVaultIDs(st sdk.State, offset, limit uint64) []uint64 {
	total := countIn(st, VaultsCount)
	out := make([]uint64, 0)
	for i := offset; i < total && uint64(len(out)) < limit; i++ {
		ptr := st.Get(vaultIndexKey(i))
		if ptr == nil {
			continue
		}
		id, err := strconv.ParseUint(*ptr, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// -----------------------------------------------------------------------------
// Voter Index
// -----------------------------------------------------------------------------

// addVoterToIndex runs once per (vault, user), when the vote record is created.
func (c *callContext) addVoterToIndex(vaultID uint64, user sdk.Address) {
	key := voterCountKey(vaultID)
	idx := c.getCount(key)
	c.state().Set(voterIndexKey(vaultID, idx), user.String())
	c.setCount(key, idx+1)
}

// listVoters returns voters of a vault in first-vote order.
func listVoters(st sdk.State, vaultID, offset, limit uint64) []sdk.Address {
	total := countIn(st, voterCountKey(vaultID))
	out := make([]sdk.Address, 0)
	for i := offset; i < total && uint64(len(out)) < limit; i++ {
		ptr := st.Get(voterIndexKey(vaultID, i))
		if ptr == nil {
			continue
		}
		out = append(out, sdk.Address(*ptr))
	}
	return out
}

func countIn(st sdk.State, key string) uint64 {
	ptr := st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}
