package contract

import "okinoko_vault/sdk"

// capability lets the program act for one of its own derived addresses. The type
// is unexported so only code in this package can hold one.
type capability struct {
	addr sdk.Address
}

func (c capability) Address() sdk.Address { return c.addr }

// record is anything that owns a derived address (the registry, a vault).
type record interface {
	recordAddress() sdk.Address
}

// actingAuthorityFor returns the authority the ledger expects for mints and
// escrow accounts owned by rec.
func actingAuthorityFor(rec record) sdk.Authority {
	return capability{addr: rec.recordAddress()}
}
