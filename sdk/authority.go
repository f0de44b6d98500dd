package sdk

// Authority is whatever the ledger accepts as permission to move or mint units.
// The ledger only compares Address() against the account owner or the mint authority.
type Authority interface {
	Address() Address
}

type signer struct {
	addr Address
}

func (s signer) Address() Address { return s.addr }

// Signer wraps the transaction sender as an authority.
// Example payload: sdk.Signer(env.Sender.Address)
func Signer(addr Address) Authority {
	return signer{addr: addr}
}
