package contract

import (
	"strconv"

	"okinoko_vault/sdk"
)

// callContext is everything one transaction sees: its env snapshot, the overlay
// state and the bank bound to that same overlay. The registry is memoized per call.
type callContext struct {
	program string
	opts    Options
	env     sdk.Env
	now     int64
	tx      *sdk.Tx
	bank    sdk.Bank

	registry *GlobalRegistry
}

func (c *callContext) state() sdk.State { return c.tx }

// sender returns the address of the current transaction sender.
func (c *callContext) sender() sdk.Address {
	return c.env.Sender.Address
}

// signer is the sender's own authority, the only one a caller can bring.
func (c *callContext) signer() sdk.Authority {
	return sdk.Signer(c.sender())
}

func (c *callContext) log(line string) {
	c.tx.Log(line)
}

// -----------------------------------------------------------------------------
// Counter Operations
// -----------------------------------------------------------------------------

// getCount reads the string counter under the key and defaults to zero, nothing magical here.
func (c *callContext) getCount(key string) uint64 {
	return countIn(c.state(), key)
}

// setCount stores uint64 counters back as decimal strings for the kv.
func (c *callContext) setCount(key string, n uint64) {
	c.state().Set(key, strconv.FormatUint(n, 10))
}
