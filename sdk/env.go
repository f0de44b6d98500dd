package sdk

import (
	"strconv"
	"time"
)

type Sender struct {
	Address       Address   `json:"id"`
	RequiredAuths []Address `json:"required_auths"`
}

// Env is the per-transaction snapshot a call runs against. Timestamp is the raw
// envelope value, the time a call runs at is decided by the runtime.
type Env struct {
	ContractId  string
	TxId        string
	BlockHeight uint64
	Timestamp   string
	Sender      Sender
}

// ParseTimestamp accepts unix seconds or iso-ish strings since clients flip formats sometimes.
// Example payload: sdk.ParseTimestamp("2025-09-03T00:00:00")
func ParseTimestamp(val string) (int64, bool) {
	if v, err := strconv.ParseInt(val, 10, 64); err == nil {
		return v, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.Unix(), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", val, time.UTC); err == nil {
		return t.Unix(), true
	}
	return 0, false
}
