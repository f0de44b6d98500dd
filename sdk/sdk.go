package sdk

import (
	"sort"

	"github.com/pkg/errors"
)

// State is the string kv every program component reads and writes through.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Write is one buffered mutation. Delete wins over Value.
type Write struct {
	Key    string
	Value  string
	Delete bool
}

// Receipt is the outcome of one executed transaction, persisted with its writes.
type Receipt struct {
	TxID      string
	Action    string
	Sender    Address
	Payload   string
	Timestamp int64
	Success   bool
	Ret       string
	Code      string
	Err       string
	Logs      []string
}

// ErrDuplicateReceipt is returned by Apply when a receipt with the same tx id is
// already stored. Nothing of that Apply is kept.
var ErrDuplicateReceipt = errors.New("receipt already stored")

// Backend is the durable side of State. Apply must store writes and receipt
// all-or-nothing.
type Backend interface {
	Load(key string) (*string, error)
	Apply(writes []Write, receipt *Receipt) error
	Receipt(txID string) (*Receipt, error)
}

// Tx buffers reads and writes of a single transaction on top of a Backend.
// Nothing reaches the backend until Commit, so dropping a Tx discards the call.
type Tx struct {
	backend Backend
	reads   map[string]*string
	writes  map[string]*string
	logs    []string
	err     error
}

// NewTx opens an overlay on the backend.
// Example payload: tx := sdk.NewTx(store.NewMemory(""))
func NewTx(b Backend) *Tx {
	return &Tx{
		backend: b,
		reads:   map[string]*string{},
		writes:  map[string]*string{},
	}
}

// Get reads own writes first, then the backend (cached for the rest of the tx).
// A backend failure is remembered and surfaces through Err and Commit.
func (t *Tx) Get(key string) *string {
	if v, ok := t.writes[key]; ok {
		return copyPtr(v)
	}
	if v, ok := t.reads[key]; ok {
		return copyPtr(v)
	}
	v, err := t.backend.Load(key)
	if err != nil {
		if t.err == nil {
			t.err = err
		}
		return nil
	}
	t.reads[key] = v
	return copyPtr(v)
}

func (t *Tx) Set(key, value string) {
	t.writes[key] = &value
}

func (t *Tx) Delete(key string) {
	t.writes[key] = nil
}

// Log appends an event line to the tx. Lines are kept even when the tx fails
// so the receipt can show how far it got.
// Example payload: tx.Log("v|id:1|by:hive:alice|am:100")
func (t *Tx) Log(line string) {
	t.logs = append(t.logs, line)
}

func (t *Tx) Logs() []string {
	return append([]string(nil), t.logs...)
}

// Err returns the first backend read failure seen by this tx.
func (t *Tx) Err() error {
	return t.err
}

// Writes lists buffered mutations sorted by key so every backend applies them
// in the same order.
func (t *Tx) Writes() []Write {
	keys := make([]string, 0, len(t.writes))
	for k := range t.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Write, 0, len(keys))
	for _, k := range keys {
		v := t.writes[k]
		if v == nil {
			out = append(out, Write{Key: k, Delete: true})
			continue
		}
		out = append(out, Write{Key: k, Value: *v})
	}
	return out
}

// Commit pushes the writes and the receipt to the backend in one Apply.
func (t *Tx) Commit(receipt *Receipt) error {
	if t.err != nil {
		return t.err
	}
	return t.backend.Apply(t.Writes(), receipt)
}

func copyPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
