package store

import (
	"os"
	"sort"
	"sync"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// Memory keeps the kv and the receipt journal in maps. With a filename set, every
// Apply rewrites a JSON snapshot of both so a local node survives restarts.
type Memory struct {
	mu       sync.RWMutex
	db       map[string]string
	receipts map[string]*sdk.Receipt
	filename string
}

// NewMemory builds an empty store; pass "" to skip snapshots.
func NewMemory(filename string) *Memory {
	return &Memory{
		db:       make(map[string]string),
		receipts: make(map[string]*sdk.Receipt),
		filename: filename,
	}
}

func (m *Memory) Load(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

// Apply stores writes and receipt together. When the snapshot cannot be written
// both are rolled back, so memory never runs ahead of the file.
func (m *Memory) Apply(writes []sdk.Write, receipt *sdk.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	journaled := receipt != nil && receipt.TxID != ""
	if journaled {
		if _, ok := m.receipts[receipt.TxID]; ok {
			return errors.Wrapf(sdk.ErrDuplicateReceipt, "%q", receipt.TxID)
		}
	}
	undo := m.write(writes)
	if journaled {
		m.receipts[receipt.TxID] = copyReceipt(receipt)
	}
	if m.filename == "" || (len(writes) == 0 && !journaled) {
		return nil
	}
	if err := m.saveToFile(); err != nil {
		undo()
		if journaled {
			delete(m.receipts, receipt.TxID)
		}
		return err
	}
	return nil
}

// write applies writes in order and returns the func that puts the old values back.
func (m *Memory) write(writes []sdk.Write) func() {
	type previous struct {
		key, val string
		ok       bool
	}
	old := make([]previous, 0, len(writes))
	for _, w := range writes {
		val, ok := m.db[w.Key]
		old = append(old, previous{key: w.Key, val: val, ok: ok})
		if w.Delete {
			delete(m.db, w.Key)
			continue
		}
		m.db[w.Key] = w.Value
	}
	return func() {
		for i := len(old) - 1; i >= 0; i-- {
			if old[i].ok {
				m.db[old[i].key] = old[i].val
			} else {
				delete(m.db, old[i].key)
			}
		}
	}
}

func copyReceipt(r *sdk.Receipt) *sdk.Receipt {
	cp := *r
	cp.Logs = append([]string(nil), r.Logs...)
	return &cp
}

func (m *Memory) Receipt(txID string) (*sdk.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.receipts[txID]
	if !ok {
		return nil, nil
	}
	return copyReceipt(r), nil
}

// Len is the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// saveToFile writes state and receipts to the JSON snapshot. Caller holds the lock.
func (m *Memory) saveToFile() error {
	data, err := tinyjson.Marshal(&snapshot{state: m.db, receipts: m.receipts})
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	tmp := m.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	return errors.Wrap(os.Rename(tmp, m.filename), "replace snapshot")
}

// LoadFromFile loads state and receipts from the JSON snapshot. A missing file is not an error.
func (m *Memory) LoadFromFile() error {
	if m.filename == "" {
		return nil
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read snapshot")
	}
	snap := snapshot{}
	if err := tinyjson.Unmarshal(data, &snap); err != nil {
		return errors.Wrapf(err, "decode snapshot %s", m.filename)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db = snap.state
	m.receipts = snap.receipts
	return nil
}

// snapshot is {"state":{key:value},"receipts":{tx_id:receipt}}. State keys and
// values are binary, so both sides go through base58.
type snapshot struct {
	state    map[string]string
	receipts map[string]*sdk.Receipt
}

func (s *snapshot) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"state":{`)
	for i, k := range sortedKeys(s.state) {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(base58.Encode([]byte(k)))
		w.RawByte(':')
		w.String(base58.Encode([]byte(s.state[k])))
	}
	w.RawString(`},"receipts":{`)
	for i, id := range sortedKeys(s.receipts) {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(id)
		w.RawByte(':')
		writeReceipt(w, s.receipts[id])
	}
	w.RawString(`}}`)
}

func (s *snapshot) UnmarshalTinyJSON(in *jlexer.Lexer) {
	s.state = map[string]string{}
	s.receipts = map[string]*sdk.Receipt{}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "state":
			in.Delim('{')
			for !in.IsDelim('}') {
				k := decodeB58(in, in.String())
				in.WantColon()
				s.state[k] = decodeB58(in, in.String())
				in.WantComma()
			}
			in.Delim('}')
		case "receipts":
			in.Delim('{')
			for !in.IsDelim('}') {
				id := in.String()
				in.WantColon()
				r := readReceipt(in)
				r.TxID = id
				s.receipts[id] = r
				in.WantComma()
			}
			in.Delim('}')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func writeReceipt(w *jwriter.Writer, r *sdk.Receipt) {
	w.RawString(`{"action":`)
	w.String(r.Action)
	w.RawString(`,"sender":`)
	w.String(r.Sender.String())
	w.RawString(`,"payload":`)
	w.String(r.Payload)
	w.RawString(`,"timestamp":`)
	w.Int64(r.Timestamp)
	w.RawString(`,"success":`)
	w.Bool(r.Success)
	w.RawString(`,"ret":`)
	w.String(r.Ret)
	w.RawString(`,"code":`)
	w.String(r.Code)
	w.RawString(`,"error":`)
	w.String(r.Err)
	w.RawString(`,"logs":[`)
	for i, l := range r.Logs {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(l)
	}
	w.RawString(`]}`)
}

func readReceipt(in *jlexer.Lexer) *sdk.Receipt {
	r := &sdk.Receipt{}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "action":
			r.Action = in.String()
		case "sender":
			r.Sender = sdk.Address(in.String())
		case "payload":
			r.Payload = in.String()
		case "timestamp":
			r.Timestamp = in.Int64()
		case "success":
			r.Success = in.Bool()
		case "ret":
			r.Ret = in.String()
		case "code":
			r.Code = in.String()
		case "error":
			r.Err = in.String()
		case "logs":
			in.Delim('[')
			for !in.IsDelim(']') {
				r.Logs = append(r.Logs, in.String())
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	return r
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeB58(in *jlexer.Lexer, s string) string {
	if s == "" {
		return ""
	}
	b, err := base58.Decode(s)
	if err != nil {
		in.AddError(err)
		return ""
	}
	return string(b)
}
