package contract

import (
	"strconv"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// Envelope is a signed-off transaction as it arrives over HTTP or from a replay
// file. Authentication happens before it reaches Execute, Sender is trusted.
type Envelope struct {
	TxID        string
	Sender      sdk.Address
	Timestamp   string
	BlockHeight uint64
	Action      string
	Payload     string
}

// DecodeEnvelope parses one JSON envelope. timestamp may be a string or a number.
// Example payload: {"tx_id":"t1","sender":"hive:alice","timestamp":"2025-09-03T00:00:00","action":"vote","payload":"7|100"}
func DecodeEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := tinyjson.Unmarshal(data, env); err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, "envelope: "+err.Error())
	}
	if env.Action == "" {
		return nil, errors.Wrap(ErrInvalidPayload, "envelope without action")
	}
	return env, nil
}

func (e *Envelope) UnmarshalTinyJSON(in *jlexer.Lexer) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "tx_id":
			e.TxID = in.String()
		case "sender":
			e.Sender = sdk.Address(in.String())
		case "timestamp":
			e.Timestamp = rawScalar(in.Raw())
		case "block_height":
			e.BlockHeight = in.Uint64()
		case "action":
			e.Action = in.String()
		case "payload":
			e.Payload = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func (e Envelope) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"tx_id":`)
	w.String(e.TxID)
	w.RawString(`,"sender":`)
	w.String(e.Sender.String())
	w.RawString(`,"timestamp":`)
	w.String(e.Timestamp)
	if e.BlockHeight != 0 {
		w.RawString(`,"block_height":`)
		w.Uint64(e.BlockHeight)
	}
	w.RawString(`,"action":`)
	w.String(e.Action)
	w.RawString(`,"payload":`)
	w.String(e.Payload)
	w.RawByte('}')
}

// rawScalar turns a raw JSON string or number into its text.
func rawScalar(raw []byte) string {
	s := string(raw)
	if len(s) >= 2 && s[0] == '"' {
		if unq, err := strconv.Unquote(s); err == nil {
			return unq
		}
	}
	return s
}
