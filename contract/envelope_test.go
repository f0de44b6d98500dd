package contract

import (
	"testing"

	"github.com/CosmWasm/tinyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/sdk"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"tx_id":"t1","sender":"hive:alice","timestamp":"2025-09-03T00:00:00","block_height":12,"action":"vote","payload":"7|100","extra":{"x":[1,2]}}`))
	require.NoError(t, err)
	assert.Equal(t, "t1", env.TxID)
	assert.Equal(t, sdk.Address("hive:alice"), env.Sender)
	assert.Equal(t, "2025-09-03T00:00:00", env.Timestamp)
	assert.Equal(t, uint64(12), env.BlockHeight)
	assert.Equal(t, ActionVote, env.Action)
	assert.Equal(t, "7|100", env.Payload)
}

func TestDecodeEnvelopeNumericTimestamp(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"sender":"hive:alice","timestamp":1756857600,"action":"claim","payload":"7","tx_id":null}`))
	require.NoError(t, err)
	assert.Equal(t, "1756857600", env.Timestamp)
	assert.Empty(t, env.TxID)
}

func TestDecodeEnvelopeRejects(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"sender":"hive:alice"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = DecodeEnvelope([]byte(`{"action":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEnvelopeMarshalRoundTrip(t *testing.T) {
	in := Envelope{TxID: "t2", Sender: "hive:bob", Timestamp: "1756857600", Action: ActionClaim, Payload: "3"}
	data, err := tinyjson.Marshal(in)
	require.NoError(t, err)
	out, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}
