package contract

import (
	"bytes"
	"encoding/binary"
	"errors"

	"okinoko_vault/sdk"
)

// record layout version, bumped when fields are appended
const codecVersion byte = 1

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

// bytes returns the accumulated buffer, tiny helper but keeps code tidy.
func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

// writeBool squashes bools into a single byte flag for deterministic payloads.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeInt64 reuses the uint routine since casting keeps the sign bits intact.
func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeU128 stores hi then lo, big endian, 16 bytes flat.
func (w *binWriter) writeU128(v U128) {
	w.writeUint64(v.Hi())
	w.writeUint64(v.Lo())
}

// writeString prefixes its length then dumps UTF-8 directly.
func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

func (w *binWriter) writeAsset(a sdk.Asset) {
	w.writeString(a.String())
}

type binReader struct {
	data []byte
	pos  int
}

// newReader wraps raw bytes so we can peek sequentially w/out copying.
func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

var errEOF = errors.New("unexpected EOF")

// readByte grabs the next byte and bumps the cursor.
func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// readBool restores bools stored via writeBool above.
func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// readUint64 decodes big endian integers for ids and totals.
func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

// readInt64 simply casts the unsigned read, matching the writer logic.
func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// readVarUint undoes the compact varint encoding for lengths/counts.
func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readU128() (U128, error) {
	hi, err := r.readUint64()
	if err != nil {
		return U128{}, err
	}
	lo, err := r.readUint64()
	if err != nil {
		return U128{}, err
	}
	return U128FromParts(hi, lo), nil
}

// readString reads the varint length then slices out the utf8 chunk.
func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

func (r *binReader) readAsset() (sdk.Asset, error) {
	s, err := r.readString()
	return sdk.Asset(s), err
}

// readVersion checks the leading layout byte.
func (r *binReader) readVersion(what string) error {
	v, err := r.readByte()
	if err != nil {
		return err
	}
	if v != codecVersion {
		return errors.New(what + ": unsupported record version")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// EncodeRegistry packs the singleton, field order is the storage layout.
func EncodeRegistry(reg *GlobalRegistry) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeAddress(reg.Address)
	w.writeAddress(reg.Admin)
	w.writeAsset(reg.GovernanceAsset)
	w.writeAsset(reg.StakedAsset)
	w.buf.WriteByte(byte(reg.PayoutMode))
	w.writeBool(reg.LockProjectAfterDeposit)
	w.writeInt64(reg.InitializedAt)
	return w.bytes()
}

func DecodeRegistry(data []byte) (*GlobalRegistry, error) {
	r := newReader(data)
	if err := r.readVersion("registry"); err != nil {
		return nil, err
	}
	reg := &GlobalRegistry{}
	var err error
	if reg.Address, err = r.readAddress(); err != nil {
		return nil, err
	}
	if reg.Admin, err = r.readAddress(); err != nil {
		return nil, err
	}
	if reg.GovernanceAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	if reg.StakedAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	mode, err := r.readByte()
	if err != nil {
		return nil, err
	}
	reg.PayoutMode = PayoutMode(mode)
	if reg.LockProjectAfterDeposit, err = r.readBool(); err != nil {
		return nil, err
	}
	if reg.InitializedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return reg, nil
}

// -----------------------------------------------------------------------------
// Vault
// -----------------------------------------------------------------------------

// EncodeVault writes identity first, then time gates, then the counters.
func EncodeVault(v *Vault) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeUint64(v.ID)
	w.writeAddress(v.Address)
	w.writeAddress(v.Owner)
	w.writeAsset(v.GovernanceAsset)
	w.writeAsset(v.StakedAsset)
	w.writeAsset(v.VoteAsset)
	w.writeAsset(v.ProjectAsset)
	w.writeAddress(v.Escrow)
	w.writeInt64(v.ClaimOpenTime)
	w.writeInt64(v.Deadline)
	w.writeInt64(v.CreatedAt)
	w.writeU128(v.MaxVoteCap)
	w.writeU128(v.TotalBurned)
	w.writeU128(v.TotalDeposited)
	w.writeU128(v.ClaimedVotes)
	w.writeU128(v.TotalClaimed)
	return w.bytes()
}

func DecodeVault(data []byte) (*Vault, error) {
	r := newReader(data)
	if err := r.readVersion("vault"); err != nil {
		return nil, err
	}
	v := &Vault{}
	var err error
	if v.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if v.Address, err = r.readAddress(); err != nil {
		return nil, err
	}
	if v.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if v.GovernanceAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	if v.StakedAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	if v.VoteAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	if v.ProjectAsset, err = r.readAsset(); err != nil {
		return nil, err
	}
	if v.Escrow, err = r.readAddress(); err != nil {
		return nil, err
	}
	if v.ClaimOpenTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if v.Deadline, err = r.readInt64(); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	for _, dst := range []*U128{&v.MaxVoteCap, &v.TotalBurned, &v.TotalDeposited, &v.ClaimedVotes, &v.TotalClaimed} {
		if *dst, err = r.readU128(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// UserVault
// -----------------------------------------------------------------------------

func EncodeUserVault(uv *UserVault) []byte {
	w := newWriter()
	w.buf.WriteByte(codecVersion)
	w.writeAddress(uv.User)
	w.writeAddress(uv.Vault)
	w.writeU128(uv.BurnedAmount)
	w.writeU128(uv.Claimed)
	return w.bytes()
}

func DecodeUserVault(data []byte) (*UserVault, error) {
	r := newReader(data)
	if err := r.readVersion("user vault"); err != nil {
		return nil, err
	}
	uv := &UserVault{}
	var err error
	if uv.User, err = r.readAddress(); err != nil {
		return nil, err
	}
	if uv.Vault, err = r.readAddress(); err != nil {
		return nil, err
	}
	if uv.BurnedAmount, err = r.readU128(); err != nil {
		return nil, err
	}
	if uv.Claimed, err = r.readU128(); err != nil {
		return nil, err
	}
	return uv, nil
}
