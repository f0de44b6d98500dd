package sdk

import (
	"encoding/binary"
	"strings"

	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"
)

type AddressDomain string

const (
	AddressDomainUser    AddressDomain = "user"
	AddressDomainDerived AddressDomain = "derived"
	AddressDomainSystem  AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM     AddressType = "evm"
	AddressTypeKey     AddressType = "key"
	AddressTypeHive    AddressType = "hive"
	AddressTypeDerived AddressType = "derived"
	AddressTypeSystem  AddressType = "system"
	AddressTypeUnknown AddressType = "unknown"
)

// DerivedPrefix marks addresses computed from seeds. Nobody holds a key for them.
const DerivedPrefix = "pda:"

type Address string

// String returns the literal representation (like hive:alice) of the address.
// Example payload: sdk.Address("hive:foo").String()
func (a Address) String() string {
	return string(a)
}

// IsZero reports an unset address.
func (a Address) IsZero() bool {
	return a == ""
}

// Domain quickly checks the prefix to guess if we deal with user/derived/system domain.
// Example payload: sdk.Address("pda:4vJ9...").Domain()
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), DerivedPrefix) {
		return AddressDomainDerived
	}
	return AddressDomainUser
}

// Type inspects the DID prefix to categorize the address (evm, key, hive,...).
// Example payload: sdk.Address("did:pkh:eip155").Type()
func (a Address) Type() AddressType {
	switch {
	case strings.HasPrefix(a.String(), "did:pkh:eip155"):
		return AddressTypeEVM
	case strings.HasPrefix(a.String(), "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(a.String(), "hive:"):
		return AddressTypeHive
	case strings.HasPrefix(a.String(), DerivedPrefix):
		return AddressTypeDerived
	case strings.HasPrefix(a.String(), "system:"):
		return AddressTypeSystem
	default:
		return AddressTypeUnknown
	}
}

// IsValid returns false if the address type detection failed, used as a light sanity check.
// Example payload: sdk.Address("foo").IsValid()
func (a Address) IsValid() bool {
	return a.Type() != AddressTypeUnknown
}

// DeriveAddress hashes program, tag and seed parts into a stable off-curve style address.
// Every part is length prefixed so ("ab","c") and ("a","bc") never collide.
// Example payload: sdk.DeriveAddress("okinoko_vault", "vault", le64(7))
func DeriveAddress(program, tag string, parts ...[]byte) Address {
	h := blake3.New(32, nil)
	writePart(h, []byte(program))
	writePart(h, []byte(tag))
	for _, p := range parts {
		writePart(h, p)
	}
	return Address(DerivedPrefix + base58.Encode(h.Sum(nil)))
}

func writePart(h *blake3.Hasher, p []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(p)))
	h.Write(tmp[:n])
	h.Write(p)
}
