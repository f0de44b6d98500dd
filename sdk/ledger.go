package sdk

import (
	"strings"

	"github.com/pkg/errors"
)

// Ledger errors. Callers match them with errors.Is, the ledger wraps them with context.
var (
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrAssetExists       = errors.New("asset already exists")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnauthorized      = errors.New("authority mismatch")
	ErrSupplyOverflow    = errors.New("supply overflow")
	ErrLabelExists       = errors.New("label already registered")
	ErrInvalidMetadata   = errors.New("invalid metadata")
)

// Label limits follow the usual token metadata program.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// TokenMetadata is the name/symbol/uri label attached to a mint.
type TokenMetadata struct {
	Name   string
	Symbol string
	URI    string
}

// Validate checks the label against the registry limits. The pipe is reserved
// because labels travel inside pipe-delimited payloads and storage values.
func (m TokenMetadata) Validate() error {
	switch {
	case m.Name == "" || len(m.Name) > MaxNameLength:
		return errors.Wrapf(ErrInvalidMetadata, "name must be 1-%d bytes", MaxNameLength)
	case m.Symbol == "" || len(m.Symbol) > MaxSymbolLength:
		return errors.Wrapf(ErrInvalidMetadata, "symbol must be 1-%d bytes", MaxSymbolLength)
	case len(m.URI) > MaxURILength:
		return errors.Wrapf(ErrInvalidMetadata, "uri must be at most %d bytes", MaxURILength)
	case strings.ContainsRune(m.Name+m.Symbol+m.URI, '|'):
		return errors.Wrap(ErrInvalidMetadata, "'|' is not allowed")
	}
	return nil
}

// AssetInfo is the read-only view of a mint.
type AssetInfo struct {
	Asset     Asset
	Decimals  uint8
	Supply    uint64
	Authority Address
	Label     *TokenMetadata
}

// Ledger moves units of fungible assets between owners. Accounts are addressed by
// (owner, asset); Mint and Transfer create the destination account when needed.
// Zero amounts are accepted and change nothing.
type Ledger interface {
	CreateMint(asset Asset, decimals uint8, authority Address) error
	AssetInfo(asset Asset) (AssetInfo, error)
	CreateAccount(owner Address, asset Asset) (Address, error)
	AccountAddress(owner Address, asset Asset) Address
	Balance(owner Address, asset Asset) uint64
	Mint(asset Asset, to Address, amount uint64, auth Authority) error
	Burn(asset Asset, from Address, amount uint64, auth Authority) error
	Transfer(asset Asset, from, to Address, amount uint64, auth Authority) error
}

// Metadata attaches labels to mints. Only the mint authority may register one.
type Metadata interface {
	RegisterLabel(asset Asset, meta TokenMetadata, mintAuthority Authority) error
	Label(asset Asset) (TokenMetadata, error)
}

// Bank is the combined collaborator the vault program talks to.
type Bank interface {
	Ledger
	Metadata
}
