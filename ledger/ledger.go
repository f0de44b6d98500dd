// Package ledger is the in-state asset ledger: mints, owner accounts and labels
// stored in the same kv the vault program writes, so a failed call rolls both back.
package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

const (
	// kMint stores decimals|supply|authority per asset.
	kMint byte = 0x40
	// kAccount stores owner|asset|balance per derived account address.
	kAccount byte = 0x41
	// kLabel stores name|symbol|uri per asset.
	kLabel byte = 0x42
)

// Ledger implements sdk.Bank over a State.
type Ledger struct {
	state   sdk.State
	program string
}

var _ sdk.Bank = (*Ledger)(nil)

// New binds a ledger to the state of the running transaction.
func New(state sdk.State, program string) *Ledger {
	return &Ledger{state: state, program: program}
}

type mintRecord struct {
	decimals  uint8
	supply    uint64
	authority sdk.Address
}

type accountRecord struct {
	owner   sdk.Address
	asset   sdk.Asset
	balance uint64
}

func mintKey(asset sdk.Asset) string {
	return string(kMint) + asset.String()
}

func accountKey(addr sdk.Address) string {
	return string(kAccount) + addr.String()
}

func labelKey(asset sdk.Asset) string {
	return string(kLabel) + asset.String()
}

// AccountAddress derives the (owner, asset) account address.
// Example payload: l.AccountAddress("hive:alice", govAsset)
func (l *Ledger) AccountAddress(owner sdk.Address, asset sdk.Asset) sdk.Address {
	return sdk.DeriveAddress(l.program, "account", []byte(owner), []byte(asset))
}

// -----------------------------------------------------------------------------
// Mints
// -----------------------------------------------------------------------------

func (l *Ledger) CreateMint(asset sdk.Asset, decimals uint8, authority sdk.Address) error {
	if asset.IsZero() || authority.IsZero() {
		return errors.New("mint needs an asset id and an authority")
	}
	if l.state.Get(mintKey(asset)) != nil {
		return errors.Wrapf(sdk.ErrAssetExists, "asset %s", asset)
	}
	l.saveMint(asset, &mintRecord{decimals: decimals, authority: authority})
	return nil
}

func (l *Ledger) loadMint(asset sdk.Asset) (*mintRecord, error) {
	ptr := l.state.Get(mintKey(asset))
	if ptr == nil {
		return nil, errors.Wrapf(sdk.ErrUnknownAsset, "asset %s", asset)
	}
	parts := strings.SplitN(*ptr, "|", 3)
	if len(parts) != 3 {
		return nil, errors.Errorf("corrupt mint record for %s", asset)
	}
	dec, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return nil, errors.Wrapf(err, "mint decimals for %s", asset)
	}
	supply, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mint supply for %s", asset)
	}
	return &mintRecord{decimals: uint8(dec), supply: supply, authority: sdk.Address(parts[2])}, nil
}

func (l *Ledger) saveMint(asset sdk.Asset, m *mintRecord) {
	l.state.Set(mintKey(asset), strconv.FormatUint(uint64(m.decimals), 10)+"|"+
		strconv.FormatUint(m.supply, 10)+"|"+m.authority.String())
}

func (l *Ledger) AssetInfo(asset sdk.Asset) (sdk.AssetInfo, error) {
	m, err := l.loadMint(asset)
	if err != nil {
		return sdk.AssetInfo{}, err
	}
	info := sdk.AssetInfo{Asset: asset, Decimals: m.decimals, Supply: m.supply, Authority: m.authority}
	if label, err := l.Label(asset); err == nil {
		info.Label = &label
	}
	return info, nil
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

func (l *Ledger) loadAccount(owner sdk.Address, asset sdk.Asset) (*accountRecord, bool, error) {
	addr := l.AccountAddress(owner, asset)
	ptr := l.state.Get(accountKey(addr))
	if ptr == nil {
		return &accountRecord{owner: owner, asset: asset}, false, nil
	}
	parts := strings.SplitN(*ptr, "|", 3)
	if len(parts) != 3 {
		return nil, false, errors.Errorf("corrupt account %s", addr)
	}
	bal, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return nil, false, errors.Wrapf(err, "account balance %s", addr)
	}
	return &accountRecord{owner: sdk.Address(parts[0]), asset: sdk.Asset(parts[1]), balance: bal}, true, nil
}

func (l *Ledger) saveAccount(a *accountRecord) {
	addr := l.AccountAddress(a.owner, a.asset)
	l.state.Set(accountKey(addr), a.owner.String()+"|"+a.asset.String()+"|"+strconv.FormatUint(a.balance, 10))
}

// CreateAccount is create-if-absent and returns the account address either way.
func (l *Ledger) CreateAccount(owner sdk.Address, asset sdk.Asset) (sdk.Address, error) {
	if _, err := l.loadMint(asset); err != nil {
		return "", err
	}
	acc, exists, err := l.loadAccount(owner, asset)
	if err != nil {
		return "", err
	}
	if !exists {
		l.saveAccount(acc)
	}
	return l.AccountAddress(owner, asset), nil
}

// Balance is zero for missing accounts and unknown assets.
func (l *Ledger) Balance(owner sdk.Address, asset sdk.Asset) uint64 {
	acc, _, err := l.loadAccount(owner, asset)
	if err != nil {
		return 0
	}
	return acc.balance
}

// -----------------------------------------------------------------------------
// Movements
// -----------------------------------------------------------------------------

func (l *Ledger) Mint(asset sdk.Asset, to sdk.Address, amount uint64, auth sdk.Authority) error {
	m, err := l.loadMint(asset)
	if err != nil {
		return err
	}
	if auth == nil || auth.Address() != m.authority {
		return errors.Wrapf(sdk.ErrUnauthorized, "mint %s", asset)
	}
	if amount == 0 {
		return nil
	}
	if m.supply > math.MaxUint64-amount {
		return errors.Wrapf(sdk.ErrSupplyOverflow, "mint %d of %s", amount, asset)
	}
	acc, _, err := l.loadAccount(to, asset)
	if err != nil {
		return err
	}
	m.supply += amount
	acc.balance += amount
	l.saveMint(asset, m)
	l.saveAccount(acc)
	return nil
}

func (l *Ledger) Burn(asset sdk.Asset, from sdk.Address, amount uint64, auth sdk.Authority) error {
	m, err := l.loadMint(asset)
	if err != nil {
		return err
	}
	if auth == nil || auth.Address() != from {
		return errors.Wrapf(sdk.ErrUnauthorized, "burn %s from %s", asset, from)
	}
	if amount == 0 {
		return nil
	}
	acc, exists, err := l.loadAccount(from, asset)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(sdk.ErrAccountNotFound, "%s has no %s account", from, asset)
	}
	if acc.balance < amount {
		return errors.Wrapf(sdk.ErrInsufficientFunds, "burn %d %s, balance %d", amount, asset, acc.balance)
	}
	acc.balance -= amount
	m.supply -= amount
	l.saveAccount(acc)
	l.saveMint(asset, m)
	return nil
}

func (l *Ledger) Transfer(asset sdk.Asset, from, to sdk.Address, amount uint64, auth sdk.Authority) error {
	if _, err := l.loadMint(asset); err != nil {
		return err
	}
	if auth == nil || auth.Address() != from {
		return errors.Wrapf(sdk.ErrUnauthorized, "transfer %s from %s", asset, from)
	}
	if amount == 0 {
		return nil
	}
	src, exists, err := l.loadAccount(from, asset)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(sdk.ErrAccountNotFound, "%s has no %s account", from, asset)
	}
	if src.balance < amount {
		return errors.Wrapf(sdk.ErrInsufficientFunds, "transfer %d %s, balance %d", amount, asset, src.balance)
	}
	if from == to {
		return nil
	}
	dst, _, err := l.loadAccount(to, asset)
	if err != nil {
		return err
	}
	src.balance -= amount
	dst.balance += amount // cannot wrap, supply bounds every balance
	l.saveAccount(src)
	l.saveAccount(dst)
	return nil
}

// -----------------------------------------------------------------------------
// Labels
// -----------------------------------------------------------------------------

func (l *Ledger) RegisterLabel(asset sdk.Asset, meta sdk.TokenMetadata, mintAuthority sdk.Authority) error {
	m, err := l.loadMint(asset)
	if err != nil {
		return err
	}
	if mintAuthority == nil || mintAuthority.Address() != m.authority {
		return errors.Wrapf(sdk.ErrUnauthorized, "label %s", asset)
	}
	if err := meta.Validate(); err != nil {
		return err
	}
	if l.state.Get(labelKey(asset)) != nil {
		return errors.Wrapf(sdk.ErrLabelExists, "asset %s", asset)
	}
	l.state.Set(labelKey(asset), meta.Name+"|"+meta.Symbol+"|"+meta.URI)
	return nil
}

func (l *Ledger) Label(asset sdk.Asset) (sdk.TokenMetadata, error) {
	ptr := l.state.Get(labelKey(asset))
	if ptr == nil {
		return sdk.TokenMetadata{}, errors.Wrapf(sdk.ErrUnknownAsset, "no label for %s", asset)
	}
	parts := strings.SplitN(*ptr, "|", 3)
	if len(parts) != 3 {
		return sdk.TokenMetadata{}, errors.Errorf("corrupt label for %s", asset)
	}
	return sdk.TokenMetadata{Name: parts[0], Symbol: parts[1], URI: parts[2]}, nil
}
