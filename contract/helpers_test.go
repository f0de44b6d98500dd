package contract_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"okinoko_vault/contract"
	"okinoko_vault/sdk"
	"okinoko_vault/store"
)

const (
	program          = "okinoko_vault"
	adminAddress     = sdk.Address("hive:tibfox")
	projectTeam      = sdk.Address("hive:project")
	defaultTimestamp = "2025-09-03T00:00:00"
	// t0 is defaultTimestamp in unix seconds.
	t0 int64 = 1756857600

	initPayload = "Okinoko|OKI|https://okinoko.io/oki.json|Staked Okinoko|stOKI|https://okinoko.io/stoki.json"
)

type vaultTest struct {
	t       *testing.T
	backend *store.Memory
	c       *contract.Contract
	seq     int
}

// setupVaultTest returns a contract that is already initialized by adminAddress.
func setupVaultTest(t *testing.T, opts contract.Options) *vaultTest {
	t.Helper()
	vt := newVaultTest(t, opts)
	vt.call(contract.ActionInit, initPayload, adminAddress, true)
	return vt
}

// newVaultTest returns an uninitialized contract.
func newVaultTest(t *testing.T, opts contract.Options) *vaultTest {
	t.Helper()
	opts.Program = program
	backend := store.NewMemory("")
	return &vaultTest{t: t, backend: backend, c: contract.New(backend, opts)}
}

// at formats t0+offset the way clients send numeric timestamps.
func at(offset int64) string {
	return strconv.FormatInt(t0+offset, 10)
}

// call executes an action at defaultTimestamp and asserts the outcome.
func (vt *vaultTest) call(action, payload string, sender sdk.Address, expectOK bool) *sdk.Receipt {
	vt.t.Helper()
	return vt.callAt(action, payload, sender, defaultTimestamp, expectOK)
}

func (vt *vaultTest) callAt(action, payload string, sender sdk.Address, ts string, expectOK bool) *sdk.Receipt {
	vt.t.Helper()
	vt.seq++
	r, err := vt.c.Execute(context.Background(), contract.Envelope{
		TxID:      fmt.Sprintf("%s-%d", action, vt.seq),
		Sender:    sender,
		Timestamp: ts,
		Action:    action,
		Payload:   payload,
	})
	require.NotNil(vt.t, r)
	if expectOK {
		require.NoError(vt.t, err, "%s %q", action, payload)
		require.True(vt.t, r.Success)
	} else {
		require.Error(vt.t, err, "%s %q should fail", action, payload)
		require.False(vt.t, r.Success)
	}
	return r
}

// failAt runs an action that must be rejected with code.
func (vt *vaultTest) failAt(action, payload string, sender sdk.Address, ts, code string) *sdk.Receipt {
	vt.t.Helper()
	r := vt.callAt(action, payload, sender, ts, false)
	require.Equal(vt.t, code, r.Code, r.Err)
	return r
}

func (vt *vaultTest) registry() *contract.GlobalRegistry {
	vt.t.Helper()
	reg, err := vt.c.Registry()
	require.NoError(vt.t, err)
	return reg
}

func (vt *vaultTest) vault(id uint64) *contract.Vault {
	vt.t.Helper()
	v, err := vt.c.Vault(id)
	require.NoError(vt.t, err)
	return v
}

func (vt *vaultTest) balance(owner sdk.Address, asset sdk.Asset) uint64 {
	vt.t.Helper()
	bal, err := vt.c.Balance(owner, asset)
	require.NoError(vt.t, err)
	return bal
}

// audit asserts the vote records of vault id add up to its totals.
func (vt *vaultTest) audit(id uint64) *contract.VaultAudit {
	vt.t.Helper()
	a, err := vt.c.Audit(id)
	require.NoError(vt.t, err)
	require.True(vt.t, a.Balanced(), "open %s + claimed %s != burned %s, paid %s != claimed %s",
		a.OpenVotes, a.ClaimedVotes, a.TotalBurned, a.PaidOut, a.TotalClaimed)
	return a
}

// stake mints governance units to user and converts them to staked units.
func (vt *vaultTest) stake(user sdk.Address, amount uint64) {
	vt.t.Helper()
	reg := vt.registry()
	vt.call(contract.ActionAssetMint, fmt.Sprintf("%s|%s|%d", reg.GovernanceAsset, user, amount), adminAddress, true)
	vt.call(contract.ActionConvert, strconv.FormatUint(amount, 10), user, true)
}

// createVault opens vault id with the given cap, voting until t0+deadline.
func (vt *vaultTest) createVault(id uint64, maxCap string, deadline int64) {
	vt.t.Helper()
	payload := fmt.Sprintf("%d|%s|%s|Vote %d|VOTE%d|https://okinoko.io/v%d.json", id, maxCap, at(deadline), id, id, id)
	vt.call(contract.ActionVaultCreate, payload, adminAddress, true)
}

// projectAsset creates the project team's reward asset and mints supply to the team.
func (vt *vaultTest) projectAsset(supply uint64) sdk.Asset {
	vt.t.Helper()
	r := vt.call(contract.ActionAssetCreate, "Project Reward|RWD|https://project.io/rwd.json|6", projectTeam, true)
	asset := sdk.Asset(r.Ret)
	if supply > 0 {
		vt.call(contract.ActionAssetMint, fmt.Sprintf("%s|%s|%d", asset, projectTeam, supply), projectTeam, true)
	}
	return asset
}

// setProject points vault id at asset with claims opening at t0+open.
func (vt *vaultTest) setProject(id uint64, asset sdk.Asset, open int64) {
	vt.t.Helper()
	vt.call(contract.ActionProjectSet, fmt.Sprintf("%d|%s|%s", id, asset, at(open)), adminAddress, true)
}

func (vt *vaultTest) vote(id uint64, user sdk.Address, amount uint64) *sdk.Receipt {
	vt.t.Helper()
	return vt.call(contract.ActionVote, fmt.Sprintf("%d|%d", id, amount), user, true)
}

func (vt *vaultTest) deposit(id uint64, amount uint64, ts string) {
	vt.t.Helper()
	vt.callAt(contract.ActionProjectDeposit, fmt.Sprintf("%d|%d", id, amount), projectTeam, ts, true)
}

func (vt *vaultTest) claim(id uint64, user sdk.Address, ts string) *sdk.Receipt {
	vt.t.Helper()
	return vt.callAt(contract.ActionClaim, strconv.FormatUint(id, 10), user, ts, true)
}
