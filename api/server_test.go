package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_vault/contract"
	"okinoko_vault/logger"
	"okinoko_vault/store"
)

const (
	admin   = "hive:tibfox"
	initTx  = `{"tx_id":"init","sender":"hive:tibfox","timestamp":1756857600,"action":"init","payload":"Okinoko|OKI||Staked Okinoko|stOKI|"}`
	seconds = int64(1756857600)
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := contract.New(store.NewMemory(""), contract.Options{Program: "okinoko_vault", PayoutMode: contract.PayoutInteger})
	srv := httptest.NewServer(NewServer(c, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postTx(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tx", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func get(t *testing.T, srv *httptest.Server, path string, into any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func envelope(id, sender string, ts int64, action, payload string) string {
	return fmt.Sprintf(`{"tx_id":%q,"sender":%q,"timestamp":%d,"action":%q,"payload":%q}`, id, sender, ts, action, payload)
}

func TestPostTxAndQueries(t *testing.T) {
	srv := newTestServer(t)

	status, receipt := postTx(t, srv, initTx)
	require.Equal(t, http.StatusOK, status, receipt)
	assert.Equal(t, true, receipt["success"])
	assert.Equal(t, "initialized", receipt["ret"])

	reg := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/registry", &reg))
	assert.Equal(t, admin, reg["admin"])
	assert.Equal(t, "integer", reg["payout_mode"])
	gov := reg["governance_asset"].(string)

	status, _ = postTx(t, srv, envelope("m1", admin, seconds, "asset_mint", gov+"|hive:alice|500"))
	require.Equal(t, http.StatusOK, status)
	status, _ = postTx(t, srv, envelope("c1", "hive:alice", seconds, "convert", "500"))
	require.Equal(t, http.StatusOK, status)
	status, _ = postTx(t, srv, envelope("v1", admin, seconds, "vault_create", fmt.Sprintf("7|1000|%d|Vote Seven|VOTE7|", seconds+3600)))
	require.Equal(t, http.StatusOK, status)
	status, _ = postTx(t, srv, envelope("vote1", "hive:alice", seconds, "vote", "7|400"))
	require.Equal(t, http.StatusOK, status)

	vault := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/vaults/7", &vault))
	assert.Equal(t, "400", vault["total_burned"])
	assert.Equal(t, "1000", vault["max_vote_cap"])
	assert.Nil(t, vault["claim_open_time"])
	assert.Nil(t, vault["project_asset"])

	var vaults []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/vaults?limit=10", &vaults))
	require.Len(t, vaults, 1)

	var voters []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/vaults/7/voters", &voters))
	require.Len(t, voters, 1)
	assert.Equal(t, "hive:alice", voters[0]["user"])

	voter := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/vaults/7/voters/hive:alice", &voter))
	assert.Equal(t, "400", voter["burned_amount"])
	assert.Equal(t, "0", voter["claimable"])

	audit := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/vaults/7/audit", &audit))
	assert.Equal(t, "400", audit["open_votes"])
	assert.Equal(t, true, audit["balanced"])

	bal := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/balances/hive:alice/"+vault["vote_asset"].(string), &bal))
	assert.Equal(t, float64(400), bal["balance"])

	asset := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/assets/"+gov, &asset))
	assert.Equal(t, "OKI", asset["symbol"])
	assert.Equal(t, float64(6), asset["decimals"])

	stored := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/tx/vote1", &stored))
	assert.Equal(t, true, stored["success"])
	assert.Equal(t, "vote", stored["action"])
}

func TestPostTxRejections(t *testing.T) {
	srv := newTestServer(t)
	postTx(t, srv, initTx)

	status, receipt := postTx(t, srv, envelope("x1", "hive:bob", seconds, "vault_create", "1|10|1|Mine|MINE|"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NotAdmin", receipt["code"])
	assert.Equal(t, false, receipt["success"])

	status, receipt = postTx(t, srv, envelope("x2", "hive:bob", seconds, "vote", "1|10"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "VaultNotFound", receipt["code"])

	status, receipt = postTx(t, srv, initTx)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DuplicateTx", receipt["code"])

	status, receipt = postTx(t, srv, `{"sender":"hive:bob"`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidPayload", receipt["code"])

	// rejected receipts are still stored
	stored := map[string]any{}
	require.Equal(t, http.StatusOK, get(t, srv, "/tx/x1", &stored))
	assert.Equal(t, "NotAdmin", stored["code"])
}

func TestQueryErrors(t *testing.T) {
	srv := newTestServer(t)
	out := map[string]any{}

	assert.Equal(t, http.StatusConflict, get(t, srv, "/registry", &out))
	assert.Equal(t, "NotInitialized", out["code"])

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/vaults/seven", &out))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/vaults/7", &out))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/tx/unknown", &out))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/assets/pda:nothing", &out))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/vaults?offset=-1", &out))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(""))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor("MaxVoteCapExceeded"))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor("InsufficientFunds"))
	assert.Equal(t, http.StatusInternalServerError, statusFor(contract.CodeInternal))
}
