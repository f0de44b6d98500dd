package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ChainSafe/log15"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"okinoko_vault/contract"
	"okinoko_vault/sdk"
)

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 50
	maxLimit     = 500
)

// Server exposes Execute and the read-only queries over HTTP.
type Server struct {
	contract *contract.Contract
	log      log15.Logger
	router   *mux.Router
}

func NewServer(c *contract.Contract, log log15.Logger) *Server {
	s := &Server{
		contract: c,
		log:      log.New("system", "api"),
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed handler, ready for http.Server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(enableCORS, s.logRequests)

	s.router.HandleFunc("/tx", s.postTx).Methods(http.MethodPost)
	s.router.HandleFunc("/tx/{id}", s.getReceipt).Methods(http.MethodGet)

	s.router.HandleFunc("/registry", s.getRegistry).Methods(http.MethodGet)
	s.router.HandleFunc("/vaults", s.listVaults).Methods(http.MethodGet)
	s.router.HandleFunc("/vaults/{id}", s.getVault).Methods(http.MethodGet)
	s.router.HandleFunc("/vaults/{id}/voters", s.listVoters).Methods(http.MethodGet)
	s.router.HandleFunc("/vaults/{id}/voters/{user}", s.getVoter).Methods(http.MethodGet)
	s.router.HandleFunc("/vaults/{id}/audit", s.getAudit).Methods(http.MethodGet)

	s.router.HandleFunc("/balances/{owner}/{asset}", s.getBalance).Methods(http.MethodGet)
	s.router.HandleFunc("/assets/{asset}", s.getAsset).Methods(http.MethodGet)
}

// enableCORS lets browser dashboards read the API.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// -----------------------------------------------------------------------------
// Transactions
// -----------------------------------------------------------------------------

// postTx executes one envelope. The receipt is the body in every case, the status
// follows its code.
// Example payload: {"sender":"hive:alice","action":"vote","payload":"7|100"}
func (s *Server) postTx(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(contract.ErrInvalidPayload, err.Error()))
		return
	}
	env, err := contract.DecodeEnvelope(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	receipt, err := s.contract.Execute(r.Context(), *env)
	status := http.StatusOK
	if err != nil {
		status = statusFor(contract.ErrorCode(err))
	}
	s.respond(w, status, func(jw *jwriter.Writer) { writeReceipt(jw, receipt) })
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.contract.Receipt(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if receipt == nil {
		s.writeStatus(w, http.StatusNotFound, "NotFound", "unknown tx id")
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeReceipt(jw, receipt) })
}

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

func (s *Server) getRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := s.contract.Registry()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeRegistry(jw, reg) })
}

func (s *Server) listVaults(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := s.page(w, r)
	if !ok {
		return
	}
	vaults, err := s.contract.Vaults(offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) {
		jw.RawByte('[')
		for i, v := range vaults {
			if i > 0 {
				jw.RawByte(',')
			}
			writeVault(jw, v)
		}
		jw.RawByte(']')
	})
}

func (s *Server) getVault(w http.ResponseWriter, r *http.Request) {
	id, ok := s.vaultID(w, r)
	if !ok {
		return
	}
	v, err := s.contract.Vault(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeVault(jw, v) })
}

func (s *Server) getAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.vaultID(w, r)
	if !ok {
		return
	}
	a, err := s.contract.Audit(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeAudit(jw, a) })
}

func (s *Server) listVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := s.vaultID(w, r)
	if !ok {
		return
	}
	offset, limit, ok := s.page(w, r)
	if !ok {
		return
	}
	voters, err := s.contract.Voters(id, offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) {
		jw.RawByte('[')
		for i, uv := range voters {
			if i > 0 {
				jw.RawByte(',')
			}
			writeUserVault(jw, uv, nil)
		}
		jw.RawByte(']')
	})
}

// getVoter returns the vote record plus what a claim would pay right now.
func (s *Server) getVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := s.vaultID(w, r)
	if !ok {
		return
	}
	user := sdk.Address(mux.Vars(r)["user"])
	uv, err := s.contract.VoteRecord(id, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	claimable, err := s.contract.ClaimPreview(id, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeUserVault(jw, uv, &claimable) })
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, asset := sdk.Address(vars["owner"]), sdk.Asset(vars["asset"])
	bal, err := s.contract.Balance(owner, asset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeBalance(jw, owner, asset, bal) })
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	info, err := s.contract.Asset(sdk.Asset(mux.Vars(r)["asset"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, func(jw *jwriter.Writer) { writeAsset(jw, info) })
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Server) vaultID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "InvalidPayload", "vault id must be a number")
		return 0, false
	}
	return id, true
}

// page reads ?offset=&limit=, limit defaults to 50 and is capped at 500.
func (s *Server) page(w http.ResponseWriter, r *http.Request) (uint64, uint64, bool) {
	q := r.URL.Query()
	offset, limit := uint64(0), uint64(defaultLimit)
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeStatus(w, http.StatusBadRequest, "InvalidPayload", "offset must be a number")
			return 0, 0, false
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeStatus(w, http.StatusBadRequest, "InvalidPayload", "limit must be a number")
			return 0, 0, false
		}
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit, true
}

// statusFor maps an error code to the HTTP status.
func statusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case "InvalidPayload", "UnknownAction", "InvalidMetadata":
		return http.StatusBadRequest
	case "NotAdmin", "NotVaultOwner", "Unauthorized":
		return http.StatusForbidden
	case "VaultNotFound", "NoVoteRecord", "UnknownAsset", "AccountNotFound":
		return http.StatusNotFound
	case "AlreadyInitialized", "VaultExists", "AssetExists", "LabelExists", "DuplicateTx", "NotInitialized":
		return http.StatusConflict
	case contract.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := contract.ErrorCode(err)
	if code == contract.CodeInternal {
		s.log.Error("query failed", "err", err)
	}
	s.writeStatus(w, statusFor(code), code, err.Error())
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, code, msg string) {
	s.respond(w, status, func(jw *jwriter.Writer) {
		jw.RawString(`{"code":`)
		jw.String(code)
		jw.RawString(`,"error":`)
		jw.String(msg)
		jw.RawByte('}')
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, build func(*jwriter.Writer)) {
	jw := &jwriter.Writer{}
	build(jw)
	data, err := jw.BuildBytes()
	if err != nil {
		s.log.Error("encode response", "err", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
