package contract

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChainSafe/log15"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"okinoko_vault/ledger"
	"okinoko_vault/logger"
	"okinoko_vault/monitoring"
	"okinoko_vault/sdk"
)

// Options are fixed per deployment. PayoutMode and LockProjectAfterDeposit are
// copied into the registry at init, later changes do not affect a live registry.
type Options struct {
	Program                 string
	PayoutMode              PayoutMode
	LockProjectAfterDeposit bool
	Logger                  log15.Logger
	// Clock is the time source of a live node. Without one, calls run at their
	// envelope timestamp (replaying a journal); either way time never goes back.
	Clock func() time.Time
	// Bank builds the asset collaborator for one tx, defaults to the in-state ledger.
	Bank func(st sdk.State, program string) sdk.Bank
}

// Contract runs transactions against a Backend. Every Execute is atomic: the
// call and its ledger movements commit together or not at all. Calls touching
// the same vault, voter, user or asset run one after the other, the rest in parallel.
type Contract struct {
	backend sdk.Backend
	opts    Options
	log     log15.Logger

	registryMu sync.RWMutex
	registry   atomic.Pointer[GlobalRegistry]
	locks      *lockTable
	clock      *chainClock
}

func New(backend sdk.Backend, opts Options) *Contract {
	if opts.Program == "" {
		opts.Program = "okinoko_vault"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Bank == nil {
		opts.Bank = func(st sdk.State, program string) sdk.Bank { return ledger.New(st, program) }
	}
	return &Contract{
		backend: backend,
		opts:    opts,
		log:     opts.Logger.New("system", "contract"),
		locks:   newLockTable(),
		clock:   &chainClock{wall: opts.Clock},
	}
}

// Program is the seed namespace of this deployment.
func (c *Contract) Program() string { return c.opts.Program }

// Execute applies one envelope. The receipt is always returned, and persisted
// unless ctx ended first; err is the rejection or fault.
func (c *Contract) Execute(ctx context.Context, env Envelope) (*sdk.Receipt, error) {
	if env.TxID == "" {
		env.TxID = uuid.NewString()
	}
	receipt := &sdk.Receipt{
		TxID:      env.TxID,
		Action:    env.Action,
		Sender:    env.Sender,
		Payload:   env.Payload,
		Timestamp: time.Now().Unix(),
	}
	log := c.log.New("tx", env.TxID, "action", env.Action)

	if err := ctx.Err(); err != nil {
		return c.reject(log, receipt, nil, err)
	}
	// one use of a tx id at a time, the check below holds until commit
	releaseTx := c.locks.acquire([]string{lockTx + env.TxID})
	defer releaseTx()
	if prev, err := c.backend.Receipt(env.TxID); err == nil && prev != nil {
		return c.duplicate(log, receipt)
	}

	envTime, err := c.envelopeTime(env.Timestamp)
	if err != nil {
		return c.reject(log, receipt, nil, err)
	}
	receipt.Timestamp = envTime
	if !env.Sender.IsValid() || env.Sender.Domain() == sdk.AddressDomainDerived {
		return c.reject(log, receipt, nil, errors.Wrapf(sdk.ErrUnauthorized, "sender %q cannot sign", env.Sender))
	}
	decode, ok := decoders[env.Action]
	if !ok {
		return c.reject(log, receipt, nil, errors.Wrapf(ErrUnknownAction, "%q", env.Action))
	}
	cl, err := decode(env.Payload)
	if err != nil {
		return c.reject(log, receipt, nil, err)
	}

	if env.Action == ActionInit {
		c.registryMu.Lock()
		defer c.registryMu.Unlock()
	} else {
		c.registryMu.RLock()
		defer c.registryMu.RUnlock()
	}
	release := c.locks.acquire(cl.locks(c.opts.Program, c.peekRegistry(), env.Sender))
	defer release()

	if err := ctx.Err(); err != nil {
		return c.reject(log, receipt, nil, err)
	}
	now, err := c.clock.observe(c.backend, envTime)
	if err != nil {
		return c.reject(log, receipt, nil, err)
	}
	receipt.Timestamp = now

	tx := sdk.NewTx(c.backend)
	cc := &callContext{
		program: c.opts.Program,
		opts:    c.opts,
		env: sdk.Env{
			ContractId:  c.opts.Program,
			TxId:        env.TxID,
			BlockHeight: env.BlockHeight,
			Timestamp:   env.Timestamp,
			Sender:      sdk.Sender{Address: env.Sender, RequiredAuths: []sdk.Address{env.Sender}},
		},
		now:  now,
		tx:   tx,
		bank: c.opts.Bank(tx, c.opts.Program),
	}
	ret, err := cl.run(cc)
	if err == nil && tx.Err() != nil {
		err = errors.Wrap(tx.Err(), "state read")
	}
	if err != nil {
		return c.reject(log, receipt, tx.Logs(), err)
	}

	receipt.Success = true
	receipt.Ret = ret
	receipt.Logs = tx.Logs()
	if err := c.clock.commit(tx, now, func() error { return tx.Commit(receipt) }); err != nil {
		receipt.Success = false
		receipt.Ret = ""
		receipt.Logs = nil
		if errors.Is(err, sdk.ErrDuplicateReceipt) {
			return c.duplicate(log, receipt)
		}
		err = errors.Wrap(err, "commit")
		receipt.Code = CodeInternal
		receipt.Err = err.Error()
		log.Error("commit failed", "err", err)
		monitoring.ErrorWithTags(err, map[string]string{"tx": env.TxID, "action": env.Action})
		return receipt, err
	}
	if cc.registry != nil && env.Action == ActionInit {
		c.registry.Store(cc.registry)
	}
	log.Debug("tx applied", "sender", env.Sender, "ret", ret)
	return receipt, nil
}

// envelopeTime parses the envelope timestamp. It may only be left out when a
// wall clock is configured.
func (c *Contract) envelopeTime(ts string) (int64, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		if c.opts.Clock == nil {
			return 0, errors.Wrap(ErrInvalidPayload, "timestamp required")
		}
		return c.opts.Clock().Unix(), nil
	}
	v, ok := sdk.ParseTimestamp(ts)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPayload, "invalid timestamp %q", ts)
	}
	return v, nil
}

// duplicate answers a reused tx id. The stored receipt belongs to the first use
// and is left alone.
func (c *Contract) duplicate(log log15.Logger, receipt *sdk.Receipt) (*sdk.Receipt, error) {
	err := errors.Wrapf(ErrDuplicateTx, "%q", receipt.TxID)
	receipt.Code = ErrorCode(err)
	receipt.Err = err.Error()
	log.Debug("tx rejected", "code", receipt.Code)
	return receipt, err
}

// reject fills the failure fields and persists the receipt without any writes.
// A call cut short by its context leaves no receipt, the tx id stays usable.
func (c *Contract) reject(log log15.Logger, receipt *sdk.Receipt, logs []string, err error) (*sdk.Receipt, error) {
	receipt.Success = false
	receipt.Code = ErrorCode(err)
	receipt.Err = err.Error()
	receipt.Logs = logs
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug("tx abandoned", "err", err)
		return receipt, err
	}
	if IsRejection(err) {
		log.Debug("tx rejected", "code", receipt.Code, "err", err)
	} else {
		log.Error("tx failed", "err", err)
		monitoring.ErrorWithTags(err, map[string]string{"tx": receipt.TxID, "action": receipt.Action})
	}
	if perr := c.backend.Apply(nil, receipt); perr != nil {
		log.Warn("receipt not stored", "err", perr)
	}
	return receipt, err
}

// peekRegistry reads the committed registry for lock planning. It is nil before
// init; the value never changes afterwards so it is cached for good.
func (c *Contract) peekRegistry() *GlobalRegistry {
	if reg := c.registry.Load(); reg != nil {
		return reg
	}
	ptr, err := c.backend.Load(registryKey())
	if err != nil || ptr == nil {
		return nil
	}
	reg, err := DecodeRegistry([]byte(*ptr))
	if err != nil {
		return nil
	}
	c.registry.Store(reg)
	return reg
}
