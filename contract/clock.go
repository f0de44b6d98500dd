package contract

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"okinoko_vault/sdk"
)

// chainClock is the time calls run at. It never goes back: a call runs no
// earlier than the latest committed call, whatever its envelope says. The mark
// is stored in state so it survives restarts.
type chainClock struct {
	mu     sync.Mutex
	wall   func() time.Time
	loaded bool
	latest int64
}

// observe returns the time a call runs at. envTime is used only when no wall
// clock is configured.
func (k *chainClock) observe(b sdk.Backend, envTime int64) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.load(b); err != nil {
		return 0, err
	}
	now := envTime
	if k.wall != nil {
		now = k.wall().Unix()
	}
	if now < k.latest {
		now = k.latest
	}
	return now, nil
}

// commit runs apply with the clock mark of at added to tx. Commits go through
// here one at a time so the stored mark only grows.
func (k *chainClock) commit(tx *sdk.Tx, at int64, apply func() error) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if at > k.latest {
		tx.Set(clockKey(), strconv.FormatInt(at, 10))
	}
	if err := apply(); err != nil {
		return err
	}
	if at > k.latest {
		k.latest = at
	}
	return nil
}

func (k *chainClock) load(b sdk.Backend) error {
	if k.loaded {
		return nil
	}
	ptr, err := b.Load(clockKey())
	if err != nil {
		return errors.Wrap(err, "load clock")
	}
	if ptr != nil {
		v, err := strconv.ParseInt(*ptr, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "decode clock %q", *ptr)
		}
		k.latest = v
	}
	k.loaded = true
	return nil
}
