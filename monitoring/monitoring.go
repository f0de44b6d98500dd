package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

var enabled bool

// Init starts the sentry client. An empty dsn leaves reporting off and every
// helper below becomes a no-op.
func Init(dsn, environment string) error {
	if dsn == "" {
		enabled = false
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return errors.Wrap(err, "sentry initialize failed")
	}
	enabled = true
	return nil
}

func Enabled() bool { return enabled }

func Message(msg string) {
	if !enabled {
		return
	}
	sentry.CaptureMessage(msg)
}

func Error(err error) {
	if !enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// ErrorWithTags attaches key/value tags (tx id, action) to the captured error.
func ErrorWithTags(err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush waits for queued events before shutdown.
func Flush() {
	if !enabled {
		return
	}
	sentry.Flush(2 * time.Second)
}
