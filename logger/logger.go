// Package logger wires log15 for the node and its components.
package logger

import (
	"io"
	"os"

	"github.com/ChainSafe/log15"
)

// New builds a root logger writing to w (stderr when nil). Debug forces the
// debug level, otherwise level is parsed and falls back to info.
func New(debug bool, level string, w io.Writer) log15.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		lvl = log15.LvlInfo
	}
	if debug {
		lvl = log15.LvlDebug
	}
	log := log15.New("app", "okinoko_vault")
	log.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, log15.LogfmtFormat())))
	return log
}

// Discard is a logger that drops everything, used by tests and library callers
// that did not pass one.
func Discard() log15.Logger {
	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	return log
}
