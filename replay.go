package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"okinoko_vault/api"
	"okinoko_vault/contract"
)

type replayStats struct {
	applied  int
	rejected int
	failed   int
}

// replay applies one envelope per line in file order and writes every receipt
// to out. Blank lines and lines starting with # are skipped. A rejected envelope
// does not stop the run, a malformed line does.
func replay(ctx context.Context, c *contract.Contract, path string, out io.Writer) (replayStats, error) {
	var stats replayStats
	f, err := os.Open(path)
	if err != nil {
		return stats, errors.Wrap(err, "open replay file")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		env, err := contract.DecodeEnvelope([]byte(raw))
		if err != nil {
			return stats, errors.Wrapf(err, "line %d", line)
		}
		receipt, err := c.Execute(ctx, *env)
		switch {
		case err == nil:
			stats.applied++
		case contract.IsRejection(err):
			stats.rejected++
		default:
			stats.failed++
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
		}
		if _, werr := out.Write(append(api.EncodeReceipt(receipt), '\n')); werr != nil {
			return stats, errors.Wrap(werr, "write receipt")
		}
	}
	if err := sc.Err(); err != nil {
		return stats, errors.Wrap(err, "read replay file")
	}
	return stats, nil
}
