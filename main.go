////////////////////////////////////////////////////////////////////////////////
// Okinoko Vault: governance vote vaults with project escrow
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChainSafe/log15"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"okinoko_vault/api"
	"okinoko_vault/config"
	"okinoko_vault/contract"
	"okinoko_vault/logger"
	"okinoko_vault/monitoring"
	"okinoko_vault/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	replayFile := flag.String("replay", "", "apply the JSON lines envelopes of this file and exit")
	flag.Parse()

	// .env is optional, the environment wins otherwise
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	cfg := config.Load()
	log := logger.New(cfg.Debug, cfg.LogLevel, os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.Crit("invalid configuration", "err", err)
		os.Exit(2)
	}
	log.Debug("config loaded", "cfg", cfg.DebugString())

	if err := monitoring.Init(cfg.SentryDSN, cfg.ProgramID); err != nil {
		log.Warn("sentry disabled", "err", err)
	}

	code := run(cfg, log, *replayFile)
	monitoring.Flush()
	os.Exit(code)
}

func run(cfg config.Config, log log15.Logger, replayFile string) int {
	backend, err := store.Open(cfg, log)
	if err != nil {
		log.Crit("failed to open store", "err", err)
		return 1
	}
	mode, err := contract.ParsePayoutMode(cfg.PayoutMode)
	if err != nil {
		log.Crit("invalid payout mode", "err", err)
		return 2
	}
	opts := contract.Options{
		Program:                 cfg.ProgramID,
		PayoutMode:              mode,
		LockProjectAfterDeposit: cfg.LockProjectAfterDeposit,
		Logger:                  log,
	}
	if replayFile == "" {
		// a live node runs calls at its own time, a replay at the journaled one
		opts.Clock = time.Now
	}
	c := contract.New(backend, opts)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if replayFile != "" {
		stats, err := replay(ctx, c, replayFile, os.Stdout)
		if err != nil {
			log.Error("replay stopped", "err", err, "applied", stats.applied, "rejected", stats.rejected)
			return 1
		}
		log.Info("replay done", "applied", stats.applied, "rejected", stats.rejected, "failed", stats.failed)
		if stats.failed > 0 {
			return 1
		}
		return 0
	}
	return serve(ctx, c, cfg, log)
}

func serve(ctx context.Context, c *contract.Contract, cfg config.Config, log log15.Logger) int {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(c, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr, "program", c.Program(), "payout", cfg.PayoutMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Crit("http server failed", "err", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		return 1
	}
	return 0
}
