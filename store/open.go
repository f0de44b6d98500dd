// Package store provides the durable backends behind program state.
package store

import (
	stdlog "log"
	"os"

	"github.com/ChainSafe/log15"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"okinoko_vault/config"
	"okinoko_vault/sdk"
)

// Open picks the backend: SQL when DATABASE_URL is set, otherwise the map store
// (restored from STATE_FILE when present).
func Open(cfg config.Config, log log15.Logger) (sdk.Backend, error) {
	if !cfg.Persistent() {
		mem := NewMemory(cfg.StateFile)
		if err := mem.LoadFromFile(); err != nil {
			return nil, err
		}
		log.Info("state backend ready", "backend", "memory", "snapshot", cfg.StateFile, "keys", mem.Len())
		return mem, nil
	}

	var dialector gorm.Dialector
	switch cfg.DBDialect {
	case config.DatabaseSchemePostgres:
		dialector = postgres.Open(cfg.DBDsn)
	case config.DatabaseSchemeMySQL:
		dialector = mysql.Open(cfg.DBDsn)
	default:
		return nil, errors.Errorf("unsupported database dialect %q", cfg.DBDialect)
	}
	// errors come back through the returned values, gorm stays silent
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.New(stdlog.New(os.Stderr, "gorm ", stdlog.LstdFlags), logger.Config{LogLevel: logger.Silent}),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.DBDialect)
	}
	g := NewGorm(db)
	if err := g.AutoMigrate(); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	log.Info("state backend ready", "backend", cfg.DBDialect)
	return g, nil
}
