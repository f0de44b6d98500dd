// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	// DatabaseSchemePostgres is the postgres database scheme identifier
	DatabaseSchemePostgres = "postgres"
	// DatabaseSchemeMySQL is the mysql database scheme identifier
	DatabaseSchemeMySQL = "mysql"

	PayoutModeFloat   = "float"
	PayoutModeInteger = "integer"

	DefaultProgramID  = "okinoko_vault"
	DefaultListenAddr = ":8080"
)

type Config struct {
	ProgramID  string // seed namespace for derived addresses
	DBDialect  string // postgres, mysql or empty for the in-memory store
	DBDsn      string // DSN string passed to GORM driver
	StateFile  string // JSON snapshot for the in-memory store
	ListenAddr string
	SentryDSN  string
	LogLevel   string
	Debug      bool

	PayoutMode              string
	LockProjectAfterDeposit bool

	dbErr error
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// parseDatabaseURL interprets DATABASE_URL and returns (dialect, dsn).
// Supported schemes: postgres, postgresql, mysql. The mysql driver wants its own
// DSN format, so the scheme is simply cut off (mysql://user:pw@tcp(host:3306)/db).
func parseDatabaseURL(databaseURL string) (string, string, error) {
	scheme, rest, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return "", "", fmt.Errorf("DATABASE_URL has no scheme")
	}
	switch strings.ToLower(scheme) {
	case DatabaseSchemePostgres, "postgresql":
		// GORM postgres driver accepts URL DSN as-is
		if _, err := url.Parse(databaseURL); err != nil {
			return "", "", err
		}
		return DatabaseSchemePostgres, databaseURL, nil
	case DatabaseSchemeMySQL:
		return DatabaseSchemeMySQL, rest, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %s", scheme)
	}
}

func Load() Config {
	cfg := Config{
		ProgramID:               getenv("VAULT_PROGRAM_ID", DefaultProgramID),
		StateFile:               getenv("STATE_FILE", ""),
		ListenAddr:              getenv("LISTEN_ADDR", DefaultListenAddr),
		SentryDSN:               getenv("SENTRY_DSN", ""),
		LogLevel:                getenv("LOG_LEVEL", "info"),
		Debug:                   getenvBool("DEBUG", false),
		PayoutMode:              strings.ToLower(getenv("PAYOUT_MODE", PayoutModeFloat)),
		LockProjectAfterDeposit: getenvBool("LOCK_PROJECT_AFTER_DEPOSIT", false),
	}

	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" {
		dialect, dsn, err := parseDatabaseURL(dbURL)
		if err != nil {
			cfg.dbErr = errors.Wrap(err, "invalid DATABASE_URL")
		} else {
			cfg.DBDialect = dialect
			cfg.DBDsn = dsn
		}
	}
	return cfg
}

// Validate collects every problem instead of stopping at the first one.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.dbErr != nil {
		result = multierror.Append(result, c.dbErr)
	}
	if strings.TrimSpace(c.ProgramID) == "" {
		result = multierror.Append(result, errors.New("VAULT_PROGRAM_ID must not be empty"))
	}
	switch c.PayoutMode {
	case PayoutModeFloat, PayoutModeInteger:
	default:
		result = multierror.Append(result, errors.Errorf("PAYOUT_MODE must be %q or %q, got %q", PayoutModeFloat, PayoutModeInteger, c.PayoutMode))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "crit":
	default:
		result = multierror.Append(result, errors.Errorf("LOG_LEVEL %q is not a log level", c.LogLevel))
	}
	if c.ListenAddr == "" {
		result = multierror.Append(result, errors.New("LISTEN_ADDR must not be empty"))
	}
	return result.ErrorOrNil()
}

// Persistent reports whether a SQL database backs the state.
func (c Config) Persistent() bool {
	return c.DBDialect != "" && c.DBDsn != ""
}

func (c Config) String() string {
	return fmt.Sprintf("program=%s db=%s payout=%s listen=%s", c.ProgramID, c.DBDialect, c.PayoutMode, c.ListenAddr)
}

// DebugString returns a human-friendly configuration string with masked secrets.
func (c Config) DebugString() string {
	return fmt.Sprintf(
		"program=%s db=%s dsn=%s state_file=%s listen=%s payout=%s lock_project=%t sentry=%t log_level=%s",
		c.ProgramID,
		c.DBDialect,
		maskDSN(c.DBDialect, c.DBDsn),
		c.StateFile,
		c.ListenAddr,
		c.PayoutMode,
		c.LockProjectAfterDeposit,
		c.SentryDSN != "",
		c.LogLevel,
	)
}

func maskDSN(dialect, dsn string) string {
	switch strings.ToLower(dialect) {
	case DatabaseSchemePostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
			if u.User != nil {
				username := u.User.Username()
				u.User = url.User(username)
			}
			return u.String()
		}
		// Fallback for DSN as key-value list
		parts := strings.Fields(dsn)
		for i, p := range parts {
			lower := strings.ToLower(p)
			if strings.HasPrefix(lower, "password=") {
				parts[i] = "password=***"
			}
		}
		return strings.Join(parts, " ")
	case DatabaseSchemeMySQL:
		// user:password@tcp(host)/db
		at := strings.LastIndex(dsn, "@")
		if at < 0 {
			return dsn
		}
		creds := dsn[:at]
		if user, _, ok := strings.Cut(creds, ":"); ok {
			return user + ":***" + dsn[at:]
		}
		return dsn
	default:
		return dsn
	}
}
