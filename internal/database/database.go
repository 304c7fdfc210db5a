// Package database centralises sqlx connection helpers.  The production
// driver is go-sql-driver/mysql, which also works with MariaDB.  An
// embedded SQLite engine (modernc.org/sqlite) backs local development and
// the integration tests.
//
// Public entry points:
//
//	Open(ctx, opts)     – connect, tune the pool, and Ping with retries.
//	Migrate(ctx, db, d) – apply embedded goose migrations (migrate.go).
//
// Open Pings the database before returning so callers can fail fast during
// bootstrap.  Callers should Close() the returned *sqlx.DB when no longer
// needed.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Options tunes one connection pool.  Zero values fall back to the
// defaults below.
type Options struct {
	Dialect         Dialect
	DSN             string
	Password        string // injected into MySQL DSNs; ignored by SQLite
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

const (
	defaultMaxOpen   = 15
	defaultMaxIdle   = 5
	defaultLifetime  = 30 * time.Minute
	defaultBackoff   = 500 * time.Millisecond
	sqliteMaxOpen    = 1 // single writer; avoids SQLITE_BUSY under load
	sqliteBusyMillis = 5000
)

// Open returns a ready *sqlx.DB.  The first Ping is retried opts.Retries
// times with a fixed backoff so a database that is still starting does not
// abort the process.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	if opts.DSN == "" {
		return nil, errors.New("database: empty DSN")
	}
	if opts.Dialect == "" {
		opts.Dialect = DialectMySQL
	}

	dsn, err := buildDSN(opts)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(opts.Dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", opts.Dialect, err)
	}

	maxOpen, maxIdle := opts.MaxOpenConns, opts.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpen
	}
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdle
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	if opts.Dialect == DialectSQLite {
		// The busy_timeout pragma below is per connection; keep the one
		// connection for the life of the pool.
		maxOpen, maxIdle, lifetime = sqliteMaxOpen, sqliteMaxOpen, 0
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(uint(opts.Retries)+1),
		retry.Delay(backoff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			zap.S().Warnw("database ping failed, retrying",
				"dialect", opts.Dialect, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", opts.Dialect, err)
	}

	if opts.Dialect == DialectSQLite {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyMillis)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database: sqlite pragma: %w", err)
		}
	}
	return db, nil
}

// buildDSN injects the password into a MySQL DSN so the secret never has to
// live in the YAML template.  SQLite DSNs are file paths and pass through.
func buildDSN(opts Options) (string, error) {
	if opts.Dialect != DialectMySQL {
		return opts.DSN, nil
	}
	cfg, err := mysql.ParseDSN(opts.DSN)
	if err != nil {
		return "", fmt.Errorf("database: parse mysql dsn: %w", err)
	}
	if opts.Password != "" {
		cfg.Passwd = opts.Password
	}
	return cfg.FormatDSN(), nil
}
