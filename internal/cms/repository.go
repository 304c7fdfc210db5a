// internal/cms/repository.go
//
// Content repository accessor.
//
// Context
// -------
// Controllers and components never write SQL.  They call one of the named
// lookups on *Repository ("page by identifier", "menu links by type",
// "unread notification count for a user"), and the repository turns that
// into exactly one parameterised statement against the site database.
//
// Workflow
// --------
//  1. cmd/web opens one *sqlx.DB pool and calls New(db, dialect).
//  2. Each operation runs one query through DBExecutor and scans into the
//     records in model.go.
//  3. Single-row lookups report a missing row as ErrNotFound.  List
//     lookups report "nothing" as an empty slice.  Driver errors are
//     wrapped and returned untouched otherwise.
//
// Notes
// -----
//   - Repository holds no per-request state and is safe for concurrent use.
//   - No statement is retried, and no two statements share a transaction.
//   - Column lists match the fields in model.go; update both together.
package cms

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yanizio/adeptcms/internal/database"
	"github.com/yanizio/adeptcms/internal/metrics"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("cms: not found")

// Menu and sidebox locations.  Any other value disables location filtering.
const (
	LocationTop    = "top"
	LocationSide   = "side"
	LocationBottom = "bottom"
)

// DBExecutor is the subset of sqlx used by the repository.  Both *sqlx.DB
// and *sqlx.Tx satisfy it.
type DBExecutor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository is the content accessor for one site database.
type Repository struct {
	db      DBExecutor
	dialect database.Dialect
}

// New wraps db.  The dialect selects the few statements whose syntax
// differs between MySQL and SQLite.
func New(db DBExecutor, dialect database.Dialect) *Repository {
	if dialect == "" {
		dialect = database.DialectMySQL
	}
	return &Repository{db: db, dialect: dialect}
}

// isLocation reports whether s names a concrete location.
func isLocation(s string) bool {
	switch s {
	case LocationTop, LocationSide, LocationBottom:
		return true
	}
	return false
}

// get runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func (r *Repository) get(ctx context.Context, dest any, q string, args ...any) error {
	err := r.db.GetContext(ctx, dest, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// track records latency and driver failures for one operation.  Call it
// deferred with a pointer to the named error result.
func track(op string, start time.Time, err *error) {
	metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if *err != nil && !errors.Is(*err, ErrNotFound) {
		metrics.QueryErrorsTotal.WithLabelValues(op).Inc()
	}
}
