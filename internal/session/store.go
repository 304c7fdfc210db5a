// internal/session/store.go
//
// Database-backed scs store.
//
// Context
//   Sign-in happens in the main site, not here.  Both processes share the
//   `sessions` table, laid out like the scs mysqlstore and sqlite3store
//   tables, so a token written by the site's scs manager is readable by
//   this service and vice versa.
//
// Notes
//   - MySQL keeps expiry as TIMESTAMP(6) in UTC, SQLite as a julian day
//     number.  Both compare against the database clock.
//   - Cleanup deletes expired rows on an interval until its context ends.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/database"
)

type storeQueries struct {
	find, commit, delete, expire string
}

var (
	mysqlStoreQueries = storeQueries{
		find:   "SELECT data FROM sessions WHERE token = ? AND UTC_TIMESTAMP(6) < expiry",
		commit: "INSERT INTO sessions (token, data, expiry) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data), expiry = VALUES(expiry)",
		delete: "DELETE FROM sessions WHERE token = ?",
		expire: "DELETE FROM sessions WHERE expiry < UTC_TIMESTAMP(6)",
	}
	sqliteStoreQueries = storeQueries{
		find:   "SELECT data FROM sessions WHERE token = ? AND julianday('now') < expiry",
		commit: "REPLACE INTO sessions (token, data, expiry) VALUES (?, ?, julianday(?))",
		delete: "DELETE FROM sessions WHERE token = ?",
		expire: "DELETE FROM sessions WHERE expiry < julianday('now')",
	}
)

// Store persists scs sessions in the shared sessions table.
type Store struct {
	db      *sqlx.DB
	dialect database.Dialect
	q       storeQueries
}

var _ scs.CtxStore = (*Store)(nil)

// NewStore returns a Store over db.
func NewStore(db *sqlx.DB, d database.Dialect) *Store {
	q := mysqlStoreQueries
	if d == database.DialectSQLite {
		q = sqliteStoreQueries
	}
	return &Store{db: db, dialect: d, q: q}
}

// expiryArg formats expiry the way the dialect's column expects it.
func (s *Store) expiryArg(expiry time.Time) any {
	if s.dialect == database.DialectSQLite {
		return expiry.UTC().Format("2006-01-02T15:04:05.999")
	}
	return expiry.UTC()
}

// FindCtx returns the encoded session for token.  Expired or unknown
// tokens report found == false.
func (s *Store) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var b []byte
	err := s.db.GetContext(ctx, &b, s.q.find, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session: find: %w", err)
	}
	return b, true, nil
}

// CommitCtx inserts or replaces the session for token.
func (s *Store) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	if _, err := s.db.ExecContext(ctx, s.q.commit, token, b, s.expiryArg(expiry)); err != nil {
		return fmt.Errorf("session: commit: %w", err)
	}
	return nil
}

// DeleteCtx removes the session for token.  Unknown tokens are not an error.
func (s *Store) DeleteCtx(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, token); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (s *Store) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *Store) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *Store) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

// DeleteExpired removes every expired row and reports how many went.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q.expire)
	if err != nil {
		return 0, fmt.Errorf("session: delete expired: %w", err)
	}
	return res.RowsAffected()
}

// Cleanup runs DeleteExpired every interval until ctx is done.  Failures
// are logged and the loop keeps going.
func (s *Store) Cleanup(ctx context.Context, interval time.Duration, log *zap.SugaredLogger) error {
	if interval <= 0 {
		return nil
	}
	if log == nil {
		log = zap.S()
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warnw("session cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				log.Debugw("expired sessions removed", "count", n)
			}
		}
	}
}
