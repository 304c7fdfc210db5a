package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/yanizio/adeptcms/internal/database"
)

const (
	visitUpsertMySQL = "INSERT INTO visitor_log (`date`, ip, `timestamp`) VALUES (?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `timestamp` = VALUES(`timestamp`)"
	visitUpsertSQLite = "INSERT INTO visitor_log (`date`, ip, `timestamp`) VALUES (?, ?, ?) " +
		"ON CONFLICT DO UPDATE SET `timestamp` = excluded.`timestamp`"
)

// LogVisit upserts one visitor-log hit.  The store deduplicates on
// (date, ip), so repeat visits on the same day only refresh the timestamp.
func (r *Repository) LogVisit(ctx context.Context, v Visit) (err error) {
	defer track("log_visit", time.Now(), &err)

	q := visitUpsertMySQL
	if r.dialect == database.DialectSQLite {
		q = visitUpsertSQLite
	}
	if _, err := r.db.ExecContext(ctx, q, v.Date, v.IP, v.Timestamp); err != nil {
		return fmt.Errorf("cms: log visit %s: %w", v.IP, err)
	}
	return nil
}

// SetUserLanguage stores lang as the preferred language of account uid.
func (r *Repository) SetUserLanguage(ctx context.Context, uid int64, lang string) (err error) {
	defer track("set_user_language", time.Now(), &err)

	if _, err := r.db.ExecContext(ctx, "UPDATE account_data SET language = ? WHERE id = ?", lang, uid); err != nil {
		return fmt.Errorf("cms: set language for %d: %w", uid, err)
	}
	return nil
}
