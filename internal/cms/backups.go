package cms

import (
	"context"
	"fmt"
	"time"
)

// Backups returns every backup ordered by id.
func (r *Repository) Backups(ctx context.Context) (_ []Backup, err error) {
	defer track("backups", time.Now(), &err)

	const q = "SELECT id, backup_name, created_date FROM backup ORDER BY id ASC"
	out := make([]Backup, 0, 8)
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("cms: backups: %w", err)
	}
	return out, nil
}

// BackupName returns the archive name of backup id.
func (r *Repository) BackupName(ctx context.Context, id int64) (_ string, err error) {
	defer track("backup_name", time.Now(), &err)

	var name string
	if err := r.get(ctx, &name, "SELECT backup_name FROM backup WHERE id = ?", id); err != nil {
		return "", fmt.Errorf("cms: backup %d: %w", id, err)
	}
	return name, nil
}

// BackupCount returns the number of stored backups.
func (r *Repository) BackupCount(ctx context.Context) (_ int64, err error) {
	defer track("backup_count", time.Now(), &err)

	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(id) FROM backup"); err != nil {
		return 0, fmt.Errorf("cms: backup count: %w", err)
	}
	return n, nil
}

// DeleteBackup removes backup id.  Deleting a missing id is not an error.
func (r *Repository) DeleteBackup(ctx context.Context, id int64) (err error) {
	defer track("delete_backup", time.Now(), &err)

	if _, err := r.db.ExecContext(ctx, "DELETE FROM backup WHERE id = ?", id); err != nil {
		return fmt.Errorf("cms: delete backup %d: %w", id, err)
	}
	return nil
}
