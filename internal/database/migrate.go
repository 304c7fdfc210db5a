// internal/database/migrate.go
//
// Embedded schema migrations (pressly/goose).
//
// Context
// -------
// Every table the content repository reads ships as a numbered goose
// migration under migrations/<dialect>/.  The files are embedded into the
// binary, so `cmsctl migrate up` and the optional `database.auto_migrate`
// boot step need nothing on disk.
//
// Notes
// -----
// • goose keeps package-level state; the helpers here are not meant to run
//   concurrently.
// • Migration chatter goes to the global zap logger at INFO.
package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// zapGooseLogger adapts the global sugared logger to goose.Logger.
type zapGooseLogger struct{}

func (zapGooseLogger) Printf(format string, v ...any) { zap.S().Infof(format, v...) }
func (zapGooseLogger) Fatalf(format string, v ...any) { zap.S().Fatalf(format, v...) }

func prepareGoose(d Dialect) (string, error) {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(zapGooseLogger{})
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return "", fmt.Errorf("database: goose dialect %s: %w", d, err)
	}
	return "migrations/" + d.String(), nil
}

// Migrate applies all pending migrations for d.
func Migrate(ctx context.Context, db *sqlx.DB, d Dialect) error {
	dir, err := prepareGoose(d)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("database: migrate up: %w", err)
	}
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, db *sqlx.DB, d Dialect) error {
	dir, err := prepareGoose(d)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("database: migrate down: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func Status(ctx context.Context, db *sqlx.DB, d Dialect) error {
	dir, err := prepareGoose(d)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db.DB, dir)
}

// Version reports the current schema version.
func Version(ctx context.Context, db *sqlx.DB, d Dialect) (int64, error) {
	if _, err := prepareGoose(d); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db.DB)
}
