// internal/database/dialect.go
//
// SQL dialect selector.
//
// Context
// -------
// Production sites run on MySQL or MariaDB.  Local development and the
// integration tests run on an embedded SQLite file so a contributor can
// boot the CMS without a database server.  The handful of statements that
// differ between the two (upsert syntax, case-sensitive substring match,
// migration DDL) switch on Dialect.
//
// Notes
// -----
// • "mariadb" is accepted as an alias for MySQL.
package database

import (
	"fmt"
	"strings"
)

// Dialect names a supported SQL engine.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

func (d Dialect) String() string { return string(d) }

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "mysql"
}

// gooseDialect is the dialect string understood by pressly/goose.
func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "mysql"
}

// ParseDialect normalises a config value.  Empty selects MySQL.
func ParseDialect(raw string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mysql", "mariadb":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", raw)
	}
}
