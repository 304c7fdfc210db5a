// internal/acl/store.go
//
// Small query helpers for Role-Based Access Control.
//
// Context
// -------
// The ACL model lives in the site database next to the content tables:
//
//	role        (id PK, name, enabled)
//	role_acl    (role_id, component, action, permitted)
//	user_role   (user_id, role_id)
//
// The admin component needs fast answers to two questions:
//  1. Which *role names* does user X have?        → `UserRoles()`
//  2. Is role R permitted for component/action?   → `RoleAllowed()`
//
// These helpers accept any sqlx handle and perform simple parameterised
// queries.  They are thin; callers may wrap the results in their own
// per-request cache.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package acl

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Querier is the part of *sqlx.DB the helpers use.
type Querier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	Rebind(query string) string
}

// UserRoles returns the role *names* bound to userID.  Disabled roles are
// filtered out.
func UserRoles(ctx context.Context, db Querier, userID int64) ([]string, error) {
	const q = `SELECT r.name
                 FROM user_role ur
                 JOIN role r ON r.id = ur.role_id
                WHERE ur.user_id = ? AND r.enabled = 1`

	roles := make([]string, 0, 4)
	if err := db.SelectContext(ctx, &roles, q, userID); err != nil {
		return nil, err
	}
	return roles, nil
}

// RoleAllowed reports whether *any* of the candidate roles is permitted for the
// given component + action.  It executes one query using IN (? … ?).
//
// Empty roles slice returns false, nil.
func RoleAllowed(ctx context.Context, db Querier, roles []string, component, action string) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	q, args, err := sqlx.In(`SELECT 1
            FROM role_acl ra
            JOIN role r ON r.id = ra.role_id
           WHERE r.name IN (?)
             AND ra.component = ?
             AND ra.action   = ?
             AND ra.permitted = 1
           LIMIT 1`, roles, component, action) // early exit once we find a hit
	if err != nil {
		return false, err
	}

	var dummy int
	err = db.GetContext(ctx, &dummy, db.Rebind(q), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
