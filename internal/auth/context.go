// internal/auth/context.go
//
// User-ID carrier for request contexts.
//
// Usage
// -----
//     // session.LoadUser attaches the logged-in user.
//     ctx = auth.WithUser(ctx, 123)
//
//     // Downstream code (ACL, bootstrap, account component) reads it.
//     id, ok := auth.UserID(ctx)   // 123, true
//
// Notes
// -----
// • The ID is the account id used by notifications.uid and
//   account_data.id.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying the given userID.
func WithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID extracts the userID from ctx.  It returns (0, false) if no user is
// set, the stored value is not an int64, or the id is not positive.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey{}).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
