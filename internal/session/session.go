// internal/session/session.go
//
// Adept CMS session helpers on top of alexedwards/scs.
//
// Context
//   Every browser gets an scs session.  Two facts live in it: the id of
//   the logged-in account (plus an "online" flag), and the language picked
//   for anonymous visitors.  Credential checks happen in the main site,
//   which signs users in with LoginUser against the same shared Store
//   (see store.go); this service reads those sessions back.
//
//   Manager embeds *scs.SessionManager, so LoadAndSave, Load, and the raw
//   Get/Put calls stay available to callers that need them.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/config"
)

// Session keys.
const (
	KeyUserID   = "uid"
	KeyOnline   = "online"
	KeyLanguage = "language"
)

// Manager wraps the scs session manager with typed accessors.
type Manager struct {
	*scs.SessionManager
}

// New builds a cookie-backed manager over store.  A nil store keeps the
// scs in-memory default, which only suits tests and single-process use.
func New(cfg config.Session, store scs.Store) *Manager {
	sm := scs.New()
	if store != nil {
		sm.Store = store
	}
	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}
	if cfg.CookieName != "" {
		sm.Cookie.Name = cfg.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.Secure
	return &Manager{SessionManager: sm}
}

// Language returns the language stored for an anonymous visitor, or "".
func (m *Manager) Language(ctx context.Context) string {
	return m.GetString(ctx, KeyLanguage)
}

// SetLanguage stores lang in the session bag.
func (m *Manager) SetLanguage(ctx context.Context, lang string) {
	m.Put(ctx, KeyLanguage, lang)
}

// UserID returns the logged-in account id.  ok is false for anonymous or
// offline sessions.
func (m *Manager) UserID(ctx context.Context) (int64, bool) {
	if !m.GetBool(ctx, KeyOnline) {
		return 0, false
	}
	id := m.GetInt64(ctx, KeyUserID)
	return id, id > 0
}

// LoginUser marks the session online for uid.  The token is renewed to
// prevent fixation.
func (m *Manager) LoginUser(ctx context.Context, uid int64) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, KeyUserID, uid)
	m.Put(ctx, KeyOnline, true)
	return nil
}

// LogoutUser drops the session entirely.
func (m *Manager) LogoutUser(ctx context.Context) error {
	return m.Destroy(ctx)
}

// LoadUser copies the session user into the request context for
// auth.UserID.  It must run inside LoadAndSave.
func (m *Manager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := m.UserID(r.Context()); ok {
			r = r.WithContext(auth.WithUser(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests without a logged-in user with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserID(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
