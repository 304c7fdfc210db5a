package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/config"
)

func newLoaded(t *testing.T) (*Manager, context.Context) {
	t.Helper()
	m := New(config.Session{Lifetime: time.Hour, CookieName: "cms"}, nil)
	ctx, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	return m, ctx
}

func TestNew_AppliesConfig(t *testing.T) {
	m := New(config.Session{Lifetime: time.Hour, CookieName: "cms", Secure: true}, nil)
	assert.Equal(t, time.Hour, m.Lifetime)
	assert.Equal(t, "cms", m.Cookie.Name)
	assert.True(t, m.Cookie.Secure)
}

func TestLanguage(t *testing.T) {
	m, ctx := newLoaded(t)
	assert.Empty(t, m.Language(ctx))

	m.SetLanguage(ctx, "german")
	assert.Equal(t, "german", m.Language(ctx))
}

func TestLoginLogout(t *testing.T) {
	m, ctx := newLoaded(t)

	_, ok := m.UserID(ctx)
	assert.False(t, ok)

	require.NoError(t, m.LoginUser(ctx, 7))
	uid, ok := m.UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), uid)

	require.NoError(t, m.LogoutUser(ctx))
	_, ok = m.UserID(ctx)
	assert.False(t, ok)
}

func TestLoadUserAndRequireUser(t *testing.T) {
	m, ctx := newLoaded(t)
	h := m.LoadUser(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := auth.UserID(r.Context())
		assert.Equal(t, int64(7), uid)
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, m.LoginUser(ctx, 7))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
