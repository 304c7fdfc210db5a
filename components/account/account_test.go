package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/bootstrap"
	"github.com/yanizio/adeptcms/internal/cms"
)

type markCall struct{ id, uid int64 }

type fakeStore struct {
	marked    []markCall
	markedAll []int64
}

func (f *fakeStore) Notifications(_ context.Context, uid int64) ([]cms.Notification, error) {
	return []cms.Notification{{ID: 1, UID: uid, Title: "hi"}}, nil
}

func (f *fakeStore) UnreadNotificationCount(context.Context, int64) (int64, error) { return 3, nil }

func (f *fakeStore) MarkNotificationRead(_ context.Context, id, uid int64) error {
	f.marked = append(f.marked, markCall{id, uid})
	return nil
}

func (f *fakeStore) MarkAllNotificationsRead(_ context.Context, uid int64) error {
	f.markedAll = append(f.markedAll, uid)
	return nil
}

func (f *fakeStore) MessagesCount() int { return 0 }

type fakeSessions struct{ loggedOut int }

func (f *fakeSessions) LogoutUser(context.Context) error {
	f.loggedOut++
	return nil
}

func serve(store Store, method, target string, uid int64) *httptest.ResponseRecorder {
	return serveWith(&Comp{store: store, sessions: &fakeSessions{}}, method, target, uid)
}

func serveWith(c *Comp, method, target string, uid int64) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	c.Routes(r)
	req := httptest.NewRequest(method, target, nil)
	ctx := bootstrap.WithLanguage(req.Context(), "german")
	if uid > 0 {
		ctx = auth.WithUser(ctx, uid)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestRequiresUser(t *testing.T) {
	rec := serve(&fakeStore{}, http.MethodGet, "/api/notifications", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnreadCount(t *testing.T) {
	rec := serve(&fakeStore{}, http.MethodGet, "/api/notifications/unread", 7)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestListNotifications_ScopedToUser(t *testing.T) {
	rec := serve(&fakeStore{}, http.MethodGet, "/api/notifications", 7)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uid":7`)
}

func TestMarkRead(t *testing.T) {
	store := &fakeStore{}
	rec := serve(store, http.MethodPost, "/api/notifications/5/read", 7)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []markCall{{5, 7}}, store.marked)

	rec = serve(store, http.MethodPost, "/api/notifications/x/read", 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkAllRead(t *testing.T) {
	store := &fakeStore{}
	rec := serve(store, http.MethodPost, "/api/notifications/read-all", 7)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{7}, store.markedAll)
}

func TestMessagesCountAndLanguage(t *testing.T) {
	rec := serve(&fakeStore{}, http.MethodGet, "/api/messages/count", 7)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = serve(&fakeStore{}, http.MethodGet, "/api/language", 7)
	assert.JSONEq(t, `{"language":"german"}`, rec.Body.String())
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{}
	c := &Comp{store: &fakeStore{}, sessions: sessions}

	rec := serveWith(c, http.MethodPost, "/api/logout", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, sessions.loggedOut)

	rec = serveWith(c, http.MethodPost, "/api/logout", 7)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, sessions.loggedOut)
}
