// components/account/account.go
//
// Account component: notification inbox and per-user counters.
//
// Every route requires a logged-in session user (session.RequireUser).
// Notifications are always scoped to that user, so one user can never
// read or flip another user's rows.
//
// Routes
// ------
//	GET  /api/notifications               the user's notifications
//	GET  /api/notifications/unread        {"count": n}
//	POST /api/notifications/{id}/read     mark one read
//	POST /api/notifications/read-all      mark all read
//	GET  /api/messages/count              {"count": 0}
//	GET  /api/language                    language picked for this request
//	POST /api/logout                      end the shared session
package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/bootstrap"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/component"
	"github.com/yanizio/adeptcms/internal/session"
)

// Store is the part of *cms.Repository this component uses.
type Store interface {
	Notifications(ctx context.Context, uid int64) ([]cms.Notification, error)
	UnreadNotificationCount(ctx context.Context, uid int64) (int64, error)
	MarkNotificationRead(ctx context.Context, id, uid int64) error
	MarkAllNotificationsRead(ctx context.Context, uid int64) error
	MessagesCount() int
}

// Sessions ends a signed-in session.  *session.Manager satisfies it.
type Sessions interface {
	LogoutUser(ctx context.Context) error
}

var (
	_ component.Component = (*Comp)(nil)
	_ Store               = (*cms.Repository)(nil)
)

type Comp struct {
	store    Store
	sessions Sessions
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "account" }

func (c *Comp) Init(d component.Deps) error {
	c.store = d.Repo
	c.sessions = d.Sessions
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(session.RequireUser)
		g.Get("/api/notifications", c.listNotifications)
		g.Get("/api/notifications/unread", c.unreadCount)
		g.Post("/api/notifications/read-all", c.markAllRead)
		g.Post("/api/notifications/{id}/read", c.markRead)
		g.Get("/api/messages/count", c.messagesCount)
		g.Get("/api/language", c.currentLanguage)
		g.Post("/api/logout", c.logout)
	})
}

type countBody struct {
	Count int64 `json:"count"`
}

// uid returns the session user.  Routes run behind RequireUser.
func uid(r *http.Request) int64 {
	id, _ := auth.UserID(r.Context())
	return id
}

func (c *Comp) listNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := c.store.Notifications(r.Context(), uid(r))
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, list)
}

func (c *Comp) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := c.store.UnreadNotificationCount(r.Context(), uid(r))
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, countBody{Count: n})
}

func (c *Comp) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(r, "id")
	if !ok {
		component.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := c.store.MarkNotificationRead(r.Context(), id, uid(r)); err != nil {
		component.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Comp) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.store.MarkAllNotificationsRead(r.Context(), uid(r)); err != nil {
		component.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Comp) messagesCount(w http.ResponseWriter, _ *http.Request) {
	component.JSON(w, http.StatusOK, countBody{Count: int64(c.store.MessagesCount())})
}

func (c *Comp) currentLanguage(w http.ResponseWriter, r *http.Request) {
	component.JSON(w, http.StatusOK, map[string]string{"language": bootstrap.Language(r.Context())})
}

func (c *Comp) logout(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.LogoutUser(r.Context()); err != nil {
		component.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
