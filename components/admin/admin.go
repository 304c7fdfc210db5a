// components/admin/admin.go
//
// Admin component: backup bookkeeping, email templates, legacy session
// lookup, and rank lookup.
//
// Routes are guarded by RBAC: the caller needs a role permitted for
// component "admin" and the action named per route ("view" or "delete").
//
// Routes
// ------
//	GET    /api/admin/backups            every backup record
//	GET    /api/admin/backups/count      {"count": n}
//	GET    /api/admin/backups/{id}       {"id": id, "name": ...}
//	DELETE /api/admin/backups/{id}       drop the record
//	GET    /api/admin/templates/{id}     one email template
//	GET    /api/admin/ranks/any          {"id": lowest rank id}
//	GET    /api/admin/sessions?ip=&ua=   legacy sessions opened from ip with ua
package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adeptcms/internal/acl"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/component"
)

const (
	actionView   = "view"
	actionDelete = "delete"
)

// Store is the part of *cms.Repository this component uses.
type Store interface {
	Backups(ctx context.Context) ([]cms.Backup, error)
	BackupCount(ctx context.Context) (int64, error)
	BackupName(ctx context.Context, id int64) (string, error)
	DeleteBackup(ctx context.Context, id int64) error
	Template(ctx context.Context, id int64) (*cms.EmailTemplate, error)
	AnyOldRank(ctx context.Context) (int64, error)
	Sessions(ctx context.Context, ip, userAgent string) ([]cms.SessionRecord, error)
}

var (
	_ component.Component = (*Comp)(nil)
	_ Store               = (*cms.Repository)(nil)
)

type Comp struct {
	store Store
	guard func(action string) func(http.Handler) http.Handler
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "admin" }

func (c *Comp) Init(d component.Deps) error {
	c.store = d.Repo
	c.guard = func(action string) func(http.Handler) http.Handler {
		return acl.RequirePermission(d.ACL, "admin", action)
	}
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	r.Route("/api/admin", func(a chi.Router) {
		a.With(c.guard(actionView)).Get("/backups", c.listBackups)
		a.With(c.guard(actionView)).Get("/backups/count", c.countBackups)
		a.With(c.guard(actionView)).Get("/backups/{id}", c.getBackup)
		a.With(c.guard(actionDelete)).Delete("/backups/{id}", c.deleteBackup)
		a.With(c.guard(actionView)).Get("/templates/{id}", c.getTemplate)
		a.With(c.guard(actionView)).Get("/ranks/any", c.anyRank)
		a.With(c.guard(actionView)).Get("/sessions", c.findSessions)
	})
}

func (c *Comp) listBackups(w http.ResponseWriter, r *http.Request) {
	list, err := c.store.Backups(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, list)
}

func (c *Comp) countBackups(w http.ResponseWriter, r *http.Request) {
	n, err := c.store.BackupCount(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (c *Comp) getBackup(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(r, "id")
	if !ok {
		component.Error(w, http.StatusBadRequest, "invalid backup id")
		return
	}
	name, err := c.store.BackupName(r.Context(), id)
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, cms.Backup{ID: id, Name: name})
}

func (c *Comp) deleteBackup(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(r, "id")
	if !ok {
		component.Error(w, http.StatusBadRequest, "invalid backup id")
		return
	}
	if err := c.store.DeleteBackup(r.Context(), id); err != nil {
		component.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Comp) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(r, "id")
	if !ok {
		component.Error(w, http.StatusBadRequest, "invalid template id")
		return
	}
	tpl, err := c.store.Template(r.Context(), id)
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, tpl)
}

func (c *Comp) anyRank(w http.ResponseWriter, r *http.Request) {
	id, err := c.store.AnyOldRank(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (c *Comp) findSessions(w http.ResponseWriter, r *http.Request) {
	ip, ua := r.URL.Query().Get("ip"), r.URL.Query().Get("ua")
	if ip == "" || ua == "" {
		component.Error(w, http.StatusBadRequest, "ip and ua are required")
		return
	}
	list, err := c.store.Sessions(r.Context(), ip, ua)
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, list)
}
