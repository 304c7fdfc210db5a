// internal/server/router.go
//
// Root HTTP router.
//
// The router is built once at boot.  Operational endpoints sit outside
// the CMS chain so probes and scrapes never log visits or touch sessions.
//
// Chain for everything else (outermost first):
//
//	Recoverer → Security → ForceHTTPS → requestinfo.Enrich
//	→ sessions.LoadAndSave → sessions.LoadUser → bootstrap → components
//
// Unknown paths answer with a JSON 404.

package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/adeptcms/internal/bootstrap"
	"github.com/yanizio/adeptcms/internal/component"
	"github.com/yanizio/adeptcms/internal/config"
	"github.com/yanizio/adeptcms/internal/middleware"
	"github.com/yanizio/adeptcms/internal/requestinfo"
	"github.com/yanizio/adeptcms/internal/session"
)

// RouterDeps collects what NewRouter wires together.
type RouterDeps struct {
	HTTP       config.HTTP
	Sessions   *session.Manager
	Bootstrap  *bootstrap.Bootstrapper
	Components component.Deps
	Health     func(ctx context.Context) error // nil skips the check
}

// NewRouter builds the process router and mounts every registered component.
func NewRouter(d RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if d.Health != nil {
			if err := d.Health(req.Context()); err != nil {
				component.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		component.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	trusted, err := requestinfo.ParseTrustedProxies(d.HTTP.TrustedProxies)
	if err != nil {
		return nil, err
	}

	var mountErr error
	r.Group(func(g chi.Router) {
		g.Use(middleware.ForceHTTPS(d.HTTP.ForceHTTPS))
		g.Use(requestinfo.Enrich(trusted))
		g.Use(d.Sessions.LoadAndSave)
		g.Use(d.Sessions.LoadUser)
		g.Use(d.Bootstrap.Middleware)
		mountErr = component.Mount(g, d.Components)
	})
	if mountErr != nil {
		return nil, mountErr
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		component.Error(w, http.StatusNotFound, "not found")
	})
	return r, nil
}
