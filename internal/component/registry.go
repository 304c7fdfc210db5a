// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it ships, then calls Mount, which runs every component's
// Init with the shared Deps and lets it add routes to the root router.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/acl"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/session"
)

// Deps are the process-wide resources handed to components during Init.
type Deps struct {
	Repo     *cms.Repository
	ACL      acl.Querier
	Sessions *session.Manager
	Log      *zap.SugaredLogger
}

// Initializer is called once by Mount before Routes.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes() adds the component's endpoints to the shared router, e.g:
//
//	func (c *Comp) Routes(r chi.Router) {
//		r.Get("/api/pages", c.listPages)
//	}
type Component interface {
	Name() string
	Routes(r chi.Router)
	Initializer // embed so Mount can inject Deps
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component and adds its routes to r.
func Mount(r chi.Router, deps Deps) error {
	if deps.Log == nil {
		deps.Log = zap.S()
	}
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s: init: %w", c.Name(), err)
		}
		c.Routes(r)
		deps.Log.Infow("component mounted", "component", c.Name())
	}
	return nil
}
