// components/content/content.go
//
// Content component: public, read-only JSON over the content repository.
//
// Routes
// ------
//	GET /api/pages                         every page
//	GET /api/pages/{identifier}            one page, 404 when unknown
//	GET /api/menu?type=top|side|bottom     menu links (any other type: all)
//	GET /api/sideboxes?location=&page=     sideboxes enabled on a page
//	GET /api/slides                        image slider
//	GET /api/realms                        realms (database names hidden)
//	GET /api/realms/{id}                   one realm
package content

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/component"
)

// Store is the part of *cms.Repository this component reads.
type Store interface {
	Pages(ctx context.Context) ([]cms.Page, error)
	Page(ctx context.Context, identifier string) (*cms.Page, error)
	Links(ctx context.Context, location string) ([]cms.MenuLink, error)
	Sideboxes(ctx context.Context, location, page string) ([]cms.Sidebox, error)
	Slides(ctx context.Context) ([]cms.Slide, error)
	Realms(ctx context.Context) ([]cms.Realm, error)
	Realm(ctx context.Context, id int64) (*cms.Realm, error)
}

// compile-time assertions
var (
	_ component.Component = (*Comp)(nil)
	_ Store               = (*cms.Repository)(nil)
)

// Comp implements component.Component.
type Comp struct {
	store Store
}

func init() { component.Register(&Comp{}) }

func (c *Comp) Name() string { return "content" }

func (c *Comp) Init(d component.Deps) error {
	c.store = d.Repo
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	r.Get("/api/pages", c.listPages)
	r.Get("/api/pages/{identifier}", c.getPage)
	r.Get("/api/menu", c.listMenu)
	r.Get("/api/sideboxes", c.listSideboxes)
	r.Get("/api/slides", c.listSlides)
	r.Get("/api/realms", c.listRealms)
	r.Get("/api/realms/{id}", c.getRealm)
}

func (c *Comp) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := c.store.Pages(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, pages)
}

func (c *Comp) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := c.store.Page(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, page)
}

func (c *Comp) listMenu(w http.ResponseWriter, r *http.Request) {
	links, err := c.store.Links(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, links)
}

func (c *Comp) listSideboxes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	boxes, err := c.store.Sideboxes(r.Context(), q.Get("location"), q.Get("page"))
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, boxes)
}

func (c *Comp) listSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := c.store.Slides(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, slides)
}

func (c *Comp) listRealms(w http.ResponseWriter, r *http.Request) {
	realms, err := c.store.Realms(r.Context())
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, realms)
}

func (c *Comp) getRealm(w http.ResponseWriter, r *http.Request) {
	id, ok := component.IDParam(r, "id")
	if !ok {
		component.Error(w, http.StatusBadRequest, "invalid realm id")
		return
	}
	realm, err := c.store.Realm(r.Context(), id)
	if err != nil {
		component.Fail(w, r, err)
		return
	}
	component.JSON(w, http.StatusOK, realm)
}
