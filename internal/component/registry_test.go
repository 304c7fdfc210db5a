package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/cms"
)

type stubComp struct {
	name    string
	initErr error
	inited  bool
}

func (s *stubComp) Name() string { return s.name }
func (s *stubComp) Init(Deps) error {
	s.inited = true
	return s.initErr
}
func (s *stubComp) Routes(r chi.Router) {
	r.Get("/"+s.name, func(w http.ResponseWriter, _ *http.Request) { JSON(w, http.StatusOK, s.name) })
}

func withRegistry(t *testing.T, comps ...Component) {
	t.Helper()
	mu.Lock()
	saved := registry
	registry = map[string]Component{}
	mu.Unlock()
	for _, c := range comps {
		Register(c)
	}
	t.Cleanup(func() {
		mu.Lock()
		registry = saved
		mu.Unlock()
	})
}

func TestMount(t *testing.T) {
	a, b := &stubComp{name: "b"}, &stubComp{name: "a"}
	withRegistry(t, a, b)

	names := []string{}
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"a", "b"}, names)

	r := chi.NewRouter()
	require.NoError(t, Mount(r, Deps{Log: zap.NewNop().Sugar()}))
	assert.True(t, a.inited && b.inited)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"a"`, rec.Body.String())
}

func TestMount_InitError(t *testing.T) {
	withRegistry(t, &stubComp{name: "broken", initErr: errors.New("nope")})
	assert.Error(t, Mount(chi.NewRouter(), Deps{Log: zap.NewNop().Sugar()}))
}

func TestFail(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)

	rec := httptest.NewRecorder()
	Fail(rec, r, cms.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	Fail(rec, r, errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
