package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/config"
	"github.com/yanizio/adeptcms/internal/requestinfo"
	"github.com/yanizio/adeptcms/internal/session"
)

type fakeStore struct {
	mu        sync.Mutex
	visits    []cms.Visit
	languages map[int64]string
	visitErr  error
	langErr   error
}

func (f *fakeStore) LogVisit(_ context.Context, v cms.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visitErr != nil {
		return f.visitErr
	}
	f.visits = append(f.visits, v)
	return nil
}

func (f *fakeStore) SetUserLanguage(_ context.Context, uid int64, lang string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.langErr != nil {
		return f.langErr
	}
	if f.languages == nil {
		f.languages = map[int64]string{}
	}
	f.languages[uid] = lang
	return nil
}

var langCfg = config.Language{
	Detect:  true,
	Default: "en",
	Supported: map[string]config.SupportedLanguage{
		"en": {Name: "english"},
		"de": {Name: "german"},
	},
}

func newBootstrapper(store Store, bag LanguageBag, lang config.Language) *Bootstrapper {
	b := New(store, bag, config.Visits{Timeout: time.Second}, lang, zap.NewNop().Sugar())
	b.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local) }
	return b
}

func info(ip string, langs ...string) *requestinfo.RequestInfo {
	return &requestinfo.RequestInfo{IP: net.ParseIP(ip), Languages: langs}
}

func TestLogVisit(t *testing.T) {
	store := &fakeStore{}
	b := newBootstrapper(store, nil, config.Language{})

	b.LogVisit(context.Background(), info("203.0.113.7"))

	require.Len(t, store.visits, 1)
	assert.Equal(t, cms.Visit{
		Date:      "2026-10-15",
		IP:        "203.0.113.7",
		Timestamp: b.now().Unix(),
	}, store.visits[0])
}

func TestLogVisit_SkipsAJAXAndDisabled(t *testing.T) {
	store := &fakeStore{}
	b := newBootstrapper(store, nil, config.Language{})

	ri := info("203.0.113.7")
	ri.AJAX = true
	b.LogVisit(context.Background(), ri)

	b.visits.Disabled = true
	b.LogVisit(context.Background(), info("203.0.113.7"))

	b.visits.Disabled = false
	b.LogVisit(context.Background(), info(""))

	assert.Empty(t, store.visits)
}

func TestLogVisit_FailureIsSwallowed(t *testing.T) {
	store := &fakeStore{visitErr: errors.New("table locked")}
	b := newBootstrapper(store, nil, config.Language{})

	assert.NotPanics(t, func() {
		b.LogVisit(context.Background(), info("203.0.113.7"))
	})
}

func TestApplyLanguage_Anonymous(t *testing.T) {
	sessions := session.New(config.Session{}, nil)
	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)

	store := &fakeStore{}
	b := newBootstrapper(store, sessions, langCfg)

	got := b.ApplyLanguage(ctx, info("203.0.113.7", "fr", "de", "en"))
	assert.Equal(t, "german", got)
	assert.Equal(t, "german", sessions.Language(ctx))
	assert.Empty(t, store.languages)
}

func TestApplyLanguage_User(t *testing.T) {
	sessions := session.New(config.Session{}, nil)
	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)
	ctx = auth.WithUser(ctx, 7)

	store := &fakeStore{}
	b := newBootstrapper(store, sessions, langCfg)

	got := b.ApplyLanguage(ctx, info("203.0.113.7", "es"))
	assert.Equal(t, "english", got)
	assert.Equal(t, map[int64]string{7: "english"}, store.languages)
	assert.Empty(t, sessions.Language(ctx))
}

func TestApplyLanguage_PersistFailureStillResolves(t *testing.T) {
	store := &fakeStore{langErr: errors.New("gone")}
	b := newBootstrapper(store, nil, langCfg)

	got := b.ApplyLanguage(auth.WithUser(context.Background(), 7), info("", "de"))
	assert.Equal(t, "german", got)
}

func TestApplyLanguage_DetectOff(t *testing.T) {
	store := &fakeStore{}
	b := newBootstrapper(store, nil, config.Language{})

	assert.Empty(t, b.ApplyLanguage(context.Background(), info("", "de")))
	assert.Empty(t, store.languages)
}

func TestMiddleware(t *testing.T) {
	sessions := session.New(config.Session{}, nil)
	store := &fakeStore{}
	b := newBootstrapper(store, sessions, langCfg)

	var lang string
	h := requestinfo.Enrich(nil)(sessions.LoadAndSave(b.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang = Language(r.Context())
		}),
	)))

	r := httptest.NewRequest(http.MethodGet, "/news", nil)
	r.RemoteAddr = "203.0.113.7:4444"
	r.Header.Set("Accept-Language", "de-DE, de;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "german", lang)
	require.Len(t, store.visits, 1)
	assert.Equal(t, "203.0.113.7", store.visits[0].IP)
}

func TestMiddleware_WithoutRequestInfo(t *testing.T) {
	store := &fakeStore{}
	b := newBootstrapper(store, nil, langCfg)

	called := false
	b.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Empty(t, store.visits)
}
