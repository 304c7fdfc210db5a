// internal/bootstrap/bootstrap.go
//
// Per-request CMS bootstrap.
//
// Context
// -------
// Before any component runs, every page request performs two chores:
//
//  1. Visit logging.  Unless the request is AJAX, one visitor_log row per
//     (date, ip) is upserted with the latest Unix timestamp.
//  2. Language detection.  When enabled, the visitor's Accept-Language
//     list is matched against the supported map and the chosen display
//     name is persisted, into account_data for logged-in users or the
//     session bag for anonymous ones.
//
// Both chores are best-effort.  A failing write is logged at WARN and
// counted, and the request carries on.
//
// Workflow
// --------
//	chain: requestinfo.Enrich → sessions.LoadAndSave → sessions.LoadUser
//	       → bootstrap.Middleware → router
//
// Notes
// -----
//   - Middleware needs *requestinfo.RequestInfo in the context.  Without it
//     both chores are skipped.
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/auth"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/config"
	"github.com/yanizio/adeptcms/internal/language"
	"github.com/yanizio/adeptcms/internal/metrics"
	"github.com/yanizio/adeptcms/internal/requestinfo"
)

// Store is the slice of *cms.Repository the bootstrap writes through.
type Store interface {
	LogVisit(ctx context.Context, v cms.Visit) error
	SetUserLanguage(ctx context.Context, uid int64, lang string) error
}

// LanguageBag keeps an anonymous visitor's language.  *session.Manager
// satisfies it.
type LanguageBag interface {
	SetLanguage(ctx context.Context, lang string)
}

// Bootstrapper runs the per-request chores.  Safe for concurrent use.
type Bootstrapper struct {
	store  Store
	bag    LanguageBag
	visits config.Visits
	lang   config.Language
	names  map[string]string
	log    *zap.SugaredLogger
	now    func() time.Time
}

// New wires a Bootstrapper.  A nil log falls back to the global logger.
func New(store Store, bag LanguageBag, visits config.Visits, lang config.Language, log *zap.SugaredLogger) *Bootstrapper {
	if log == nil {
		log = zap.S()
	}
	return &Bootstrapper{
		store:  store,
		bag:    bag,
		visits: visits,
		lang:   lang,
		names:  lang.Names(),
		log:    log,
		now:    time.Now,
	}
}

// Middleware runs LogVisit and ApplyLanguage, then stores the chosen
// language in the request context for downstream handlers.
func (b *Bootstrapper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ri := requestinfo.FromContext(r.Context())
		if ri == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		b.LogVisit(ctx, ri)
		if lang := b.ApplyLanguage(ctx, ri); lang != "" {
			r = r.WithContext(WithLanguage(ctx, lang))
		}
		next.ServeHTTP(w, r)
	})
}

// LogVisit upserts today's visitor_log row for the caller.  AJAX requests,
// requests without a client IP, and disabled configs are skipped.
func (b *Bootstrapper) LogVisit(ctx context.Context, ri *requestinfo.RequestInfo) {
	if b.visits.Disabled || ri.AJAX {
		return
	}
	ip := ri.IPString()
	if ip == "" {
		b.log.Debugw("visit not logged, no client ip")
		return
	}

	if b.visits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.visits.Timeout)
		defer cancel()
	}

	now := b.now()
	err := b.store.LogVisit(ctx, cms.Visit{
		Date:      now.Format("2006-01-02"),
		IP:        ip,
		Timestamp: now.Unix(),
	})
	if err != nil {
		metrics.VisitLogFailuresTotal.Inc()
		b.log.Warnw("visit log failed", "ip", ip, "err", err)
		return
	}
	metrics.VisitsLoggedTotal.Inc()
}

// ApplyLanguage resolves and persists the visitor's language.  It returns
// the display name, or "" when detection is off.
func (b *Bootstrapper) ApplyLanguage(ctx context.Context, ri *requestinfo.RequestInfo) string {
	if !b.lang.Detect {
		return ""
	}

	name, src := language.Resolve(ri.Languages, b.names, b.lang.Default)
	metrics.LanguageResolvedTotal.WithLabelValues(name, string(src)).Inc()

	if uid, ok := auth.UserID(ctx); ok {
		if err := b.store.SetUserLanguage(ctx, uid, name); err != nil {
			b.log.Warnw("language persist failed", "uid", uid, "lang", name, "err", err)
		}
		return name
	}
	if b.bag != nil {
		b.bag.SetLanguage(ctx, name)
	}
	return name
}

type langKey struct{}

// WithLanguage stores the resolved display name in ctx.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// Language returns the name stored by WithLanguage, or "".
func Language(ctx context.Context) string {
	s, _ := ctx.Value(langKey{}).(string)
	return s
}
