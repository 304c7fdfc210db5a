// cmd/web/main.go
//
// Adept CMS – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (.env → conf/global.yaml → ADEPT_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve a `vault:` database password, when configured.
//
//  4. Open the site database (ping with retries) and, when
//     database.auto_migrate is set, apply embedded migrations.
//
//  5. Build the content repository, the session manager over the shared
//     sessions table, and the per-request bootstrapper, then mount every
//     registered component.
//
//  6. Serve until SIGINT or SIGTERM, then drain in-flight requests.  Expired
//     sessions are swept in the background meanwhile.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/yanizio/adeptcms/components/account"
	_ "github.com/yanizio/adeptcms/components/admin"
	_ "github.com/yanizio/adeptcms/components/content"
	"github.com/yanizio/adeptcms/internal/bootstrap"
	"github.com/yanizio/adeptcms/internal/cms"
	"github.com/yanizio/adeptcms/internal/component"
	"github.com/yanizio/adeptcms/internal/config"
	"github.com/yanizio/adeptcms/internal/database"
	"github.com/yanizio/adeptcms/internal/logger"
	"github.com/yanizio/adeptcms/internal/server"
	"github.com/yanizio/adeptcms/internal/session"
	"github.com/yanizio/adeptcms/internal/vault"
)

const (
	shutdownGrace = 30 * time.Second
	secretTTL     = 10 * time.Minute
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.S().Errorw("adept cms stopped", "err", err)
		_ = zap.S().Sync()
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Config and logger ───────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logOut, err := logger.New(logger.Options{
		Root:  cfg.Paths.Root,
		Level: cfg.Log.Level,
		Tee:   cfg.Log.Tee || runningInTTY(),
	})
	if err != nil {
		return err
	}
	defer logOut.Sync()

	//
	// ── 2.  Secrets ─────────────────────────────────────────────────────
	//
	password := cfg.Database.Password
	if vault.IsRef(password) {
		vc, err := vault.New(ctx, logOut)
		if err != nil {
			return err
		}
		if password, err = vc.Resolve(ctx, password, secretTTL); err != nil {
			return err
		}
		logOut.Infow("database password resolved from vault")
	}

	//
	// ── 3.  Database ────────────────────────────────────────────────────
	//
	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, database.Options{
		Dialect:         dialect,
		DSN:             cfg.Database.DSN,
		Password:        password,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Retries:         cfg.Database.Retries,
		RetryBackoff:    cfg.Database.RetryBackoff,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logOut.Infow("database online", "driver", dialect)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			return err
		}
	}

	//
	// ── 4.  CMS wiring ──────────────────────────────────────────────────
	//
	repo := cms.New(db, dialect)
	sessionStore := session.NewStore(db, dialect)
	sessions := session.New(cfg.Session, sessionStore)
	boot := bootstrap.New(repo, sessions, cfg.Visits, cfg.Language, logOut)

	handler, err := server.NewRouter(server.RouterDeps{
		HTTP:      cfg.HTTP,
		Sessions:  sessions,
		Bootstrap: boot,
		Components: component.Deps{
			Repo:     repo,
			ACL:      db,
			Sessions: sessions,
			Log:      logOut,
		},
		Health: db.PingContext,
	})
	if err != nil {
		return err
	}
	srv := server.New(cfg.HTTP, handler)

	//
	// ── 5.  Serve and drain ─────────────────────────────────────────────
	//
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessionStore.Cleanup(gctx, cfg.Session.CleanupInterval, logOut)
	})
	g.Go(func() error {
		logOut.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutting down", "grace", shutdownGrace)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
