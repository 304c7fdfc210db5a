// internal/server/timeouts.go
//
// HTTP server helper with configurable timeouts.
//
//   • ReadTimeout   – abort slow-loris headers
//   • WriteTimeout  – cap total response time
//   • IdleTimeout   – close keep-alives on idle clients
//
// Zero values in config.HTTP fall back to the defaults below, so tests and
// tools can pass an empty struct.

package server

import (
	"net/http"
	"time"

	"github.com/yanizio/adeptcms/internal/config"
)

const (
	defaultRead  = 10 * time.Second
	defaultWrite = 15 * time.Second
	defaultIdle  = 60 * time.Second
)

// New constructs an *http.Server for cfg.ListenAddr.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: orDefault(cfg.ReadTimeout, defaultRead),
		ReadTimeout:       orDefault(cfg.ReadTimeout, defaultRead),
		WriteTimeout:      orDefault(cfg.WriteTimeout, defaultWrite),
		IdleTimeout:       orDefault(cfg.IdleTimeout, defaultIdle),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
