// internal/middleware/security.go
//
// Security-header middleware.
//
// Seeds standard headers on every response:
//
//   • Strict-Transport-Security  –  only when the request arrived over HTTPS
//   • Content-Security-Policy   –  deny-all; the API serves JSON only
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP, since anything added after the
//   handler writes is lost.  Handlers may still override a value with Set.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		csp   = "default-src 'none'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if isHTTPS(r) {
			h.Set("Strict-Transport-Security", hsts)
		}
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)

		next.ServeHTTP(w, r)
	})
}
