// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits high in the chain, right after panic recovery and
before sessions, visit logging, and language detection.  For every
request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Takes the client IP from `r.RemoteAddr`.  Only when that peer is a
     trusted proxy are X-Forwarded-For (walked right to left, skipping
     trusted hops) and X-Real-IP consulted.
  3. Flags AJAX calls (`X-Requested-With: XMLHttpRequest` or an
     `is_json_ajax` query/form marker).
  4. Stores a `*RequestInfo` value in `request.Context` under an
     unexported key, so bootstrap steps and components can read it
     without reparsing.

Instrumentation
---------------
At debug level each invocation logs a span containing the client IP,
browser family, device class, bot flag, first language, and path.

Notes
-----
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AJAXMarker is the query or form field that flags a JSON-over-AJAX call.
const AJAXMarker = "is_json_ajax"

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *RequestInfo and forwards.
// Forwarding headers are believed only from peers in trusted.
func Enrich(trusted TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return enrich(trusted, next)
	}
}

func enrich(trusted TrustedProxies, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			IP:        clientIP(r, trusted),
			UA:        parseUA(r.UserAgent()),
			Languages: acceptedLanguages(r.Header.Get("Accept-Language")),
			AJAX:      isAJAX(r),
			URL:       r.URL,
			Timestamp: time.Now().UTC(),
		}

		var first string
		if len(info.Languages) > 0 {
			first = info.Languages[0]
		}
		zap.S().Debugw("request info",
			"ip", info.IPString(),
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"lang", first,
			"ajax", info.AJAX,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), info)))
	})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// TrustedProxies is the set of peers allowed to report the client address.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts plain IPs and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("requestinfo: trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("requestinfo: trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

// Contains reports whether a is one of the trusted peers.
func (t TrustedProxies) Contains(a netip.Addr) bool {
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address from r.RemoteAddr ("ip:port").  When
// the peer is trusted, the right-most untrusted X-Forwarded-For hop wins,
// then X-Real-IP.
func clientIP(r *http.Request, trusted TrustedProxies) net.IP {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	if !trusted.Contains(peer) {
		return toIP(peer)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		var leftmost netip.Addr
		for i := len(hops) - 1; i >= 0; i-- {
			a, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				continue
			}
			if !trusted.Contains(a) {
				return toIP(a)
			}
			leftmost = a
		}
		if leftmost.IsValid() {
			return toIP(leftmost)
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if a, err := netip.ParseAddr(strings.TrimSpace(xrip)); err == nil {
			return toIP(a)
		}
	}
	return toIP(peer)
}

func toIP(a netip.Addr) net.IP {
	return net.IP(a.Unmap().AsSlice())
}

// isAJAX reports whether r is an XHR or carries the AJAX marker.  Only the
// query string is inspected for the marker so the body is never consumed.
func isAJAX(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return r.URL.Query().Has(AJAXMarker)
}
