//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (client IP, user-agent fingerprint, Accept-Language list, AJAX flag,
//  URL, and timestamp).  These structs are inert.  They contain no
//  pointers to database handles or large buffers, so they are safe to log
//  or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer        (UA parsing)
//  • golang.org/x/text/language      (Accept-Language parsing)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"golang.org/x/text/language"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties.
type UA struct {
	Raw       string // Entire User-Agent header
	Browser   string // "Chrome", "Firefox", "Safari", etc.
	Version   string // "124.0.6367"
	OS        string // "macOS", "Windows", "Android", "iOS", etc.
	OSVersion string // "14.5", "11", "10.0"
	Device    string // "Desktop", "Phone", "Tablet", "TV", ...
	Platform  string // "Mac", "Windows", "Linux", "iPad", "iPhone", ...
	IsBot     bool
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	IP        net.IP
	UA        UA
	Languages []string // lowercase Accept-Language tags, highest weight first
	AJAX      bool     // XMLHttpRequest header or is_json_ajax marker
	URL       *url.URL // Pointer copy, safe to dereference read-only
	Timestamp time.Time
}

// IPString is IP in text form, or "" when unknown.
func (ri *RequestInfo) IPString() string {
	if ri.IP == nil {
		return ""
	}
	return ri.IP.String()
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// NewContext stores ri in ctx.  Tests use it to skip the middleware.
func NewContext(ctx context.Context, ri *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, ri)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(uaHeader string) UA {
	u := uasurfer.Parse(uaHeader)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	return UA{
		Raw:       uaHeader,
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   trimVersion(u.Browser.Version),
		OS:        osName,
		OSVersion: trimVersion(u.OS.Version),
		Device:    deviceTypeToString(u.DeviceType),
		Platform:  strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:     u.IsBot(),
	}
}

// trimVersion builds "major.minor.patch" and removes trailing ".0".
func trimVersion(v uasurfer.Version) string {
	out := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
	for strings.HasSuffix(out, ".0") {
		out = strings.TrimSuffix(out, ".0")
	}
	return out
}

// deviceTypeToString maps uasurfer.DeviceType to a user-friendly string.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// acceptedLanguages returns the lowercase tags of an Accept-Language
// header ordered by weight, ties kept in header order.  Each entry is
// parsed on its own so one malformed entry drops only itself.
func acceptedLanguages(header string) []string {
	if header == "" {
		return nil
	}
	type weighted struct {
		tag string
		q   float32
	}
	var all []weighted
	for _, entry := range strings.Split(header, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		tags, qs, err := language.ParseAcceptLanguage(entry)
		if err != nil {
			continue
		}
		for i, t := range tags {
			if qs[i] <= 0 {
				continue
			}
			all = append(all, weighted{tag: strings.ToLower(t.String()), q: qs[i]})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].q > all[j].q })

	out := make([]string, 0, len(all))
	for _, w := range all {
		out = append(out, w.tag)
	}
	return out
}
