// Package language picks the display language for a visitor.
//
// Resolve walks the client's accepted tags in preference order and returns
// the display name of the first one configured as supported.  When none
// match, the default code's name is used.  Matching is exact on lowercase
// codes, so "en-us" does not match a supported "en".
package language

import "strings"

// Source tells callers which branch produced the result.
type Source string

const (
	SourceAccepted Source = "accepted"
	SourceDefault  Source = "default"
)

// Resolve returns the display name for the visitor and where it came from.
// supported maps lowercase code to display name.  A default code missing
// from supported is returned as-is.
func Resolve(accepted []string, supported map[string]string, defaultCode string) (string, Source) {
	for _, code := range accepted {
		if name, ok := supported[strings.ToLower(code)]; ok {
			return name, SourceAccepted
		}
	}
	def := strings.ToLower(defaultCode)
	if name, ok := supported[def]; ok {
		return name, SourceDefault
	}
	return defaultCode, SourceDefault
}
