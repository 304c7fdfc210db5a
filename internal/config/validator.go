// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never runs
// with partial, malformed, or missing configuration.
//
// Besides the struct tags, one cross-field rule is registered here: when
// language detection is on, the default code must be one of the supported
// codes, otherwise resolution could fall back to a language nobody
// configured.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
//   • Section dividers use the simple comment style requested.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(languageRules, Language{})
	return val
}

func languageRules(sl validator.StructLevel) {
	l := sl.Current().Interface().(Language)
	if !l.Detect {
		return
	}
	if _, ok := l.Supported[strings.ToLower(l.Default)]; !ok {
		sl.ReportError(l.Default, "Default", "default", "in_supported", "")
	}
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
