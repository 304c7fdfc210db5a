// internal/config/model.go
//
// Typed configuration model for Adept CMS.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `ADEPT_`-prefixed environment overrides – highest precedence.
//
// A database password of the form `vault:<mount/path>#<key>` is kept
// verbatim here.  cmd/web resolves it through internal/vault before the
// pool is opened.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`

	// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For
	// and X-Real-IP headers are believed.  Empty means none.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr|ip"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The DSN stays in YAML so operators can tweak host, port, or flags
// without touching Vault.  Password is either a literal or a `vault:` ref
// and is injected into MySQL DSNs at open time.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"omitempty,oneof=mysql mariadb sqlite sqlite3"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	Retries         int           `koanf:"retries"           validate:"gte=0"`
	RetryBackoff    time.Duration `koanf:"retry_backoff"     validate:"gte=0"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

//
// Language section
//

// SupportedLanguage is one entry of the supported-language map.  The map
// key is the lowercase code matched against Accept-Language tags.
type SupportedLanguage struct {
	Name string `koanf:"name" validate:"required"`
}

// Language controls per-request language detection.
type Language struct {
	Detect    bool                         `koanf:"detect"`
	Default   string                       `koanf:"default"   validate:"required_if=Detect true"`
	Supported map[string]SupportedLanguage `koanf:"supported" validate:"omitempty,dive"`
}

// Names flattens Supported into code → display name.
func (l Language) Names() map[string]string {
	out := make(map[string]string, len(l.Supported))
	for code, s := range l.Supported {
		out[code] = s.Name
	}
	return out
}

//
// Session section
//

// Session tunes the scs session manager and its shared database store.
type Session struct {
	Lifetime        time.Duration `koanf:"lifetime"         validate:"gte=0"`
	CookieName      string        `koanf:"cookie_name"`
	Secure          bool          `koanf:"secure"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"gte=0"`
}

//
// Visits section
//

// Visits controls the per-request visitor log write.  Logging is on
// unless Disabled is set.
type Visits struct {
	Disabled bool          `koanf:"disabled"`
	Timeout  time.Duration `koanf:"timeout"  validate:"gte=0"`
}

//
// Log section
//

// Log selects the minimum level and whether to tee to stdout.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Tee   bool   `koanf:"tee"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime and never set in YAML or env.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Language Language `koanf:"language"`
	Session  Session  `koanf:"session"`
	Visits   Visits   `koanf:"visits"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
