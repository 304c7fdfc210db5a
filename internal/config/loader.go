// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `ADEPT_`, where `__` maps to “.”
     (e.g., `ADEPT_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
enriched with the runtime root path, defaulted, and validated.  Callers
load once at boot and pass sections down; nothing reads config globally.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span : final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Language codes are lower-cased on load so YAML may use `en` or `EN`.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const envPrefix = "ADEPT_"

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ADEPT_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("ADEPT_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load resolves the root directory and calls LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(rootDir())
}

// LoadFrom reads .env, YAML, and env overrides below root and validates
// the result.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: %s: %w", yamlPath, err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: ADEPT_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"db_driver", cfg.Database.Driver,
		"language_detect", cfg.Language.Detect,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps ADEPT_DATABASE__MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

func applyDefaults(c *Config) {
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 120 * time.Second
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Session.Lifetime == 0 {
		c.Session.Lifetime = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "adept_session"
	}
	if c.Session.CleanupInterval == 0 {
		c.Session.CleanupInterval = 5 * time.Minute
	}
	if c.Visits.Timeout == 0 {
		c.Visits.Timeout = 500 * time.Millisecond
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.Language.Default = strings.ToLower(c.Language.Default)
	if len(c.Language.Supported) > 0 {
		lowered := make(map[string]SupportedLanguage, len(c.Language.Supported))
		for code, s := range c.Language.Supported {
			lowered[strings.ToLower(code)] = s
		}
		c.Language.Supported = lowered
	}
}
