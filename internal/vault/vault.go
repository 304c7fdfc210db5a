// internal/vault/vault.go
//
// Vault client wrapper for Adept CMS.
//
// Context
// -------
//   - Provides a concurrency-safe client around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, simple KV-v2 helpers, and per-key caching.
//   - Resolves `vault:<mount/path>#<key>` references found in configuration,
//     today only `database.password`.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, zap.S())              // during boot.
//  2. pw,  err := cli.Resolve(ctx, cfg.Database.Password, ttl)
//  3. pw,  err := cli.GetKV(ctx, path, key, ttl)       // anywhere in the app.
//
// Notes
// -----
//   - Literal values pass through Resolve untouched, so a deployment without
//     Vault never needs to construct a Client.
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RefPrefix marks a configuration value that must be read from Vault.
const RefPrefix = "vault:"

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Create once at startup.  Zero value
// is invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
	sfg     singleflight.Group
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop
// bound to ctx.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
func New(ctx context.Context, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		log:   log,
		cache: make(map[string]cached),
	}

	go c.renewLoop(ctx)

	return c, nil
}

// IsRef reports whether s is a `vault:` reference.
func IsRef(s string) bool { return strings.HasPrefix(s, RefPrefix) }

// ParseRef splits `vault:<mount/path>#<key>` into its path and key.
func ParseRef(ref string) (path, key string, err error) {
	if !IsRef(ref) {
		return "", "", fmt.Errorf("vault: %q is not a vault reference", ref)
	}
	path, key, ok := strings.Cut(strings.TrimPrefix(ref, RefPrefix), "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("vault: reference %q must look like vault:<path>#<key>", ref)
	}
	return path, key, nil
}

// Resolve returns value unchanged unless it is a `vault:` reference, in
// which case the referenced key is fetched through GetKV.
func (c *Client) Resolve(ctx context.Context, value string, ttl time.Duration) (string, error) {
	if !IsRef(value) {
		return value, nil
	}
	path, key, err := ParseRef(value)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, path, key, ttl)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.  Subsequent callers within the TTL receive the
// cached copy.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	// Concurrent misses for the same key share one round-trip.
	v, err, _ := c.sfg.Do(canonical, func() (any, error) {
		return c.fetch(ctx, secretPath, key)
	})
	if err != nil {
		return "", err
	}
	sval := v.(string)

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

func (c *Client) fetch(ctx context.Context, secretPath, key string) (string, error) {
	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: value at %s#%s is not a string", secretPath, key)
	}
	return sval, nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		// Probe the current token.
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warnw("vault token renew-self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Infow("vault token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			c.log.Warnw("vault lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		c.watch(ctx, watcher)
		backoff(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher stops or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
