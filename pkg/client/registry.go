package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/logging"
	"github.com/canvas2notion/notion-sync/pkg/notion"
	"github.com/canvas2notion/notion-sync/pkg/ratelimit"
)

// Registry is the single point of truth for client instances and the state
// they share. Instances are keyed by config fingerprint; rate-limit state and
// credential validation results are keyed by credential, so every
// configuration using the same secret shares them. The registry is
// constructed once at startup and injected; its contents live for the
// process lifetime.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Client
	validated map[string]bool

	limits   *ratelimit.Registry
	notifier Notifier
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry. A nil notifier falls back to the
// logging notifier.
func NewRegistry(notifier Notifier) *Registry {
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	return &Registry{
		instances: make(map[string]*Client),
		validated: make(map[string]bool),
		limits:    ratelimit.NewRegistry(),
		notifier:  notifier,
		logger:    logging.NewLogger("client-registry"),
	}
}

// GetInstance returns the client for a configuration, constructing and
// registering it on first use. Always succeeds.
func (r *Registry) GetInstance(cfg Config) *Client {
	key := cfg.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.instances[key]; ok {
		return c
	}

	c := &Client{
		api: notion.NewAPI(notion.Options{
			Auth:    cfg.Auth,
			BaseURL: cfg.BaseURL,
			Version: cfg.Version,
			Timeout: cfg.Timeout,
		}),
		limit:    r.limits.For(cfg.Auth),
		notifier: r.notifier,
		config:   cfg,
		logger: logging.NewLogger("notion-client").With().
			Str("credential", notion.FingerprintCredential(cfg.Auth)).Logger(),
	}
	r.instances[key] = c

	r.logger.Debug().
		Str("credential", notion.FingerprintCredential(cfg.Auth)).
		Int("instances", len(r.instances)).
		Msg("Registered new client instance")

	return c
}

// ValidateCredential reports whether the client's credential authenticates.
// The first call per credential issues one retrieve-self request through the
// executor (subject to the usual rate-limit handling); the outcome is then
// memoized for the process lifetime, so a revoked credential is only
// re-checked after a restart.
func (r *Registry) ValidateCredential(ctx context.Context, c *Client) bool {
	r.mu.Lock()
	if valid, ok := r.validated[c.config.Auth]; ok {
		r.mu.Unlock()
		return valid
	}
	r.mu.Unlock()

	valid := c.RetrieveSelf(ctx) != nil

	r.mu.Lock()
	r.validated[c.config.Auth] = valid
	r.mu.Unlock()

	r.logger.Info().
		Str("credential", notion.FingerprintCredential(c.config.Auth)).
		Bool("valid", valid).
		Msg("Credential validation result cached")

	return valid
}
