// Package ratelimit tracks per-credential Notion rate-limit state. A rate
// limit triggered by one client configuration blocks every configuration
// sharing the credential, so the external service never multiplies penalties.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for rate limit tracking.
var (
	notionRateLimitSignals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notion_rate_limit_signals_total",
		Help: "Total number of rate_limited responses received from Notion",
	})

	notionCooldownsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notion_rate_limit_cooldowns_active",
		Help: "Number of credentials currently in a rate-limit cooldown",
	})
)

// State is the shared rate-limit state for one credential.
//
// Invariant: while limited is true, cooldown is non-nil and closes exactly
// when the cooldown elapses; both fields reset together before the close, so
// a waiter released by the close always observes an idle state. The channel
// is the single-flight primitive: one resolver, any number of waiters.
type State struct {
	mu       sync.Mutex
	limited  bool
	cooldown chan struct{}
}

// Limited returns the pending cooldown channel, if any. Callers observing a
// pending cooldown must wait on it rather than issuing their own request.
func (s *State) Limited() (<-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldown, s.limited
}

// Begin records a rate-limit signal and returns the cooldown channel. Only
// the first signal starts a new cooldown; concurrent signals for the same
// credential join the one already pending.
func (s *State) Begin(d time.Duration) <-chan struct{} {
	notionRateLimitSignals.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limited {
		return s.cooldown
	}

	ch := make(chan struct{})
	s.limited = true
	s.cooldown = ch
	notionCooldownsActive.Inc()

	time.AfterFunc(d, func() {
		s.mu.Lock()
		s.limited = false
		s.cooldown = nil
		s.mu.Unlock()

		notionCooldownsActive.Dec()
		close(ch)
	})

	return ch
}
