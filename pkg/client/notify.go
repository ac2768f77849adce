package client

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/logging"
)

// Notifier receives operator-facing alerts from the executor. Implementations
// must not block; the executor calls them on the request path.
type Notifier interface {
	// RateLimited is invoked when a request has to wait out a rate-limit
	// cooldown. wait is zero when the caller joins a cooldown that was
	// already in flight.
	RateLimited(wait time.Duration)
}

type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier returns a Notifier that surfaces alerts as warning logs.
func NewLogNotifier() Notifier {
	return &logNotifier{logger: logging.NewLogger("rate-limit-alert")}
}

func (n *logNotifier) RateLimited(wait time.Duration) {
	event := n.logger.Warn()
	if wait > 0 {
		event = event.Dur("retry_after", wait)
	}
	event.Msg("Notion is rate limiting requests; waiting for the cooldown before resuming")
}
