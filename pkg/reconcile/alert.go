package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/logging"
)

// UserNotifier surfaces user-facing alerts from a reconciliation run.
type UserNotifier interface {
	// Misconfigured reports a fatal configuration problem. The run aborts
	// with no partial work attempted.
	Misconfigured(reason string)

	// CreationErrors reports the aggregate number of page creations that
	// failed in a run. Emitted at most once per run, after the batch.
	CreationErrors(count int)
}

type logUserNotifier struct {
	logger zerolog.Logger
}

// NewLogUserNotifier returns a UserNotifier that surfaces alerts as logs.
func NewLogUserNotifier() UserNotifier {
	return &logUserNotifier{logger: logging.NewLogger("user-alert")}
}

func (n *logUserNotifier) Misconfigured(reason string) {
	n.logger.Error().
		Str("reason", reason).
		Msg("Invalid Notion configuration, aborting sync run")
}

func (n *logUserNotifier) CreationErrors(count int) {
	n.logger.Error().
		Int("failed", count).
		Msg("Some assignment pages could not be created")
}
