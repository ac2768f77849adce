// Package reconcile diffs locally cached coursework assignments against the
// configured Notion database and creates pages for assignments not yet
// present. It talks to Notion exclusively through the resilient executor.
package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/batch"
	"github.com/canvas2notion/notion-sync/pkg/client"
	"github.com/canvas2notion/notion-sync/pkg/logging"
	"github.com/canvas2notion/notion-sync/pkg/storage"
)

// Storage keys used by the reconciler.
const (
	keySavedAssignments = "savedAssignments"
	keyLastCreated      = "lastCreated"
	keyLastSync         = "lastSync"
)

// Config holds everything one reconciliation run needs.
type Config struct {
	// Client carries the credential and connection options. A missing
	// credential aborts the run.
	Client client.Config

	// DatabaseID is the target Notion database. Required.
	DatabaseID string

	// Properties maps assignment fields to Notion property names/values.
	Properties Properties
}

// Reconciler computes and pushes the set of cached assignments missing from
// the Notion database.
type Reconciler struct {
	store    storage.Store
	clients  *client.Registry
	cfg      Config
	notifier UserNotifier
	logger   zerolog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// New creates a reconciler. A nil notifier falls back to the logging
// notifier.
func New(store storage.Store, clients *client.Registry, cfg Config, notifier UserNotifier) *Reconciler {
	if notifier == nil {
		notifier = NewLogUserNotifier()
	}
	return &Reconciler{
		store:    store,
		clients:  clients,
		cfg:      cfg,
		notifier: notifier,
		logger:   logging.NewLogger("reconciler"),
		now:      time.Now,
	}
}

// Run performs one reconciliation and returns the assignments whose pages
// were created. Missing credential or database id aborts with a blocking
// user alert and no partial effects. A failed or empty remote query degrades
// to "every cached assignment is new" rather than blocking the run.
func (r *Reconciler) Run(ctx context.Context) []Assignment {
	if r.cfg.Client.Auth == "" || r.cfg.DatabaseID == "" {
		r.notifier.Misconfigured("missing Notion integration key or database id")
		return nil
	}

	saved := r.loadSaved(ctx)
	c := r.clients.GetInstance(r.cfg.Client)
	remote := r.queryRemote(ctx, c)

	pending := diff(saved, remote)
	r.logger.Info().
		Int("cached", len(saved)).
		Int("remote", len(remote)).
		Int("new", len(pending)).
		Msg("Computed assignment diff")

	if len(pending) == 0 {
		return []Assignment{}
	}

	created := r.createAll(ctx, c, pending)
	r.persistResult(ctx, created)
	return created
}

// loadSaved returns the cached assignments, flattened across courses, whose
// due date is still in the future.
func (r *Reconciler) loadSaved(ctx context.Context) []Assignment {
	values, err := r.store.Get(ctx, map[string]string{keySavedAssignments: "{}"})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not read saved assignments")
		return nil
	}

	saved, err := DecodeSaved(values[keySavedAssignments])
	if err != nil {
		r.logger.Warn().Err(err).Msg("Saved assignment document is malformed")
		return nil
	}

	now := r.now()
	var out []Assignment
	for _, a := range saved.Flatten() {
		if a.DueAfter(now) {
			out = append(out, a)
		}
	}
	return out
}

// queryRemote fetches the pages previously imported into the database. An
// absent response yields nil, which the diff treats as "nothing exists yet".
func (r *Reconciler) queryRemote(ctx context.Context, c *client.Client) []RemotePage {
	resp := c.QueryDatabase(ctx, r.cfg.DatabaseID, r.cfg.Properties.CanvasFilter())
	if resp == nil {
		r.logger.Warn().Msg("Remote query returned nothing, treating all cached assignments as new")
		return nil
	}
	return r.cfg.Properties.RemotePages(resp.Results)
}

// diff keeps the assignments whose URL matches no remote page.
func diff(saved []Assignment, remote []RemotePage) []Assignment {
	if len(remote) == 0 {
		return saved
	}

	var out []Assignment
	for _, a := range saved {
		exists := false
		for _, page := range remote {
			if page.URL == a.URL {
				exists = true
				break
			}
		}
		if !exists {
			out = append(out, a)
		}
	}
	return out
}

// createAll creates one page per assignment through the worker pool.
// Failures are counted and reported in a single aggregate alert; no per-item
// retry. Returns the assignments that were created.
func (r *Reconciler) createAll(ctx context.Context, c *client.Client, assignments []Assignment) []Assignment {
	created, failed := batch.Each(ctx, batch.DefaultConfig(), assignments,
		func(ctx context.Context, a Assignment) (Assignment, bool) {
			page := c.CreatePage(ctx, r.cfg.Properties.PageParams(a, r.cfg.DatabaseID))
			if page == nil {
				r.logger.Error().
					Str("course", a.Course).
					Str("assignment", a.Name).
					Msg("Error creating assignment page")
				return Assignment{}, false
			}
			r.logger.Info().
				Str("course", a.Course).
				Str("assignment", a.Name).
				Msg("Created assignment page")
			return a, true
		})

	if failed > 0 {
		r.notifier.CreationErrors(failed)
	}
	return created
}

// persistResult records the outcome of the run for the UI side.
func (r *Reconciler) persistResult(ctx context.Context, created []Assignment) {
	encoded, err := json.Marshal(created)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not encode run result")
		return
	}

	err = r.store.Set(ctx, map[string]string{
		keyLastCreated: string(encoded),
		keyLastSync:    r.now().Format(time.RFC3339),
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not persist run result")
	}
}
