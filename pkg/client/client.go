// Package client provides the resilient Notion request executor and the
// registry that deduplicates client instances per credential and
// configuration. The executor handles rate-limit coordination, retry-after
// backoff and cursor pagination; callers observe success or absence, never
// errors.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/canvas2notion/notion-sync/pkg/notion"
	"github.com/canvas2notion/notion-sync/pkg/ratelimit"
)

// Prometheus metrics for executor operations.
var (
	notionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notion_requests_total",
		Help: "Total Notion requests by operation and status",
	}, []string{"operation", "status"})

	notionRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notion_request_duration_seconds",
		Help:    "Notion request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	notionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notion_errors_total",
		Help: "Total Notion request failures by kind",
	}, []string{"kind"})

	notionRateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notion_rate_limit_waits_total",
		Help: "Total number of requests that waited on a rate-limit cooldown",
	})
)

// Client executes Notion operations for one configuration. All instances
// sharing a credential share one rate-limit state, obtained from the
// registry. Construct instances through Registry.GetInstance.
type Client struct {
	api      *notion.API
	limit    *ratelimit.State
	notifier Notifier
	config   Config
	logger   zerolog.Logger
}

// execute performs one logical operation with rate-limit handling.
//
// If the credential is cooling down, the call alerts the operator and joins
// the pending cooldown before doing anything. A rate_limited failure starts
// (or joins) a cooldown sized by the Retry-After header and then re-executes;
// repeated limiting loops again, with no retry cap. Every other failure is
// logged and collapses to absence. Cooldown waits are never cancelled: the
// executor always awaits operations and cooldowns to completion.
func execute[T any](ctx context.Context, c *Client, operation string, fn func(context.Context) (*T, error)) *T {
	for {
		if cooldown, pending := c.limit.Limited(); pending {
			c.notifier.RateLimited(0)
			notionRateLimitWaits.Inc()
			c.logger.Debug().
				Str("operation", operation).
				Msg("Credential is cooling down, joining pending wait")
			<-cooldown
		}

		start := time.Now()
		out, err := fn(ctx)
		notionRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		if err == nil {
			notionRequestsTotal.WithLabelValues(operation, "ok").Inc()
			return out
		}

		apiErr, ok := notion.AsAPIError(err)
		if !ok {
			notionErrorsTotal.WithLabelValues("unknown").Inc()
			notionRequestsTotal.WithLabelValues(operation, "error").Inc()
			c.logger.Error().
				Err(err).
				Str("operation", operation).
				Msg("Unknown Notion request error")
			return nil
		}

		if !apiErr.IsRateLimited() {
			// Non-rate-limit API codes collapse to absence, same as
			// unknown errors; only the log distinguishes them.
			notionErrorsTotal.WithLabelValues("api").Inc()
			notionRequestsTotal.WithLabelValues(operation, "error").Inc()
			c.logger.Error().
				Str("operation", operation).
				Str("code", apiErr.Code).
				Int("status", apiErr.Status).
				Msg("Notion API error")
			return nil
		}

		retryAfter := time.Duration(apiErr.RetryAfter()) * time.Second
		notionRequestsTotal.WithLabelValues(operation, "rate_limited").Inc()

		// Single flight: only the first signal starts the cooldown,
		// concurrent signals join it.
		cooldown := c.limit.Begin(retryAfter)
		c.notifier.RateLimited(retryAfter)
		c.logger.Warn().
			Str("operation", operation).
			Dur("retry_after", retryAfter).
			Msg("Rate limited by Notion, waiting out the cooldown")
		<-cooldown
	}
}

// executePaginated layers cursor aggregation on top of execute. Non-list
// responses pass through unchanged. Pages are fetched strictly in sequence
// and appended in server order; the final response carries the concatenated
// results with pagination fields left at their last-seen values.
func executePaginated(ctx context.Context, c *Client, operation string, setCursor func(string), fn func(context.Context) (*notion.ListResponse, error)) *notion.ListResponse {
	resp := execute(ctx, c, operation, fn)
	if !resp.Paginated() {
		return resp
	}

	results := resp.Results
	pages := 1

	for resp.Paginated() && resp.HasMore {
		setCursor(resp.NextCursor)

		resp = execute(ctx, c, operation, fn)
		if resp.Paginated() {
			results = append(results, resp.Results...)
			pages++
		}
	}

	if resp.Paginated() {
		resp.Results = results
		c.logger.Debug().
			Str("operation", operation).
			Int("pages", pages).
			Int("results", len(results)).
			Msg("Aggregated paginated response")
	}

	return resp
}

// RetrieveSelf fetches the bot user for the credential. Used for credential
// validation.
func (c *Client) RetrieveSelf(ctx context.Context) *notion.User {
	return execute(ctx, c, "retrieve-self", func(ctx context.Context) (*notion.User, error) {
		var out notion.User
		if err := c.api.Call(ctx, http.MethodGet, "/v1/users/me", nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// QueryDatabase queries a database, aggregating every page of results. A nil
// filter queries the whole database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter *notion.Filter) *notion.ListResponse {
	req := notion.QueryDatabaseRequest{Filter: filter}
	path := "/v1/databases/" + databaseID + "/query"

	return executePaginated(ctx, c, "query-database",
		func(cursor string) { req.StartCursor = cursor },
		func(ctx context.Context) (*notion.ListResponse, error) {
			var out notion.ListResponse
			if err := c.api.Call(ctx, http.MethodPost, path, &req, &out); err != nil {
				return nil, err
			}
			return &out, nil
		})
}

// RetrieveDatabase fetches a database's metadata.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) *notion.Database {
	return execute(ctx, c, "retrieve-database", func(ctx context.Context) (*notion.Database, error) {
		var out notion.Database
		if err := c.api.Call(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// CreatePage creates one page.
func (c *Client) CreatePage(ctx context.Context, req *notion.CreatePageRequest) *notion.Page {
	return execute(ctx, c, "create-page", func(ctx context.Context) (*notion.Page, error) {
		var out notion.Page
		if err := c.api.Call(ctx, http.MethodPost, "/v1/pages", req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Search searches pages and databases shared with the integration,
// aggregating every page of results.
func (c *Client) Search(ctx context.Context, req notion.SearchRequest) *notion.ListResponse {
	return executePaginated(ctx, c, "search",
		func(cursor string) { req.StartCursor = cursor },
		func(ctx context.Context) (*notion.ListResponse, error) {
			var out notion.ListResponse
			if err := c.api.Call(ctx, http.MethodPost, "/v1/search", &req, &out); err != nil {
				return nil, err
			}
			return &out, nil
		})
}
