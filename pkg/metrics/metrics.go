// Package metrics provides the centralized Prometheus metrics registry for
// the Notion sync adapter. All metrics are defined in their respective
// packages (client, ratelimit, storage) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the sync adapter.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - notion_rate_limit_signals_total (Counter): Rate-limit signals received from Notion
//   - notion_rate_limit_cooldowns_active (Gauge): Cooldowns currently in progress
//
// Request Metrics (pkg/client):
//   - notion_requests_total{operation, status} (Counter): Requests by operation and outcome
//   - notion_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - notion_errors_total{kind} (Counter): Failures by kind (api, unknown)
//   - notion_rate_limit_waits_total (Counter): Requests that waited on a cooldown
//
// Storage Metrics (pkg/storage):
//   - storage_operations_total{operation} (Counter): Storage operations by kind
//   - storage_errors_total{operation} (Counter): Storage failures by kind
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   sum(rate(notion_errors_total[5m])) / sum(rate(notion_requests_total[5m]))
//
//   # Credentials Currently Cooling Down
//   notion_rate_limit_cooldowns_active > 0
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(notion_request_duration_seconds_bucket[5m]))
//
//   # Share of Requests Delayed by Rate Limiting
//   rate(notion_rate_limit_waits_total[5m]) / rate(notion_requests_total[5m])
