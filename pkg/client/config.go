package client

import (
	"encoding/json"
	"time"
)

// Config identifies one client configuration: a credential plus connection
// options. Instances are deduplicated on the serialized configuration, so two
// calls with equal configs share one client.
type Config struct {
	// Auth is the Notion integration secret. Required.
	Auth string `json:"auth"`

	// BaseURL overrides the API origin (for tests).
	BaseURL string `json:"base_url,omitempty"`

	// Version overrides the Notion-Version header.
	Version string `json:"version,omitempty"`

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Fingerprint returns the deterministic serialization used as the instance
// key. Struct field order makes json.Marshal stable here.
func (c Config) Fingerprint() string {
	encoded, err := json.Marshal(c)
	if err != nil {
		// Config is a flat value type; Marshal cannot fail on it.
		return c.Auth
	}
	return string(encoded)
}
