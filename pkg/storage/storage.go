// Package storage provides the key-value storage provider the reconciler
// reads cached assignments and configuration from, with a redis-backed
// implementation.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the backing store could not be reached.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a flat key-value provider. Get applies defaults for missing keys;
// Set persists every entry of the mapping.
type Store interface {
	// Get returns a value for every key in defaults: the stored value when
	// present, the given default otherwise.
	Get(ctx context.Context, defaults map[string]string) (map[string]string, error)

	// Set stores every entry of values.
	Set(ctx context.Context, values map[string]string) error
}
