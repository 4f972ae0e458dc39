// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
)

// OptionStore defines the driven port for site option persistence. Values are
// opaque strings; callers that store secrets encrypt them first.
type OptionStore interface {
	// Get returns the stored value for key, or fallback if the key is absent.
	Get(ctx context.Context, key, fallback string) (string, error)

	// Set stores or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
