// Package provider defines the adapter contract shared by all news
// providers. Each adapter fetches raw provider JSON and maps it to the
// canonical NormalizedArticle shape; the merge engine consumes tagged
// batches and never sees provider-specific payloads.
package provider

import (
	"context"

	"github.com/finpulse/finpulse/pkg/models"
)

// BatchStatus tags the outcome of one adapter call. The merge engine
// branches on the tag instead of catching errors: a disabled adapter is a
// configuration state, not a failure.
type BatchStatus string

const (
	// StatusOK means the fetch succeeded (possibly with zero articles).
	StatusOK BatchStatus = "ok"
	// StatusDisabled means the adapter has no credentials and sat out.
	StatusDisabled BatchStatus = "disabled"
	// StatusError means a transient failure; the batch is empty.
	StatusError BatchStatus = "error"
)

// NewsBatch is the result of one adapter fetch.
type NewsBatch struct {
	Provider string
	Status   BatchStatus
	Articles []models.NormalizedArticle
	Err      error
}

// NewsAdapter is implemented by every news provider. Fetch must never
// panic or return a partial batch with malformed records: records missing
// both URL and title are skipped inside the adapter.
type NewsAdapter interface {
	Name() string
	Fetch(ctx context.Context, limit int) NewsBatch
}

// OK wraps a successful batch.
func OK(name string, articles []models.NormalizedArticle) NewsBatch {
	return NewsBatch{Provider: name, Status: StatusOK, Articles: articles}
}

// Disabled marks an adapter that is not configured.
func Disabled(name string) NewsBatch {
	return NewsBatch{Provider: name, Status: StatusDisabled}
}

// Failed wraps a transient failure; the merge engine logs and degrades to
// an empty batch.
func Failed(name string, err error) NewsBatch {
	return NewsBatch{Provider: name, Status: StatusError, Err: err}
}
