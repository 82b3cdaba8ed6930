// Package store persists user queries, verification records, and cached
// external sources.
package store

import (
	"context"
	"errors"

	"github.com/athenahq/athena/internal/model"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("store: not found")

// WebResultBatch is the unit persisted atomically after a web-fallback
// search: newly discovered external sources plus one unverified fact per
// selected result. Sources already present in the store are not repeated
// here; their facts reference the existing rows.
type WebResultBatch struct {
	Sources []model.ExternalSource
	Facts   []model.VerifiedFact
}

// Store defines the persistence interface for the fact-checking pipeline
type Store interface {
	// Queries
	CreateQuery(ctx context.Context, q *model.UserQuery) error

	// Verified facts
	CreateFact(ctx context.Context, f *model.VerifiedFact) error
	// FindBestFactMatch returns the highest-confidence verified fact whose
	// originating query content contains every keyword, or ErrNotFound.
	FindBestFactMatch(ctx context.Context, keywords []string) (*model.FactMatch, error)

	// External sources
	GetExternalSourceByURL(ctx context.Context, url string) (*model.ExternalSource, error)
	// SaveWebResults persists the batch in a single transaction. A unique
	// constraint on external_sources.url closes the check-then-insert race
	// between concurrent requests; a violation fails the whole batch.
	SaveWebResults(ctx context.Context, batch WebResultBatch) error

	// Credible sources (reference data)
	CreateCredibleSource(ctx context.Context, s *model.CredibleSource) error
	ListCredibleSources(ctx context.Context, activeOnly bool) ([]model.CredibleSource, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
