// Package suggest orchestrates taxon suggestion sessions: it runs paged
// searches against the taxonomy service, turns the accumulated candidates
// into a relevance-ordered outline, and finalizes picks with synonym
// resolution.  HTTP handlers and the CLI are thin callers of Service.
package suggest

import (
	"context"
	"time"

	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// Searcher runs one page of a taxonomy search.  pkg/client.TaxaClient and
// CachedSearcher implement it.
type Searcher interface {
	Search(ctx context.Context, q taxon.SearchQuery) (*taxon.SearchPage, error)
}

// EventPublisher receives finalized selections.  Failures never fail the
// selection.
type EventPublisher interface {
	SelectionFinalized(ctx context.Context, sessionID string, res taxon.SelectionResult) error
}

// Metrics is the subset of the Prometheus suggestion metrics the service
// records.
type Metrics interface {
	ObserveSearch(outcome string, duration time.Duration)
	ObserveOutlineSize(entries int)
	IncStaleDropped()
	IncCacheResult(result string)
	IncSynonymResolution(outcome string)
	IncSelection(outcome string)
	SetActiveSessions(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSearch(string, time.Duration) {}
func (noopMetrics) ObserveOutlineSize(int)              {}
func (noopMetrics) IncStaleDropped()                    {}
func (noopMetrics) IncCacheResult(string)               {}
func (noopMetrics) IncSynonymResolution(string)         {}
func (noopMetrics) IncSelection(string)                 {}
func (noopMetrics) SetActiveSessions(int)               {}

// NoopMetrics returns a Metrics that records nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

// Metric label values.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	resolutionRedirected  = "redirected"
	resolutionUnresolved  = "unresolved"
	resolutionLookupError = "lookup_error"

	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

var (
	ErrQueryInvalid      = errors.New(errors.ErrCodeTaxonQueryInvalid, "query must not be blank")
	ErrCandidateNotFound = errors.New(errors.ErrCodeTaxonCandidateNotFound, "candidate not found in session")
	ErrSessionNotFound   = errors.New(errors.ErrCodeTaxonSessionNotFound, "suggestion session not found")
	ErrSelectionInvalid  = errors.New(errors.ErrCodeTaxonQueryInvalid, "either candidate_id or candidate is required")
)

//Personal.AI order the ending
