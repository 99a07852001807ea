package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/database/redis"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// searchError marks a failure that came from the upstream search rather
// than from the cache, so it is returned as is instead of triggering a
// direct fetch.
type searchError struct{ err error }

func (e *searchError) Error() string { return e.err.Error() }
func (e *searchError) Unwrap() error { return e.err }

// CachedSearcher serves search pages from Redis, loading misses from the
// wrapped Searcher.  Cache failures fall back to a direct fetch; search
// failures are never cached.
type CachedSearcher struct {
	next    Searcher
	cache   redis.Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics Metrics
}

// NewCachedSearcher wraps next with cache.
func NewCachedSearcher(next Searcher, cache redis.Cache, ttl time.Duration, logger logging.Logger, metrics Metrics) *CachedSearcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = NoopMetrics()
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

// Search implements Searcher.  Only a page read back from Redis counts as a
// hit; callers that join another caller's load count as misses.
func (s *CachedSearcher) Search(ctx context.Context, q taxon.SearchQuery) (*taxon.SearchPage, error) {
	key := CacheKey(q)

	var page taxon.SearchPage
	err := s.cache.Get(ctx, key, &page)
	switch {
	case err == nil:
		s.metrics.IncCacheResult(cacheHit)
		return &page, nil
	case errors.Is(err, redis.ErrCacheMiss):
		s.metrics.IncCacheResult(cacheMiss)
		err = s.cache.GetOrSet(ctx, key, &page, s.ttl, func(ctx context.Context) (interface{}, error) {
			p, err := s.next.Search(ctx, q)
			if err != nil {
				return nil, &searchError{err: err}
			}
			return p, nil
		})
		if err == nil {
			return &page, nil
		}
	}

	var se *searchError
	if errors.As(err, &se) {
		return nil, se.err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	s.metrics.IncCacheResult(cacheError)
	s.logger.Warn("Search cache unavailable, fetching directly",
		logging.String("query", q.Query),
		logging.Int("page", q.Page),
		logging.Err(err))
	return s.next.Search(ctx, q)
}

// CacheKey derives the cache key of a query: the hex sha256 of
// query|page|per_page|sources with the sources sorted.
func CacheKey(q taxon.SearchQuery) string {
	sources := append([]string(nil), q.DataSources...)
	sort.Strings(sources)

	var b strings.Builder
	b.WriteString(strings.TrimSpace(q.Query))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.PerPage))
	b.WriteByte('|')
	b.WriteString(strings.Join(sources, ","))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

//Personal.AI order the ending
