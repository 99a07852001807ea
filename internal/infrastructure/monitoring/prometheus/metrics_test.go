package prometheus

import (
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSuggestMetrics(t *testing.T) (*SuggestMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewSuggestMetrics(c), c
}

func TestNewSuggestMetrics_AllRegistered(t *testing.T) {
	m, _ := newTestSuggestMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.SearchRequestsTotal)
	assert.NotNil(t, m.SearchCacheTotal)
	assert.NotNil(t, m.StaleDroppedTotal)
	assert.NotNil(t, m.OutlineEntries)
	assert.NotNil(t, m.SynonymResolutions)
	assert.NotNil(t, m.EventsPublished)
	assert.NotNil(t, m.ActiveSessions)
}

func TestNewSuggestMetrics_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	assert.NotPanics(t, func() {
		NewSuggestMetrics(c)
		NewSuggestMetrics(c)
	})
}

func TestObserveSearch(t *testing.T) {
	m, c := newTestSuggestMetrics(t)
	m.ObserveSearch(OutcomeSuccess, 120*time.Millisecond)
	m.ObserveSearch(OutcomeSuccess, 80*time.Millisecond)
	m.ObserveSearch(OutcomeError, time.Second)

	expected := `
# HELP test_unit_search_requests_total Taxonomy search requests
# TYPE test_unit_search_requests_total counter
test_unit_search_requests_total{outcome="error"} 1
test_unit_search_requests_total{outcome="success"} 2
`
	assert.NoError(t, promtestutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "test_unit_search_requests_total"))

	count, err := promtestutil.GatherAndCount(c.Gatherer(), "test_unit_search_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one histogram series per outcome")
}

func TestCounters(t *testing.T) {
	m, c := newTestSuggestMetrics(t)
	m.IncStaleDropped()
	m.IncStaleDropped()
	m.IncCacheResult("hit")
	m.IncCacheResult("miss")
	m.IncCacheResult("miss")
	m.IncSynonymResolution("redirected")
	m.IncSelection(OutcomeSuccess)
	m.IncEventPublished("taxon.selection.finalized", OutcomeError)

	expected := `
# HELP test_unit_stale_responses_dropped_total Search responses discarded because a newer request superseded them
# TYPE test_unit_stale_responses_dropped_total counter
test_unit_stale_responses_dropped_total 2
# HELP test_unit_search_cache_total Search page cache lookups
# TYPE test_unit_search_cache_total counter
test_unit_search_cache_total{result="hit"} 1
test_unit_search_cache_total{result="miss"} 2
# HELP test_unit_synonym_resolutions_total Synonym resolution attempts
# TYPE test_unit_synonym_resolutions_total counter
test_unit_synonym_resolutions_total{outcome="redirected"} 1
# HELP test_unit_events_published_total Selection events published
# TYPE test_unit_events_published_total counter
test_unit_events_published_total{outcome="error",topic="taxon.selection.finalized"} 1
`
	assert.NoError(t, promtestutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected),
		"test_unit_stale_responses_dropped_total",
		"test_unit_search_cache_total",
		"test_unit_synonym_resolutions_total",
		"test_unit_events_published_total",
	))
}

func TestObserveOutlineSizeAndSessions(t *testing.T) {
	m, c := newTestSuggestMetrics(t)
	m.ObserveOutlineSize(7)
	m.SetActiveSessions(3)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_outline_entries_sum 7")
	assert.Contains(t, output, "test_unit_active_sessions 3")
}

func TestObserveHTTPRequest(t *testing.T) {
	m, c := newTestSuggestMetrics(t)
	m.ObserveHTTPRequest("GET", "/api/v1/taxa/suggestions", 200, 15*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="GET",path="/api/v1/taxa/suggestions",status_code="200"} 1`)
	assert.Contains(t, output, "test_unit_http_request_duration_seconds_bucket")
}

//Personal.AI order the ending
