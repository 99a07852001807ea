package prometheus

import (
	"strconv"
	"time"
)

// Outcome label values shared by the suggestion metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeStale   = "stale"
)

var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSearchDurationBuckets = []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultOutlineSizeBuckets    = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// SuggestMetrics holds every metric emitted by the suggestion service and its
// HTTP surface.
type SuggestMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Search
	SearchRequestsTotal CounterVec
	SearchDuration      HistogramVec
	SearchCacheTotal    CounterVec
	StaleDroppedTotal   CounterVec

	// Outline and selection
	OutlineEntries     HistogramVec
	SynonymResolutions CounterVec
	SelectionsTotal    CounterVec
	EventsPublished    CounterVec
	ActiveSessions     GaugeVec
}

// NewSuggestMetrics registers all suggestion metrics on collector.
func NewSuggestMetrics(collector MetricsCollector) *SuggestMetrics {
	m := &SuggestMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.SearchRequestsTotal = collector.RegisterCounter("search_requests_total", "Taxonomy search requests", "outcome")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Taxonomy search duration", DefaultSearchDurationBuckets, "outcome")
	m.SearchCacheTotal = collector.RegisterCounter("search_cache_total", "Search page cache lookups", "result")
	m.StaleDroppedTotal = collector.RegisterCounter("stale_responses_dropped_total", "Search responses discarded because a newer request superseded them")

	m.OutlineEntries = collector.RegisterHistogram("outline_entries", "Entries in a rendered suggestion outline", DefaultOutlineSizeBuckets)
	m.SynonymResolutions = collector.RegisterCounter("synonym_resolutions_total", "Synonym resolution attempts", "outcome")
	m.SelectionsTotal = collector.RegisterCounter("selections_total", "Finalized selections", "outcome")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Selection events published", "topic", "outcome")
	m.ActiveSessions = collector.RegisterGauge("active_sessions", "Suggestion sessions held in memory")

	return m
}

// Helpers

func (m *SuggestMetrics) ObserveHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *SuggestMetrics) ObserveSearch(outcome string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(outcome).Inc()
	m.SearchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *SuggestMetrics) ObserveOutlineSize(entries int) {
	m.OutlineEntries.WithLabelValues().Observe(float64(entries))
}

func (m *SuggestMetrics) IncStaleDropped() {
	m.StaleDroppedTotal.WithLabelValues().Inc()
}

// IncCacheResult counts a cache lookup; result is "hit", "miss" or "error".
func (m *SuggestMetrics) IncCacheResult(result string) {
	m.SearchCacheTotal.WithLabelValues(result).Inc()
}

// IncSynonymResolution counts a resolution; outcome is "redirected",
// "unresolved" or "lookup_error".
func (m *SuggestMetrics) IncSynonymResolution(outcome string) {
	m.SynonymResolutions.WithLabelValues(outcome).Inc()
}

func (m *SuggestMetrics) IncSelection(outcome string) {
	m.SelectionsTotal.WithLabelValues(outcome).Inc()
}

func (m *SuggestMetrics) IncEventPublished(topic, outcome string) {
	m.EventsPublished.WithLabelValues(topic, outcome).Inc()
}

func (m *SuggestMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.WithLabelValues().Set(float64(n))
}

//Personal.AI order the ending
