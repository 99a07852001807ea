package suggest

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/domain/taxonomy"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

const outcomeStale = "stale"

// ServiceConfig holds the dependencies and defaults of the service.
type ServiceConfig struct {
	Searcher Searcher
	Lookup   taxonomy.Lookup
	Sessions *SessionStore
	Logger   logging.Logger

	// Optional.
	Publisher EventPublisher
	Metrics   Metrics

	PerPage        int
	MaxPages       int
	DataSources    []string
	PublishTimeout time.Duration

	// ResolveTimeout bounds one synonym resolution.  A resolution may be
	// shared by several picks, so it does not run under any one caller's
	// context.
	ResolveTimeout time.Duration
}

// SuggestInput is one suggestion request.  Zero paging fields take the
// service defaults.
type SuggestInput struct {
	SessionID   string
	Query       string
	Page        int
	PerPage     int
	DataSources []string

	// MaxPages bounds SuggestAll; zero takes the service limit.
	MaxPages int
}

// SuggestResult is the outline accepted for a request.  Stale is set when
// a later request on the same session superseded this one; Entries is then
// empty and must not be shown.  Degraded is set when the search failed and
// an empty page was committed in its place.
type SuggestResult struct {
	SessionID string        `json:"session_id"`
	Query     string        `json:"query"`
	Page      int           `json:"page"`
	HasMore   bool          `json:"has_more"`
	Entries   []taxon.Entry `json:"data"`
	Stale     bool          `json:"stale,omitempty"`
	Degraded  bool          `json:"degraded,omitempty"`
}

// SelectInput names the picked candidate, either by id within a session or
// inline.
type SelectInput struct {
	SessionID   string
	CandidateID string
	Candidate   *taxon.Candidate
}

// Service runs suggestion sessions.
type Service struct {
	searcher  Searcher
	lookup    taxonomy.Lookup
	sessions  *SessionStore
	logger    logging.Logger
	publisher EventPublisher
	metrics   Metrics

	perPage        int
	maxPages       int
	dataSources    []string
	publishTimeout time.Duration
	resolveTimeout time.Duration

	resolving singleflight.Group
}

// NewService validates cfg and builds the service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Searcher == nil {
		return nil, errors.NewValidationError("Searcher", "suggest service requires a searcher")
	}
	if cfg.Sessions == nil {
		return nil, errors.NewValidationError("Sessions", "suggest service requires a session store")
	}
	if cfg.Logger == nil {
		return nil, errors.NewValidationError("Logger", "suggest service requires a logger")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetrics()
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 20
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 5
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 30 * time.Second
	}

	return &Service{
		searcher:       cfg.Searcher,
		lookup:         cfg.Lookup,
		sessions:       cfg.Sessions,
		logger:         cfg.Logger,
		publisher:      cfg.Publisher,
		metrics:        cfg.Metrics,
		perPage:        cfg.PerPage,
		maxPages:       cfg.MaxPages,
		dataSources:    cfg.DataSources,
		publishTimeout: cfg.PublishTimeout,
		resolveTimeout: cfg.ResolveTimeout,
	}, nil
}

// Suggest runs one page of a search on the session and returns the
// accepted outline.  Search failures degrade to an empty page; only a blank
// query or the caller's own cancellation produce an error.
func (s *Service) Suggest(ctx context.Context, in SuggestInput) (*SuggestResult, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, ErrQueryInvalid
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage <= 0 {
		perPage = s.perPage
	}
	sources := in.DataSources
	if len(sources) == 0 {
		sources = s.dataSources
	}

	sess := s.sessions.GetOrCreate(in.SessionID)
	result := &SuggestResult{SessionID: sess.ID, Query: query, Page: page}

	searchCtx, ticket := sess.Begin(ctx, query, page)
	start := time.Now()
	resp, err := s.searcher.Search(searchCtx, taxon.SearchQuery{
		Query:       query,
		Page:        page,
		PerPage:     perPage,
		DataSources: sources,
	})
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case ctx.Err() != nil:
			s.metrics.ObserveSearch(outcomeError, elapsed)
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "suggestion request ended before the search completed")
		case !sess.Current(ticket):
			return s.stale(result, elapsed), nil
		}
		s.metrics.ObserveSearch(outcomeError, elapsed)
		s.logger.Warn("Taxonomy search failed, returning empty outline",
			logging.String("session_id", sess.ID),
			logging.String("query", query),
			logging.Int("page", page),
			logging.Err(err))
		result.Degraded = true
		resp = nil
	}

	entries, ok := sess.Commit(ticket, resp)
	if !ok {
		return s.stale(result, elapsed), nil
	}
	if !result.Degraded {
		s.metrics.ObserveSearch(outcomeSuccess, elapsed)
	}
	s.metrics.ObserveOutlineSize(len(entries))

	result.Entries = entries
	result.HasMore = resp.HasMore()
	return result, nil
}

func (s *Service) stale(result *SuggestResult, elapsed time.Duration) *SuggestResult {
	s.metrics.ObserveSearch(outcomeStale, elapsed)
	s.metrics.IncStaleDropped()
	s.logger.Debug("Stale search response dropped",
		logging.String("session_id", result.SessionID),
		logging.String("query", result.Query),
		logging.Int("page", result.Page))
	result.Stale = true
	return result
}

// SuggestAll fetches pages from in.Page onwards while the service announces
// more, up to in.MaxPages or the configured page limit, and returns the
// last accepted outline, which covers every page fetched.
func (s *Service) SuggestAll(ctx context.Context, in SuggestInput) (*SuggestResult, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	limit := s.maxPages
	if in.MaxPages > 0 {
		limit = in.MaxPages
	}
	last := in.Page + limit - 1

	var res *SuggestResult
	for ; in.Page <= last; in.Page++ {
		r, err := s.Suggest(ctx, in)
		if err != nil {
			return nil, err
		}
		res = r
		in.SessionID = r.SessionID
		if r.Stale || r.Degraded || !r.HasMore {
			break
		}
	}
	return res, nil
}

// Select finalizes a pick.  Synonyms are redirected to their accepted name
// with one follow-up lookup; lookup failures keep the original pick.  Picks
// on one session are serialized and identical concurrent picks share one
// resolution, which outlives any caller that gives up on it.  The finalized selection is published best-effort.
func (s *Service) Select(ctx context.Context, in SelectInput) (*taxon.SelectionResult, error) {
	var sess *Session
	if in.SessionID != "" {
		var ok bool
		if sess, ok = s.sessions.Get(in.SessionID); !ok && in.Candidate == nil {
			return nil, ErrSessionNotFound.WithDetail("session_id=" + in.SessionID)
		}
	}

	var chosen taxon.Candidate
	switch {
	case in.Candidate != nil:
		if strings.TrimSpace(in.Candidate.ScientificName) == "" {
			return nil, ErrSelectionInvalid.WithDetail("candidate.scientific_name is required")
		}
		chosen = in.Candidate.Clone()
	case in.CandidateID != "":
		if sess == nil {
			return nil, ErrSessionNotFound.WithDetail("session_id is required with candidate_id")
		}
		c, ok := sess.Find(in.CandidateID)
		if !ok {
			return nil, ErrCandidateNotFound.WithDetail("candidate_id=" + in.CandidateID)
		}
		chosen = c
	default:
		return nil, ErrSelectionInvalid
	}

	sessionID := in.SessionID
	if sess != nil {
		if err := sess.acquireSelect(ctx); err != nil {
			s.metrics.IncSelection(outcomeError)
			return nil, errors.Wrap(err, errors.ErrCodeTaxonSelectionInProgress, "previous selection still resolving")
		}
		defer sess.releaseSelect()
	}

	ch := s.resolving.DoChan(resolutionKey(chosen), func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resolveTimeout)
		defer cancel()
		res, resolution := taxonomy.FinalizeSelection(rctx, s.lookup, chosen)
		s.recordResolution(chosen, resolution)
		return res, nil
	})
	var shared taxon.SelectionResult
	select {
	case <-ctx.Done():
		s.metrics.IncSelection(outcomeError)
		return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "selection request ended before the pick was resolved")
	case r := <-ch:
		shared = r.Val.(taxon.SelectionResult)
	}
	res := copyResult(shared)

	s.metrics.IncSelection(outcomeSuccess)
	s.logger.Info("Selection finalized",
		logging.String("session_id", sessionID),
		logging.String("id", res.Selection.ID),
		logging.String("scientific_name", res.Selection.ScientificName),
		logging.Bool("redirected", res.Redirect != nil))

	s.publish(ctx, sessionID, res)
	return &res, nil
}

// Normalize strips authorship citations from a scientific name.
func (s *Service) Normalize(name string) string {
	return taxonomy.NormalizeName(name)
}

// Sessions returns the session store.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

func (s *Service) recordResolution(chosen taxon.Candidate, r taxonomy.Resolution) {
	if !chosen.IsSynonym() {
		return
	}
	switch {
	case r.LookupErr != nil:
		s.metrics.IncSynonymResolution(resolutionLookupError)
		s.logger.Warn("Synonym lookup failed, keeping original pick",
			logging.String("scientific_name", chosen.ScientificName),
			logging.String("accepted_name", chosen.AcceptedScientificName),
			logging.Err(r.LookupErr))
	case r.Redirect != nil:
		s.metrics.IncSynonymResolution(resolutionRedirected)
	default:
		s.metrics.IncSynonymResolution(resolutionUnresolved)
	}
}

func (s *Service) publish(ctx context.Context, sessionID string, res taxon.SelectionResult) {
	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.SelectionFinalized(pctx, sessionID, res); err != nil {
		s.logger.Warn("Failed to publish selection event",
			logging.String("session_id", sessionID),
			logging.String("id", res.Selection.ID),
			logging.Err(err))
	}
}

func resolutionKey(c taxon.Candidate) string {
	return strings.Join([]string{
		c.ID,
		taxonomy.NormalizeName(c.ScientificName),
		string(c.TaxonomicStatus),
		strings.TrimSpace(c.AcceptedScientificName),
	}, "|")
}

// copyResult detaches a result shared between singleflight callers.
func copyResult(r taxon.SelectionResult) taxon.SelectionResult {
	out := r
	if r.Selection.Hierarchy != nil {
		out.Selection.Hierarchy = make(map[taxon.Rank]string, len(r.Selection.Hierarchy))
		for k, v := range r.Selection.Hierarchy {
			out.Selection.Hierarchy[k] = v
		}
	}
	if r.Redirect != nil {
		redirect := *r.Redirect
		out.Redirect = &redirect
	}
	return out
}

//Personal.AI order the ending
