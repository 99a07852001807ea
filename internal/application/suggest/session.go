package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/domain/taxonomy"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// Ticket identifies one search issued through Session.Begin.
type Ticket struct {
	Seq   uint64
	Query string
	Page  int
}

// Session is the caller-owned state of one suggestion field: the accepted
// candidate set, the query it belongs to, and the in-flight search.
// Responses are accepted only while their ticket is the latest one issued.
type Session struct {
	ID string

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	query      string
	candidates []taxon.Candidate
	lastPage   int
	hasMore    bool
	lastUsed   time.Time

	// selecting is a one-slot semaphore serializing picks.
	selecting chan struct{}
}

// NewSession returns an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, lastUsed: time.Now(), selecting: make(chan struct{}, 1)}
}

// acquireSelect waits for the previous pick to settle.  It gives up when
// ctx ends first.
func (s *Session) acquireSelect(ctx context.Context) error {
	select {
	case s.selecting <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) releaseSelect() {
	<-s.selecting
}

// Begin issues a new ticket and aborts the previous in-flight search.  The
// returned context is cancelled when a later Begin supersedes it or when the
// response is committed.
func (s *Session) Begin(parent context.Context, query string, page int) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return ctx, Ticket{Seq: s.seq, Query: query, Page: page}
}

// Current reports whether t is still the latest ticket.
func (s *Session) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Seq == s.seq
}

// Commit accepts the response for t.  It returns false and leaves the state
// untouched when a later ticket exists.  Page 1, or a different query,
// replaces the accepted set; later pages of the same query merge into it.
// A nil page commits an empty result.
func (s *Session) Commit(t Ticket, page *taxon.SearchPage) ([]taxon.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq != s.seq {
		return nil, false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	var data []taxon.Candidate
	if page != nil {
		data = page.Data
	}
	if t.Page <= 1 || !sameQuery(t.Query, s.query) {
		s.candidates = taxonomy.Dedupe(data)
	} else {
		merged := make([]taxon.Candidate, 0, len(s.candidates)+len(data))
		merged = append(merged, s.candidates...)
		merged = append(merged, data...)
		s.candidates = taxonomy.Dedupe(merged)
	}
	s.query = t.Query
	s.lastPage = t.Page
	s.hasMore = page.HasMore()

	return s.outlineLocked(), true
}

func (s *Session) outlineLocked() []taxon.Entry {
	return taxonomy.Prioritize(taxonomy.BuildOutline(s.candidates), s.query)
}

// Candidates returns a copy of the accepted set.
func (s *Session) Candidates() []taxon.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]taxon.Candidate, len(s.candidates))
	for i, c := range s.candidates {
		out[i] = c.Clone()
	}
	return out
}

// Find returns the accepted candidate with the given id.
func (s *Session) Find(id string) (taxon.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return taxon.Candidate{}, false
}

// Query returns the query of the accepted set.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// LastPage returns the page number of the last accepted response.
func (s *Session) LastPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPage
}

// HasMore reports whether the last accepted response announced another page.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// close aborts any in-flight search.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// sameQuery compares queries the way the taxonomy search does: trimmed and
// case-insensitive.
func sameQuery(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

//Personal.AI order the ending
