package suggest

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
)

// StoreConfig bounds the session store.
type StoreConfig struct {
	IdleTTL     time.Duration
	MaxSessions int
}

// SessionStore keeps sessions in memory.  Sessions idle longer than IdleTTL
// expire; beyond MaxSessions the least recently used one is evicted.
type SessionStore struct {
	cfg     StoreConfig
	logger  logging.Logger
	metrics Metrics
	now     func() time.Time

	mu    sync.Mutex
	order *list.List // front = most recently used
	items map[string]*list.Element
}

// NewSessionStore creates a store.  Zero limits take the defaults of 30
// minutes and 10000 sessions.
func NewSessionStore(cfg StoreConfig, logger logging.Logger, metrics Metrics) *SessionStore {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 10000
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = NoopMetrics()
	}
	return &SessionStore{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}
}

// GetOrCreate returns the live session with id, creating it when missing or
// expired.  An empty id gets a fresh uuid.
func (st *SessionStore) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	if el, ok := st.items[id]; ok {
		s := el.Value.(*Session)
		if !st.expired(s, now) {
			s.touch(now)
			st.order.MoveToFront(el)
			return s
		}
		st.removeLocked(el)
	}

	s := NewSession(id)
	s.touch(now)
	st.items[id] = st.order.PushFront(s)
	for st.order.Len() > st.cfg.MaxSessions {
		st.removeLocked(st.order.Back())
	}
	st.metrics.SetActiveSessions(st.order.Len())
	return s
}

// Get returns the live session with id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	el, ok := st.items[id]
	if !ok {
		return nil, false
	}
	s := el.Value.(*Session)
	if st.expired(s, now) {
		st.removeLocked(el)
		st.metrics.SetActiveSessions(st.order.Len())
		return nil, false
	}
	s.touch(now)
	st.order.MoveToFront(el)
	return s, true
}

// Len returns the number of stored sessions, expired ones included until
// the next sweep.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.order.Len()
}

// Sweep drops expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for el := st.order.Back(); el != nil; {
		prev := el.Prev()
		if !st.expired(el.Value.(*Session), now) {
			// everything in front is more recent
			break
		}
		st.removeLocked(el)
		removed++
		el = prev
	}
	st.metrics.SetActiveSessions(st.order.Len())
	return removed
}

// Run sweeps every interval until ctx ends.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Debug("Expired sessions swept", logging.Int("removed", n))
			}
		}
	}
}

func (st *SessionStore) expired(s *Session, now time.Time) bool {
	return now.Sub(s.idleSince()) > st.cfg.IdleTTL
}

func (st *SessionStore) removeLocked(el *list.Element) {
	s := st.order.Remove(el).(*Session)
	delete(st.items, s.ID)
	s.close()
}

//Personal.AI order the ending
