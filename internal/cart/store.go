package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Persister saves cart lines outside the process.
type Persister interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}

// Store hands out the cart for a session.
type Store interface {
	// Get returns the session's cart, creating an empty one if needed.
	Get(ctx context.Context, sessionID string) (*Cart, error)
	// Find returns the session's cart only if it already exists here or in
	// the persister. It never creates one.
	Find(ctx context.Context, sessionID string) (*Cart, bool, error)
	Drop(ctx context.Context, sessionID string) error
}

const persistTimeout = 2 * time.Second

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// MemoryStore keeps carts in process. With a Persister, a cart is restored
// on first use and written back after every mutation. Carts untouched for
// longer than the idle TTL are dropped from memory by Evict.
type MemoryStore struct {
	prices    PriceSource
	persister Persister
	log       *zap.Logger
	idleTTL   time.Duration
	now       func() time.Time

	loads singleflight.Group

	mu    sync.Mutex
	carts map[string]*entry
}

type StoreOption func(*MemoryStore)

func WithPersister(p Persister) StoreOption {
	return func(s *MemoryStore) { s.persister = p }
}

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *MemoryStore) { s.log = l }
}

// WithIdleTTL sets how long an untouched cart stays in memory. Zero keeps
// carts until they are dropped.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(prices PriceSource, opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		prices: prices,
		log:    zap.NewNop(),
		now:    time.Now,
		carts:  make(map[string]*entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.lookup(ctx, sessionID, true)
}

func (s *MemoryStore) Find(ctx context.Context, sessionID string) (*Cart, bool, error) {
	c, err := s.lookup(ctx, sessionID, false)
	if err != nil {
		return nil, false, err
	}
	return c, c != nil, nil
}

// lookup never holds s.mu while talking to the persister. Concurrent
// first uses of one session share a single Load.
func (s *MemoryStore) lookup(ctx context.Context, sessionID string, create bool) (*Cart, error) {
	if c := s.cached(sessionID); c != nil {
		return c, nil
	}

	var lines []Line
	if s.persister != nil {
		v, err, _ := s.loads.Do(sessionID, func() (any, error) {
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
			defer cancel()
			return s.persister.Load(loadCtx, sessionID)
		})
		if err != nil {
			return nil, err
		}
		lines = v.([]Line)
	}
	if len(lines) == 0 && !create {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.carts[sessionID]; ok {
		e.lastSeen = s.now()
		return e.cart, nil
	}
	c := Restore(s.prices, lines)
	if s.persister != nil {
		c.Subscribe(s.persistObserver(sessionID, c))
	}
	s.carts[sessionID] = &entry{cart: c, lastSeen: s.now()}
	return c, nil
}

func (s *MemoryStore) cached(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	e.lastSeen = s.now()
	return e.cart
}

// Drop forgets the session's cart here and in the persister.
func (s *MemoryStore) Drop(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	return s.persister.Delete(ctx, sessionID)
}

// Evict removes carts idle for longer than the idle TTL and reports how
// many went. Persisted lines are left alone; the persister expires them on
// its own schedule and a returning shopper gets them restored.
func (s *MemoryStore) Evict() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.carts {
		if e.lastSeen.Before(cutoff) {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

// Run calls Evict every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				s.log.Debug("evicted idle carts", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// persistObserver writes the cart's current lines rather than the snapshot
// it was handed, so racing mutations cannot leave an older state behind.
func (s *MemoryStore) persistObserver(sessionID string, c *Cart) Observer {
	return func(Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		lines := c.Lines()
		var err error
		if len(lines) == 0 {
			err = s.persister.Delete(ctx, sessionID)
		} else {
			err = s.persister.Save(ctx, sessionID, lines)
		}
		if err != nil {
			s.log.Warn("persist cart",
				zap.String("session_id", sessionID),
				zap.Int("lines", len(lines)),
				zap.Error(err))
		}
	}
}
