package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"suncoast/internal/domain"
)

// Source supplies the full product list.
type Source interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// Loader keeps the current catalog snapshot. Writers call Invalidate after
// changing the source; the next Current call rebuilds the snapshot.
// Concurrent rebuilds are coalesced into one source read.
type Loader struct {
	source Source
	log    *zap.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	current    *Catalog
	generation uint64
}

func NewLoader(source Source, log *zap.Logger) *Loader {
	return &Loader{source: source, log: log}
}

// Current returns a snapshot reflecting every Invalidate so far.
func (l *Loader) Current(ctx context.Context) (*Catalog, error) {
	l.mu.RLock()
	cur, gen := l.current, l.generation
	l.mu.RUnlock()
	if cur != nil && cur.Version() == gen {
		return cur, nil
	}

	// waiters share this load, so one caller going away must not fail the rest
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do(fmt.Sprintf("catalog:%d", gen), func() (any, error) {
		products, err := l.source.ListAll(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cat := New(gen, products)

		l.mu.Lock()
		if l.generation == gen {
			l.current = cat
		}
		l.mu.Unlock()

		l.log.Debug("catalog rebuilt", zap.Uint64("version", gen), zap.Int("products", cat.Len()))
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Invalidate marks the current snapshot stale.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.generation++
	l.mu.Unlock()
}

// Snapshot returns the last built snapshot without reloading; it may be nil
// before the first Current call.
func (l *Loader) Snapshot() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Lookup resolves a variant against the last built snapshot.
func (l *Loader) Lookup(productID int64, variantID string) (domain.Product, domain.Variant, bool) {
	cat := l.Snapshot()
	if cat == nil {
		return domain.Product{}, domain.Variant{}, false
	}
	return cat.Lookup(productID, variantID)
}
