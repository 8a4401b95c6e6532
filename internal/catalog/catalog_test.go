package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"suncoast/internal/domain"
)

type fakeSource struct {
	mu       sync.Mutex
	products []domain.Product
	calls    atomic.Int32
	err      error
}

func (f *fakeSource) ListAll(ctx context.Context) ([]domain.Product, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeSource) set(products []domain.Product) {
	f.mu.Lock()
	f.products = products
	f.mu.Unlock()
}

func TestCatalog_BrowseAndLookup(t *testing.T) {
	cat := New(1, sampleProducts())

	res := cat.Browse(Criteria{Brands: []string{"Atomic"}, SortBy: SortPriceAsc}, Page{Number: 1, Size: 2})
	assert.Equal(t, 3, res.MatchedCount)
	assert.Equal(t, []int64{3, 2}, ids(res.Items))
	assert.Equal(t, 2, res.TotalPages)

	p, v, ok := cat.Lookup(4, "default")
	require.True(t, ok)
	assert.Equal(t, "Shearwater Tern", p.Name)
	assert.Equal(t, "default", v.ID)

	_, _, ok = cat.Lookup(4, "xl")
	assert.False(t, ok)
	_, _, ok = cat.Lookup(99, "default")
	assert.False(t, ok)
}

func TestCatalog_Related(t *testing.T) {
	products := append(sampleProducts(), product(6, "Mask D", "Masks", 60), product(7, "Mask E", "Masks", 70))
	cat := New(1, products)

	assert.Equal(t, []int64{3, 6}, ids(cat.Related(1, 2)))
	assert.Empty(t, cat.Related(4, 4))
	assert.Empty(t, cat.Related(404, 4))
}

func TestCatalog_ProductsIsACopy(t *testing.T) {
	cat := New(1, sampleProducts())
	list := cat.Products()
	list[0].Name = "changed"
	p, _ := cat.Product(1)
	assert.Equal(t, "Mask A", p.Name)
}

func TestLoader_RebuildsAfterInvalidate(t *testing.T) {
	src := &fakeSource{products: sampleProducts()[:2]}
	l := NewLoader(src, zap.NewNop())
	ctx := context.Background()

	c1, err := l.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fins", "Masks"}, c1.Options().Categories)

	c2, err := l.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.EqualValues(t, 1, src.calls.Load())

	src.set(sampleProducts())
	l.Invalidate()
	c3, err := l.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
	assert.Equal(t, []string{"Computers", "Fins", "Masks", "Regulators"}, c3.Options().Categories)

	_, _, ok := l.Lookup(5, "default")
	assert.True(t, ok)
}

func TestLoader_SourceError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(&fakeSource{err: boom}, zap.NewNop())
	_, err := l.Current(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, l.Snapshot())
}

func TestLoader_ConcurrentCurrent(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	l := NewLoader(src, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cat, err := l.Current(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 5, cat.Len())
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, src.calls.Load(), int32(16))
}

func TestLoader_CancelledCallerDoesNotFailLoad(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	l := NewLoader(src, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cat, err := l.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sampleProducts()), cat.Len())
}
