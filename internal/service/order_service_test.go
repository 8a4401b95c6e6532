package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

// slowTx holds every transaction open for a moment so concurrent
// checkouts overlap.
type slowTx struct {
	repository.TxManager
	delay time.Duration
}

func (s slowTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	time.Sleep(s.delay)
	return s.TxManager.WithTransaction(ctx, fn)
}

func addToCart(t *testing.T, f *fixture, session string, p *domain.Product, variantID string, qty int64) {
	t.Helper()
	c, err := f.carts.Get(context.Background(), session)
	require.NoError(t, err)
	_, v, ok := f.loader.Lookup(p.ID, variantID)
	require.True(t, ok, "variant %s of %d not in catalog", variantID, p.ID)
	c.AddItem(*p, v, qty)
}

func inventory(t *testing.T, f *fixture, id int64) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Variants[0].Inventory
}

func TestCheckoutAndCancel(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p1 := mustCreate(t, f.products, gearItem("Mask", "Masks", "Atomic", "59.95", 5))
	p2 := mustCreate(t, f.products, gearItem("Fins", "Fins", "Atomic", "150", 2))

	addToCart(t, f, "sess-1", p1, "default", 3)
	addToCart(t, f, "sess-1", p2, "default", 2)

	o, err := f.orders.Checkout(ctx, "sess-1", "John Diver", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
	assert.Equal(t, "sess-1", o.SessionID)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Total.Equal(money("479.85")), o.Total.String())

	assert.EqualValues(t, 2, inventory(t, f, p1.ID))
	assert.EqualValues(t, 0, inventory(t, f, p2.ID))

	c, err := f.carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Zero(t, c.Len(), "cart cleared after checkout")

	// catalog snapshot reflects the new stock
	_, v, ok := f.loader.Lookup(p2.ID, "default")
	require.True(t, ok)
	assert.EqualValues(t, 0, v.Inventory)

	cancelled, err := f.orders.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.EqualValues(t, 5, inventory(t, f, p1.ID))
	assert.EqualValues(t, 2, inventory(t, f, p2.ID))

	got, err := f.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
}

func TestCheckout_FreezesPrices(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := mustCreate(t, f.products, gearItem("Computer", "Computers", "Shearwater", "450", 3))
	addToCart(t, f, "s", p, "default", 1)

	o, err := f.orders.Checkout(ctx, "s", "Kim", "kim@example.com")
	require.NoError(t, err)

	updated := *p
	updated.Price = money("500")
	updated.Variants = []domain.Variant{{ID: "default", Name: p.Name, Price: money("500"), Inventory: 2}}
	_, err = f.products.Update(ctx, updated)
	require.NoError(t, err)

	got, err := f.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].UnitPrice.Equal(money("450")))
	assert.True(t, got.Total.Equal(money("450")))
}

func TestCheckout_NotEnoughStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p1 := mustCreate(t, f.products, gearItem("Mask", "Masks", "Atomic", "10", 5))
	p2 := mustCreate(t, f.products, gearItem("Knife", "Knives", "Atomic", "20", 1))
	addToCart(t, f, "s", p1, "default", 2)
	addToCart(t, f, "s", p2, "default", 2)

	_, err := f.orders.Checkout(ctx, "s", "John", "john@example.com")
	assert.ErrorIs(t, err, ErrNotEnoughStock)

	// nothing written, cart kept
	assert.EqualValues(t, 5, inventory(t, f, p1.ID))
	c, _ := f.carts.Get(ctx, "s")
	assert.Equal(t, 2, c.Len())
}

func TestCheckout_EmptyCartAndInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.orders.Checkout(ctx, "fresh", "John", "john@example.com")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.carts.Len(), "a failed checkout creates no cart")

	_, err = f.orders.Checkout(ctx, "fresh", "", "john@example.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.orders.Checkout(ctx, "fresh", "John", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.orders.Checkout(ctx, "", "John", "john@example.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckout_ProductRemoved(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := mustCreate(t, f.products, gearItem("Hood", "Wetsuits", "Bare", "40", 3))
	addToCart(t, f, "s", p, "default", 1)
	require.NoError(t, f.products.Delete(ctx, p.ID))

	_, err := f.orders.Checkout(ctx, "s", "John", "john@example.com")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelOrder_InvalidState(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := mustCreate(t, f.products, gearItem("Mask", "Masks", "Atomic", "10", 10))
	addToCart(t, f, "s", p, "default", 2)

	o, err := f.orders.Checkout(ctx, "s", "Jane", "jane@example.com")
	require.NoError(t, err)
	_, err = f.orders.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.orders.CancelOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.orders.CancelOrder(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.orders.GetOrder(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCheckout_ConcurrentSameCartPlacesOneOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	orders := NewOrderService(f.store, repository.NewMemoryOrders(f.store),
		slowTx{TxManager: repository.NewMemoryTx(f.store), delay: 20 * time.Millisecond},
		f.carts, f.loader, zap.NewNop())
	p := mustCreate(t, f.products, gearItem("Mask", "Masks", "Atomic", "40", 5))
	addToCart(t, f, "s", p, "default", 1)

	const callers = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		placed  []*domain.Order
		empties int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := orders.Checkout(ctx, "s", "John", "john@example.com")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed = append(placed, o)
			case assert.ErrorIs(t, err, ErrEmptyCart):
				empties++
			}
		}()
	}
	wg.Wait()

	require.Len(t, placed, 1)
	assert.Equal(t, callers-1, empties)
	assert.EqualValues(t, 4, inventory(t, f, p.ID))

	c, err := f.carts.Get(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}
