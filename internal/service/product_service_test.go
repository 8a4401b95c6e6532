package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"suncoast/internal/cart"
	"suncoast/internal/catalog"
	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

type fixture struct {
	store    *repository.MemoryStore
	loader   *catalog.Loader
	carts    *cart.MemoryStore
	products *ProductService
	orders   *OrderService
	blog     *BlogService
	promos   *PromotionService
	services *ServiceCatalogService
	search   *SearchService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	store := repository.NewMemoryStore()
	loader := catalog.NewLoader(store, log)
	carts := cart.NewMemoryStore(loader)

	f := &fixture{store: store, loader: loader, carts: carts}
	f.products = NewProductService(store, loader, log)
	f.orders = NewOrderService(store, repository.NewMemoryOrders(store), repository.NewMemoryTx(store), carts, loader, log)
	f.blog = NewBlogService(repository.NewMemoryBlog(store))
	f.promos = NewPromotionService(repository.NewMemoryPromotions(store))
	f.services = NewServiceCatalogService(repository.NewMemoryServices(store))
	f.search = NewSearchService(f.products, f.blog, DefaultPages)
	return f
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func gearItem(name, category, brand, price string, inventory int64) domain.Product {
	return domain.Product{
		Name:     name,
		Category: category,
		Brand:    brand,
		Price:    money(price),
		Variants: []domain.Variant{{ID: "default", Name: name, Price: money(price), Inventory: inventory}},
	}
}

func mustCreate(t *testing.T, ps *ProductService, p domain.Product) *domain.Product {
	t.Helper()
	created, err := ps.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestProduct_Create_Valid(t *testing.T) {
	f := setup(t)
	p := mustCreate(t, f.products, domain.Product{Name: "Dive Flag", Price: money("25")})

	assert.NotZero(t, p.ID)
	require.Len(t, p.Variants, 1)
	assert.True(t, p.Variants[0].Default)
	assert.Equal(t, catalog.DefaultVariantID, p.Variants[0].ID)
}

func TestProduct_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	cases := map[string]domain.Product{
		"empty name":     {Name: "", Price: money("1")},
		"negative price": {Name: "N", Price: money("-1")},
		"no price":       {Name: "N"},
		"negative stock": {Name: "N", Variants: []domain.Variant{{ID: "a", Price: money("1"), Inventory: -1}}},
		"negative id":    {ID: -4, Name: "N", Price: money("1")},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.products.Create(ctx, p)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	p := mustCreate(t, f.products, domain.Product{ID: 13, Name: "B2X", Price: money("1099")})
	_, err := f.products.Create(ctx, domain.Product{ID: p.ID, Name: "Dup", Price: money("1")})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestProduct_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := mustCreate(t, f.products, gearItem("Mask", "Masks", "Atomic", "60", 5))

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got.Name = "Mask+"
	got.Price = money("65")
	got.Variants[0].Price = money("65")
	up, err := f.products.Update(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "Mask+", up.Name)

	fromCatalog, err := f.products.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mask+", fromCatalog.Name)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err = f.products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.products.Product(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.products.GetByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestProduct_BrowseFollowsWrites(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	mustCreate(t, f.products, gearItem("Mask A", "Masks", "Oceanic", "50", 1))
	mustCreate(t, f.products, gearItem("Fin B", "Fins", "Atomic", "120", 1))
	mustCreate(t, f.products, gearItem("Mask C", "Masks", "Atomic", "80", 1))

	res, err := f.products.Browse(ctx, catalog.Criteria{Categories: []string{"Masks"}, SortBy: catalog.SortPriceAsc}, catalog.Page{Number: 1, Size: 24})
	require.NoError(t, err)
	assert.Equal(t, 2, res.MatchedCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Mask A", res.Items[0].Name)

	opts, err := f.products.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fins", "Masks"}, opts.Categories)

	mustCreate(t, f.products, gearItem("Tern", "Computers", "Shearwater", "650", 1))
	opts, err = f.products.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computers", "Fins", "Masks"}, opts.Categories)
	assert.True(t, opts.PriceRange.Max.Equal(money("650")))

	_, err = f.products.Browse(ctx, catalog.Criteria{SortBy: "popular"}, catalog.Page{Number: 1, Size: 24})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProduct_Related(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := mustCreate(t, f.products, gearItem("Mask A", "Masks", "Oceanic", "50", 1))
	mustCreate(t, f.products, gearItem("Fin B", "Fins", "Atomic", "120", 1))
	c := mustCreate(t, f.products, gearItem("Mask C", "Masks", "Atomic", "80", 1))

	related, err := f.products.Related(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, c.ID, related[0].ID)

	_, err = f.products.Related(ctx, 999, 4)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProduct_ImportReplacesExisting(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	first := gearItem("Mask", "Masks", "Atomic", "60", 5)
	first.ID = 7
	require.NoError(t, f.products.Import(ctx, []domain.Product{first}))

	second := first
	second.Name = "Mask v2"
	require.NoError(t, f.products.Import(ctx, []domain.Product{second}))

	got, err := f.products.Product(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Mask v2", got.Name)
}
