package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suncoast/internal/domain"
)

func sampleProduct(id int64, name string, inventory int64) domain.Product {
	msrp := decimal.RequireFromString("129.95")
	return domain.Product{
		ID:       id,
		Name:     name,
		Brand:    "Atomic",
		Category: "Fins",
		Price:    decimal.RequireFromString("99.95"),
		MSRP:     &msrp,
		Images:   []string{"front.webp", "side.webp"},
		Variants: []domain.Variant{
			{ID: "s", Name: "S", Size: "S", Price: decimal.RequireFromString("99.95"), Inventory: inventory, Default: true,
				Specs: []domain.Spec{{Type: "Blade", Value: "Split"}}},
			{ID: "l", Name: "L", Size: "L", Price: decimal.RequireFromString("104.95"), Inventory: inventory},
		},
	}
}

type stores struct {
	products   ProductRepository
	orders     OrderRepository
	blog       BlogRepository
	promotions PromotionRepository
	services   ServiceCatalogRepository
	tx         TxManager
}

func memoryStores() stores {
	m := NewMemoryStore()
	return stores{
		products:   m,
		orders:     NewMemoryOrders(m),
		blog:       NewMemoryBlog(m),
		promotions: NewMemoryPromotions(m),
		services:   NewMemoryServices(m),
		tx:         NewMemoryTx(m),
	}
}

func testProductCRUD(t *testing.T, s stores) {
	ctx := context.Background()

	p := sampleProduct(0, "Jet Fins", 5)
	require.NoError(t, s.products.Create(ctx, &p))
	require.NotZero(t, p.ID)

	got, err := s.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jet Fins", got.Name)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "s", got.Variants[0].ID)
	assert.True(t, got.Variants[0].Default)
	assert.Equal(t, []domain.Spec{{Type: "Blade", Value: "Split"}}, got.Variants[0].Specs)
	assert.True(t, got.Variants[1].Price.Equal(decimal.RequireFromString("104.95")))
	require.NotNil(t, got.MSRP)
	assert.True(t, got.MSRP.Equal(decimal.RequireFromString("129.95")))
	assert.Equal(t, []string{"front.webp", "side.webp"}, got.Images)

	explicit := sampleProduct(42, "Mask", 1)
	require.NoError(t, s.products.Create(ctx, &explicit))
	assert.EqualValues(t, 42, explicit.ID)
	dup := sampleProduct(42, "Other", 1)
	assert.ErrorIs(t, s.products.Create(ctx, &dup), ErrConflict)

	got.Price = decimal.RequireFromString("89.95")
	got.Variants = got.Variants[:1]
	got.Variants[0].Inventory = 2
	require.NoError(t, s.products.Update(ctx, got))
	again, err := s.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Price.Equal(decimal.RequireFromString("89.95")))
	require.Len(t, again.Variants, 1)
	assert.EqualValues(t, 2, again.Variants[0].Inventory)

	all, err := s.products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)

	require.NoError(t, s.products.Delete(ctx, p.ID))
	_, err = s.products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.products.Delete(ctx, p.ID), ErrNotFound)

	missing := sampleProduct(9999, "Ghost", 1)
	assert.ErrorIs(t, s.products.Update(ctx, &missing), ErrNotFound)
}

func testTransactionalStock(t *testing.T, s stores) {
	ctx := context.Background()

	p := sampleProduct(0, "Regulator", 5)
	require.NoError(t, s.products.Create(ctx, &p))

	var orderID int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := s.products.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		pp.Variants[0].Inventory -= 3
		if err := s.products.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{
			CustomerName: "John",
			Items: []domain.OrderItem{{
				ProductID: p.ID, VariantID: "s", Name: "Regulator", Quantity: 3,
				UnitPrice: decimal.RequireFromString("99.95"),
			}},
			Total:  decimal.RequireFromString("299.85"),
			Status: domain.OrderStatusConfirmed,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		orderID = o.ID
		return nil
	})
	require.NoError(t, err)

	pp, err := s.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, pp.Variants[0].Inventory)

	o, err := s.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.RequireFromString("99.95")))
	assert.False(t, o.CreatedAt.IsZero())

	o.Status = domain.OrderStatusCancelled
	require.NoError(t, s.orders.Update(ctx, o))
	o, err = s.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)

	_, err = s.orders.GetByID(ctx, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testBlogAndPromotions(t *testing.T, s stores) {
	ctx := context.Background()

	post := domain.BlogPost{Slug: "night-diving-0", Title: "Night Diving", Author: "Kim", Published: true}
	require.NoError(t, s.blog.Create(ctx, &post))
	require.NotZero(t, post.ID)

	clash := domain.BlogPost{Slug: "night-diving-0", Title: "Again"}
	assert.ErrorIs(t, s.blog.Create(ctx, &clash), ErrConflict)

	other := domain.BlogPost{Slug: "reef-etiquette-1", Title: "Reef Etiquette"}
	require.NoError(t, s.blog.Create(ctx, &other))
	other.Slug = "night-diving-0"
	assert.ErrorIs(t, s.blog.Update(ctx, &other), ErrConflict)

	post.Title = "Night Diving 101"
	require.NoError(t, s.blog.Update(ctx, &post))
	got, err := s.blog.GetBySlug(ctx, "night-diving-0")
	require.NoError(t, err)
	assert.Equal(t, "Night Diving 101", got.Title)

	list, err := s.blog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.blog.Delete(ctx, post.ID))
	_, err = s.blog.GetBySlug(ctx, "night-diving-0")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.promotions.Get(ctx, "home")
	assert.ErrorIs(t, err, ErrNotFound)
	promo := domain.Promotion{Location: "home", Heading: "Spring Sale", Active: true}
	require.NoError(t, s.promotions.Upsert(ctx, &promo))
	promo.Heading = "Summer Sale"
	require.NoError(t, s.promotions.Upsert(ctx, &promo))
	gotPromo, err := s.promotions.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", gotPromo.Heading)
	assert.True(t, gotPromo.Active)
}

func testServiceCatalog(t *testing.T, s stores) {
	ctx := context.Background()
	repo := s.services

	dive := domain.ServiceCategory{Name: "Dive Charters", Slug: "dive-charters", DisplayOrder: 2, Active: true}
	require.NoError(t, repo.CreateCategory(ctx, &dive))
	fills := domain.ServiceCategory{Name: "Air Fills", Slug: "air-fills", DisplayOrder: 1, Active: true}
	require.NoError(t, repo.CreateCategory(ctx, &fills))
	require.NotZero(t, dive.ID)

	clash := domain.ServiceCategory{Name: "Again", Slug: "air-fills"}
	assert.ErrorIs(t, repo.CreateCategory(ctx, &clash), ErrConflict)
	dive.Slug = "air-fills"
	assert.ErrorIs(t, repo.UpdateCategory(ctx, &dive), ErrConflict)
	dive.Slug = "dive-charters"

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "air-fills", cats[0].Slug, "ordered by display order")

	wrecks := domain.ServiceSubcategory{CategoryID: dive.ID, Name: "Wreck Dives", Slug: "wreck-dives", Active: true}
	require.NoError(t, repo.CreateSubcategory(ctx, &wrecks))
	price := decimal.RequireFromString("125")
	narcissus := domain.ServiceItem{
		CategoryID: dive.ID, SubcategoryID: wrecks.ID, Name: "USS Narcissus Wreck", Slug: "uss-narcissus",
		Price: &price, Depth: "80-90 ft", Includes: []string{"Tanks", "Weights"}, Active: true,
	}
	require.NoError(t, repo.CreateService(ctx, &narcissus))
	fill := domain.ServiceItem{CategoryID: fills.ID, Name: "Standard Air Fill", Slug: "standard-air-fill", PriceText: "$8", Active: true}
	require.NoError(t, repo.CreateService(ctx, &fill))

	got, err := repo.GetService(ctx, narcissus.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, []string{"Tanks", "Weights"}, got.Includes)
	assert.Equal(t, wrecks.ID, got.SubcategoryID)

	require.NoError(t, repo.DeleteSubcategory(ctx, wrecks.ID))
	got, err = repo.GetService(ctx, narcissus.ID)
	require.NoError(t, err)
	assert.Zero(t, got.SubcategoryID, "services move up to the category")
	assert.Equal(t, dive.ID, got.CategoryID)
	_, err = repo.GetSubcategory(ctx, wrecks.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Reorder(ctx, domain.ServiceKindCategory, []domain.DisplayPosition{
		{ID: dive.ID, DisplayOrder: 1},
		{ID: 9999, DisplayOrder: 2},
	})
	assert.ErrorIs(t, err, ErrNotFound)
	cats, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "air-fills", cats[0].Slug, "failed reorder changes nothing")

	require.NoError(t, repo.Reorder(ctx, domain.ServiceKindCategory, []domain.DisplayPosition{
		{ID: dive.ID, DisplayOrder: 1},
		{ID: fills.ID, DisplayOrder: 2},
	}))
	cats, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dive-charters", cats[0].Slug)

	require.NoError(t, repo.DeleteCategory(ctx, dive.ID))
	_, err = repo.GetService(ctx, narcissus.ID)
	assert.ErrorIs(t, err, ErrNotFound, "deleting a category deletes its services")
	items, err := repo.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "standard-air-fill", items[0].Slug)
	assert.ErrorIs(t, repo.DeleteCategory(ctx, dive.ID), ErrNotFound)
}

func TestMemoryStore_ProductCRUD(t *testing.T) {
	testProductCRUD(t, memoryStores())
}

func TestMemoryTx_TransactionalUpdate(t *testing.T) {
	testTransactionalStock(t, memoryStores())
}

func TestMemoryStore_BlogAndPromotions(t *testing.T) {
	testBlogAndPromotions(t, memoryStores())
}

func TestMemoryStore_ServiceCatalog(t *testing.T) {
	testServiceCatalog(t, memoryStores())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := sampleProduct(0, "Snorkel", 3)
	require.NoError(t, store.Create(ctx, &p))

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Variants[0].Inventory = 0
	got.Images[0] = "changed.webp"

	again, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, again.Variants[0].Inventory)
	assert.Equal(t, "front.webp", again.Images[0])
}

func TestMemoryTx_NestedReusesOuter(t *testing.T) {
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	boom := errors.New("boom")

	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithTransaction(ctx, func(ctx context.Context) error {
			p := sampleProduct(0, "Hood", 1)
			if err := store.Create(ctx, &p); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
}
