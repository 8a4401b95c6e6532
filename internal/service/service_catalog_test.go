package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

func pricePtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func TestServiceCatalog_MenuHidesInactiveRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := f.services

	repairs, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Equipment Repair", Active: true})
	require.NoError(t, err)
	hidden, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Travel", Active: false})
	require.NoError(t, err)
	regs, err := svc.CreateSubcategory(ctx, domain.ServiceSubcategory{CategoryID: repairs.ID, Name: "Regulator Service", Active: true})
	require.NoError(t, err)
	bcd, err := svc.CreateSubcategory(ctx, domain.ServiceSubcategory{CategoryID: repairs.ID, Name: "BCD Service", Active: false})
	require.NoError(t, err)

	_, err = svc.CreateService(ctx, domain.ServiceItem{CategoryID: repairs.ID, SubcategoryID: regs.ID, Name: "Annual Regulator Service", Price: pricePtr("85"), Active: true, Featured: true})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, domain.ServiceItem{CategoryID: repairs.ID, SubcategoryID: regs.ID, Name: "Octopus Service", Price: pricePtr("45"), Active: false})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, domain.ServiceItem{CategoryID: repairs.ID, SubcategoryID: bcd.ID, Name: "Inflator Service", Price: pricePtr("35"), Active: true})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, domain.ServiceItem{CategoryID: repairs.ID, Name: "Screen Replacement", PriceText: "Quote", Active: true})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, domain.ServiceItem{CategoryID: hidden.ID, Name: "Cozumel Trip", PriceText: "Call", Active: true})
	require.NoError(t, err)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "equipment-repair", menu[0].Slug)
	require.Len(t, menu[0].Services, 1)
	assert.Equal(t, "Screen Replacement", menu[0].Services[0].Name)
	require.Len(t, menu[0].Subcategories, 1)
	sub := menu[0].Subcategories[0]
	assert.Equal(t, "regulator-service", sub.Slug)
	require.Len(t, sub.Services, 1)
	assert.Equal(t, "Annual Regulator Service", sub.Services[0].Name)

	all, err := svc.Services(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	featured, err := svc.Services(ctx, "equipment-repair", true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "annual-regulator-service", featured[0].Slug)

	_, err = svc.Services(ctx, "travel", false)
	assert.ErrorIs(t, err, repository.ErrNotFound, "hidden categories are unknown to the public")
	_, err = svc.ServiceBySlug(ctx, "inflator-service")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	listing, err := svc.Listing(ctx)
	require.NoError(t, err)
	assert.Len(t, listing.Categories, 2)
	assert.Len(t, listing.Subcategories, 2)
	assert.Len(t, listing.Services, 5)
}

func TestServiceCatalog_SlugsAndOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := f.services

	first, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "  Air & Tank Services ", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "Air & Tank Services", first.Name)
	assert.Equal(t, "air-tank-services", first.Slug)
	assert.Equal(t, 1, first.DisplayOrder)

	second, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Air Tank Services", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "air-tank-services-2", second.Slug)
	assert.Equal(t, 2, second.DisplayOrder)

	renamed, err := svc.UpdateCategory(ctx, second.ID, domain.ServiceCategory{Name: "Tank Services", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "air-tank-services-2", renamed.Slug, "an empty slug keeps the current one")
	assert.Equal(t, second.CreatedAt, renamed.CreatedAt)

	_, err = svc.UpdateCategory(ctx, second.ID, domain.ServiceCategory{Name: "Tank Services", Slug: "air-tank-services"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = svc.CreateCategory(ctx, domain.ServiceCategory{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateCategory(ctx, 999, domain.ServiceCategory{Name: "Ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestServiceCatalog_ValidatesServices(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := f.services

	courses, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Courses", Active: true})
	require.NoError(t, err)
	charters, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Charters", Active: true})
	require.NoError(t, err)
	wrecks, err := svc.CreateSubcategory(ctx, domain.ServiceSubcategory{CategoryID: charters.ID, Name: "Wreck Dives", Active: true})
	require.NoError(t, err)

	cases := map[string]domain.ServiceItem{
		"no name":             {CategoryID: courses.ID},
		"no category":         {Name: "Rescue Diver"},
		"unknown category":    {CategoryID: 999, Name: "Rescue Diver"},
		"price and text":      {CategoryID: courses.ID, Name: "Rescue Diver", Price: pricePtr("449"), PriceText: "$449"},
		"negative price":      {CategoryID: courses.ID, Name: "Rescue Diver", Price: pricePtr("-1")},
		"foreign subcategory": {CategoryID: courses.ID, SubcategoryID: wrecks.ID, Name: "Wreck Specialty"},
		"unknown subcategory": {CategoryID: charters.ID, SubcategoryID: 999, Name: "Wreck Trip"},
	}
	for name, it := range cases {
		_, err := svc.CreateService(ctx, it)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}

	it, err := svc.CreateService(ctx, domain.ServiceItem{
		CategoryID: courses.ID,
		Name:       "Nitrox Specialty",
		Price:      pricePtr("199.004"),
		Includes:   []string{" Theory & analysis ", "", "2 nitrox dives"},
		Active:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "199", it.Price.String())
	assert.Equal(t, []string{"Theory & analysis", "2 nitrox dives"}, it.Includes)
	assert.Equal(t, "$199", ServicePrice(*it))

	moved, err := svc.UpdateService(ctx, it.ID, domain.ServiceItem{Name: "Nitrox Specialty", PriceText: "$199 + card", Active: true})
	require.NoError(t, err)
	assert.Equal(t, courses.ID, moved.CategoryID, "category kept when omitted")
	assert.Nil(t, moved.Price)
	assert.Equal(t, "$199 + card", ServicePrice(*moved))
	assert.Equal(t, it.Slug, moved.Slug)

	require.NoError(t, svc.DeleteService(ctx, it.ID))
	assert.ErrorIs(t, svc.DeleteService(ctx, it.ID), repository.ErrNotFound)
}

func TestServicePrice(t *testing.T) {
	assert.Equal(t, "$85", ServicePrice(domain.ServiceItem{Price: pricePtr("85")}))
	assert.Equal(t, "$12.50", ServicePrice(domain.ServiceItem{Price: pricePtr("12.5")}))
	assert.Equal(t, "$45-95", ServicePrice(domain.ServiceItem{PriceText: "$45-95"}))
	assert.Equal(t, "", ServicePrice(domain.ServiceItem{}))
}

func TestServiceCatalog_Reorder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := f.services

	a, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Courses", Active: true})
	require.NoError(t, err)
	b, err := svc.CreateCategory(ctx, domain.ServiceCategory{Name: "Charters", Active: true})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Reorder(ctx, "widgets", []domain.DisplayPosition{{ID: a.ID, DisplayOrder: 1}}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Reorder(ctx, domain.ServiceKindCategory, nil), ErrInvalidInput)
	assert.ErrorIs(t, svc.Reorder(ctx, domain.ServiceKindCategory, []domain.DisplayPosition{
		{ID: a.ID, DisplayOrder: 1}, {ID: a.ID, DisplayOrder: 2},
	}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Reorder(ctx, domain.ServiceKindCategory, []domain.DisplayPosition{
		{ID: b.ID, DisplayOrder: 1}, {ID: 999, DisplayOrder: 2},
	}), repository.ErrNotFound)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, "courses", menu[0].Slug)

	require.NoError(t, svc.Reorder(ctx, domain.ServiceKindCategory, []domain.DisplayPosition{
		{ID: b.ID, DisplayOrder: 1}, {ID: a.ID, DisplayOrder: 2},
	}))
	menu, err = svc.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, "charters", menu[0].Slug)
}
