package repository

import (
	"cmp"
	"context"
	"errors"

	"suncoast/internal/domain"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique key (product ID, blog slug) is taken.
var ErrConflict = errors.New("already exists")

// ProductRepository stores catalog products with their variants.
type ProductRepository interface {
	// Create keeps p.ID when set, otherwise assigns the next free one.
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	// ListAll returns every product ordered by ID.
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
}

type BlogRepository interface {
	Create(ctx context.Context, p *domain.BlogPost) error
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	Update(ctx context.Context, p *domain.BlogPost) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.BlogPost, error)
}

type PromotionRepository interface {
	Get(ctx context.Context, location string) (*domain.Promotion, error)
	Upsert(ctx context.Context, p *domain.Promotion) error
}

// ServiceCatalogRepository stores the services menu. Lists are ordered by
// display order, then ID. Slugs are unique per table.
type ServiceCatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.ServiceCategory, error)
	GetCategory(ctx context.Context, id int64) (*domain.ServiceCategory, error)
	CreateCategory(ctx context.Context, c *domain.ServiceCategory) error
	UpdateCategory(ctx context.Context, c *domain.ServiceCategory) error
	// DeleteCategory also removes the category's subcategories and services.
	DeleteCategory(ctx context.Context, id int64) error

	ListSubcategories(ctx context.Context) ([]domain.ServiceSubcategory, error)
	GetSubcategory(ctx context.Context, id int64) (*domain.ServiceSubcategory, error)
	CreateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error
	UpdateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error
	// DeleteSubcategory moves its services up to the parent category.
	DeleteSubcategory(ctx context.Context, id int64) error

	ListServices(ctx context.Context) ([]domain.ServiceItem, error)
	GetService(ctx context.Context, id int64) (*domain.ServiceItem, error)
	CreateService(ctx context.Context, it *domain.ServiceItem) error
	UpdateService(ctx context.Context, it *domain.ServiceItem) error
	DeleteService(ctx context.Context, id int64) error

	// Reorder sets display orders for rows of one kind. An unknown ID
	// fails the whole call with ErrNotFound.
	Reorder(ctx context.Context, kind domain.ServiceKind, positions []domain.DisplayPosition) error
}

// TxManager runs fn inside one transaction. Repositories called with the
// ctx passed to fn take part in it.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

func cloneProduct(p domain.Product) domain.Product {
	cp := p
	if p.MSRP != nil {
		m := *p.MSRP
		cp.MSRP = &m
	}
	cp.Images = append([]string(nil), p.Images...)
	cp.Variants = make([]domain.Variant, len(p.Variants))
	for i, v := range p.Variants {
		if v.MSRP != nil {
			m := *v.MSRP
			v.MSRP = &m
		}
		v.Specs = append([]domain.Spec(nil), v.Specs...)
		cp.Variants[i] = v
	}
	return cp
}

func cloneOrder(o domain.Order) domain.Order {
	cp := o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return cp
}

func cloneServiceItem(it domain.ServiceItem) domain.ServiceItem {
	cp := it
	if it.Price != nil {
		p := *it.Price
		cp.Price = &p
	}
	cp.Includes = append([]string(nil), it.Includes...)
	return cp
}

// byDisplayOrder is the list order of every service table.
func byDisplayOrder(orderA, orderB int, idA, idB int64) int {
	if c := cmp.Compare(orderA, orderB); c != 0 {
		return c
	}
	return cmp.Compare(idA, idB)
}
