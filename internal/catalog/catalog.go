package catalog

import (
	"sync"

	"suncoast/internal/domain"
)

// Catalog is an immutable snapshot of the full product list. Option lists
// are computed at most once per snapshot; a changed product list means a
// new snapshot, so options can never be derived from stale data.
type Catalog struct {
	version  uint64
	products []domain.Product
	byID     map[int64]int

	optionsOnce sync.Once
	options     Options
}

// New builds a snapshot. products is copied.
func New(version uint64, products []domain.Product) *Catalog {
	cp := make([]domain.Product, len(products))
	copy(cp, products)
	byID := make(map[int64]int, len(cp))
	for i, p := range cp {
		byID[p.ID] = i
	}
	return &Catalog{version: version, products: cp, byID: byID}
}

func (c *Catalog) Version() uint64 { return c.version }

func (c *Catalog) Len() int { return len(c.products) }

// Products returns a copy of the full list in source order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Browse filters, sorts and paginates the snapshot.
func (c *Catalog) Browse(criteria Criteria, pg Page) PageResult {
	res := Filter(c.products, criteria)
	return Paginate(res.Items, pg)
}

// Options returns the filter choices for this snapshot.
func (c *Catalog) Options() Options {
	c.optionsOnce.Do(func() {
		c.options = BuildOptions(c.products)
	})
	return c.options
}

func (c *Catalog) Product(id int64) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Lookup resolves a product variant.
func (c *Catalog) Lookup(productID int64, variantID string) (domain.Product, domain.Variant, bool) {
	p, ok := c.Product(productID)
	if !ok {
		return domain.Product{}, domain.Variant{}, false
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return domain.Product{}, domain.Variant{}, false
	}
	return p, v, true
}

// Related returns up to limit other products of the same category, in
// source order.
func (c *Catalog) Related(id int64, limit int) []domain.Product {
	p, ok := c.Product(id)
	if !ok || limit <= 0 {
		return []domain.Product{}
	}
	out := make([]domain.Product, 0, limit)
	for _, other := range c.products {
		if other.ID == p.ID || other.Category != p.Category {
			continue
		}
		out = append(out, other)
		if len(out) == limit {
			break
		}
	}
	return out
}
