// Package cart holds the shopper's in-session cart: ordered lines of
// (product, variant, quantity), with item count and subtotal derived on
// every read from current catalog prices.
package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"suncoast/internal/domain"
)

// Line references a product variant by ID so it survives catalog reloads.
type Line struct {
	ProductID int64  `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

// PriceSource resolves a variant against the live catalog.
type PriceSource interface {
	Lookup(productID int64, variantID string) (domain.Product, domain.Variant, bool)
}

// PricedLine is a Line with the catalog data current at read time. A line
// whose variant has left the catalog is not Available and adds nothing to
// the subtotal.
type PricedLine struct {
	Line
	Name      string          `json:"name"`
	Variant   string          `json:"variant"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
}

// Snapshot is the cart as observers and the UI see it.
type Snapshot struct {
	Lines     []PricedLine    `json:"lines"`
	ItemCount int64           `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// EmptySnapshot is what a session without a cart sees.
func EmptySnapshot() Snapshot {
	return Snapshot{Lines: []PricedLine{}, Subtotal: decimal.Zero}
}

// Observer is notified synchronously after every mutation.
type Observer func(Snapshot)

// Cart is safe for concurrent use. Observers run after the cart lock is
// released, so they may read the cart.
type Cart struct {
	prices PriceSource

	mu    sync.Mutex
	lines []Line

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]Observer
}

func New(prices PriceSource) *Cart {
	return &Cart{prices: prices, observers: make(map[int]Observer)}
}

// Restore builds a cart from previously saved lines. Duplicate
// (product, variant) pairs are merged and non-positive quantities dropped.
func Restore(prices PriceSource, lines []Line) *Cart {
	c := New(prices)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.indexOf(l.ProductID, l.VariantID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Subscribe registers o and returns a function that unregisters it.
func (c *Cart) Subscribe(o Observer) (unsubscribe func()) {
	c.obsMu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = o
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// AddItem increments the line for (product, variant) or appends a new one.
// A quantity below 1 is treated as 1.
func (c *Cart) AddItem(product domain.Product, variant domain.Variant, quantity int64) Snapshot {
	if quantity < 1 {
		quantity = 1
	}
	return c.mutate(func() {
		if i := c.indexOf(product.ID, variant.ID); i >= 0 {
			c.lines[i].Quantity += quantity
			return
		}
		c.lines = append(c.lines, Line{ProductID: product.ID, VariantID: variant.ID, Quantity: quantity})
	})
}

// UpdateQuantity sets a line's quantity; quantity <= 0 removes the line.
// A missing line is left alone.
func (c *Cart) UpdateQuantity(productID int64, variantID string, quantity int64) Snapshot {
	if quantity <= 0 {
		return c.RemoveItem(productID, variantID)
	}
	return c.mutate(func() {
		if i := c.indexOf(productID, variantID); i >= 0 {
			c.lines[i].Quantity = quantity
		}
	})
}

// RemoveItem deletes the line if present.
func (c *Cart) RemoveItem(productID int64, variantID string) Snapshot {
	return c.mutate(func() {
		if i := c.indexOf(productID, variantID); i >= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
	})
}

// Clear empties the cart.
func (c *Cart) Clear() Snapshot {
	return c.mutate(func() {
		c.lines = nil
	})
}

// Take empties the cart and returns the lines it held, in one step, so two
// callers can never both receive the same lines.
func (c *Cart) Take() []Line {
	c.mu.Lock()
	taken := c.lines
	c.lines = nil
	c.mu.Unlock()

	if len(taken) > 0 {
		c.notify(c.price(nil))
	}
	return taken
}

// PutBack returns lines taken by Take. They go ahead of anything added in
// the meantime, merging quantities on matching lines.
func (c *Cart) PutBack(lines []Line) Snapshot {
	return c.mutate(func() {
		merged := make([]Line, 0, len(lines)+len(c.lines))
		merged = append(merged, lines...)
		for _, l := range c.lines {
			if i := slices.IndexFunc(merged, func(m Line) bool {
				return m.ProductID == l.ProductID && m.VariantID == l.VariantID
			}); i >= 0 {
				merged[i].Quantity += l.Quantity
				continue
			}
			merged = append(merged, l)
		}
		c.lines = merged
	})
}

// Lines returns a copy of the lines in display order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLines()
}

func (c *Cart) ItemCount() int64 {
	return c.Snapshot().ItemCount
}

func (c *Cart) Subtotal() decimal.Decimal {
	return c.Snapshot().Subtotal
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Snapshot prices every line against the catalog as it is now.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	lines := c.copyLines()
	c.mu.Unlock()
	return c.price(lines)
}

func (c *Cart) mutate(fn func()) Snapshot {
	c.mu.Lock()
	fn()
	lines := c.copyLines()
	c.mu.Unlock()

	snap := c.price(lines)
	c.notify(snap)
	return snap
}

func (c *Cart) notify(snap Snapshot) {
	c.obsMu.Lock()
	observers := make([]Observer, 0, len(c.observers))
	for id := 0; id < c.nextObsID; id++ {
		if o, ok := c.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	c.obsMu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func (c *Cart) price(lines []Line) Snapshot {
	snap := Snapshot{Lines: make([]PricedLine, 0, len(lines)), Subtotal: decimal.Zero}
	for _, l := range lines {
		pl := PricedLine{Line: l, UnitPrice: decimal.Zero, LineTotal: decimal.Zero}
		if p, v, ok := c.prices.Lookup(l.ProductID, l.VariantID); ok {
			pl.Name = p.Name
			pl.Variant = v.Name
			pl.Image = p.PrimaryImage()
			pl.UnitPrice = v.Price
			pl.LineTotal = v.Price.Mul(decimal.NewFromInt(l.Quantity))
			pl.Available = true
		}
		snap.ItemCount += l.Quantity
		snap.Subtotal = snap.Subtotal.Add(pl.LineTotal)
		snap.Lines = append(snap.Lines, pl)
	}
	return snap
}

// indexOf must be called with c.mu held (or before the cart is shared).
func (c *Cart) indexOf(productID int64, variantID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID && l.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (c *Cart) copyLines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
