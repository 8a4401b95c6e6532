// Package catalog implements catalog browsing: filtering, sorting and
// pagination over an already-loaded product list, plus the option lists
// (categories, brands, badges, price bounds) the storefront offers as
// filters. Everything here is a pure function of its inputs.
package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"suncoast/internal/domain"
)

// SortOption selects the ordering of a filtered product list.
type SortOption string

const (
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNewest    SortOption = "newest"
)

// Valid reports whether s is a known option. The empty option is valid and
// keeps source order.
func (s SortOption) Valid() bool {
	switch s {
	case "", SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	}
	return false
}

// PriceRange is an inclusive [Min, Max] bound on the comparison price.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Normalized swaps the bounds when Min > Max.
func (r PriceRange) Normalized() PriceRange {
	if r.Min.GreaterThan(r.Max) {
		return PriceRange{Min: r.Max, Max: r.Min}
	}
	return r
}

// Contains reports whether d lies within the inclusive range.
func (r PriceRange) Contains(d decimal.Decimal) bool {
	return !d.LessThan(r.Min) && !d.GreaterThan(r.Max)
}

// Criteria are the filters the shopper has selected. Empty selections
// impose no constraint.
type Criteria struct {
	Search     string
	Categories []string
	Brands     []string
	Badges     []string
	PriceRange *PriceRange
	SortBy     SortOption
}

// Result is the matched, sorted product list.
type Result struct {
	MatchedCount int              `json:"matched_count"`
	Items        []domain.Product `json:"items"`
}

// Filter applies c to products and returns the matches in the requested
// order. The input slice is not modified.
func Filter(products []domain.Product, c Criteria) Result {
	m := newMatcher(c)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}
	Sort(out, c.SortBy)
	return Result{MatchedCount: len(out), Items: out}
}

// Sort orders products in place. The sort is stable: products with equal
// keys keep their relative order.
func Sort(products []domain.Product, by SortOption) {
	switch by {
	case SortNameAsc, SortNameDesc:
		col := collate.New(language.AmericanEnglish)
		sign := 1
		if by == SortNameDesc {
			sign = -1
		}
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return sign * col.CompareString(a.Name, b.Name)
		})
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.ComparisonPrice().Cmp(b.ComparisonPrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.ComparisonPrice().Cmp(a.ComparisonPrice())
		})
	case SortNewest:
		slices.SortStableFunc(products, compareNewest)
	}
}

// compareNewest lists "New Arrival" products first, then higher IDs first.
func compareNewest(a, b domain.Product) int {
	aNew, bNew := a.Badge == domain.BadgeNewArrival, b.Badge == domain.BadgeNewArrival
	switch {
	case aNew && !bNew:
		return -1
	case bNew && !aNew:
		return 1
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}

type matcher struct {
	query      string
	categories map[string]struct{}
	brands     map[string]struct{}
	badges     map[string]struct{}
	price      *PriceRange
}

func newMatcher(c Criteria) matcher {
	m := matcher{
		query:      strings.ToLower(strings.TrimSpace(c.Search)),
		categories: toSet(c.Categories),
		brands:     toSet(c.Brands),
		badges:     toSet(c.Badges),
	}
	if c.PriceRange != nil {
		r := c.PriceRange.Normalized()
		m.price = &r
	}
	return m
}

func (m matcher) match(p domain.Product) bool {
	if !inSet(m.categories, p.Category) || !inSet(m.brands, p.Brand) {
		return false
	}
	if m.badges != nil && (p.Badge == "" || !inSet(m.badges, p.Badge)) {
		return false
	}
	if m.price != nil && !m.price.Contains(p.ComparisonPrice()) {
		return false
	}
	return m.query == "" ||
		containsFold(p.Name, m.query) ||
		containsFold(p.Brand, m.query) ||
		containsFold(p.Description, m.query) ||
		containsFold(p.Category, m.query)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as "no constraint".
func inSet(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

// containsFold expects lowerQuery to already be lower-cased.
func containsFold(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}
