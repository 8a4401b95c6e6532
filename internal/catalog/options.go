package catalog

import (
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"suncoast/internal/domain"
)

// Options are the filter choices offered for a product list. They must be
// derived from the full catalog, never from a filtered subset.
type Options struct {
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	Badges     []string   `json:"badges"`
	PriceRange PriceRange `json:"price_range"`
}

// BuildOptions derives every option list from products.
func BuildOptions(products []domain.Product) Options {
	return Options{
		Categories: DistinctCategories(products),
		Brands:     DistinctBrands(products),
		Badges:     DistinctBadges(products),
		PriceRange: PriceBounds(products),
	}
}

func DistinctCategories(products []domain.Product) []string {
	return distinct(products, func(p domain.Product) string { return p.Category })
}

func DistinctBrands(products []domain.Product) []string {
	return distinct(products, func(p domain.Product) string { return p.Brand })
}

func DistinctBadges(products []domain.Product) []string {
	return distinct(products, func(p domain.Product) string { return p.Badge })
}

// PriceBounds is the [min, max] comparison price over products, or a zero
// range when there are none.
func PriceBounds(products []domain.Product) PriceRange {
	if len(products) == 0 {
		return PriceRange{Min: decimal.Zero, Max: decimal.Zero}
	}
	lo, hi := products[0].ComparisonPrice(), products[0].ComparisonPrice()
	for _, p := range products[1:] {
		cp := p.ComparisonPrice()
		if cp.LessThan(lo) {
			lo = cp
		}
		if cp.GreaterThan(hi) {
			hi = cp
		}
	}
	return PriceRange{Min: lo, Max: hi}
}

func distinct(products []domain.Product, field func(domain.Product) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, collate.New(language.AmericanEnglish).CompareString)
	return out
}
