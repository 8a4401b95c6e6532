package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"suncoast/internal/domain"
)

// ErrInvalidProduct is returned for catalog records that fail validation.
var ErrInvalidProduct = errors.New("invalid product")

// DefaultVariantID names the variant synthesized for products listed
// without variants.
const DefaultVariantID = "default"

// RawProduct is a product record as exported from the inventory sheet:
// prices are currency strings and most fields are optional.
type RawProduct struct {
	ID          int64        `json:"ID"`
	Brand       string       `json:"Brand"`
	Name        string       `json:"Product"`
	MSRP        string       `json:"MSRP"`
	Price       string       `json:"Price"`
	Category    string       `json:"Category"`
	Badge       *string      `json:"Badge"`
	Description string       `json:"Description"`
	SpecType1   *string      `json:"Spec Type 1"`
	Spec1       *string      `json:"Spec 1"`
	SpecType2   *string      `json:"Spec Type 2"`
	Spec2       *string      `json:"Spec 2"`
	Color       *string      `json:"Color"`
	Images      []string     `json:"images"`
	Variants    []RawVariant `json:"variants"`
}

type RawVariant struct {
	ID        string `json:"variantId"`
	Name      string `json:"name"`
	Price     string `json:"Price"`
	MSRP      string `json:"MSRP"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Inventory int64  `json:"inventory"`
	Default   bool   `json:"isDefault"`
}

// DecodeRaw reads a JSON array of raw product records.
func DecodeRaw(r io.Reader) ([]RawProduct, error) {
	var raw []RawProduct
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return raw, nil
}

// Ingest validates and normalizes raw records. Invalid or duplicate records
// are skipped; their errors are joined into the returned error so callers
// can log them and still serve the valid products.
func Ingest(raw []RawProduct) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	var errs []error
	for _, r := range raw {
		if _, dup := seen[r.ID]; dup {
			errs = append(errs, fmt.Errorf("%w %d: duplicate id", ErrInvalidProduct, r.ID))
			continue
		}
		p, err := NormalizeProduct(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, p)
	}
	return out, errors.Join(errs...)
}

// NormalizeProduct turns one raw record into a validated Product.
func NormalizeProduct(r RawProduct) (domain.Product, error) {
	fail := func(format string, args ...any) (domain.Product, error) {
		return domain.Product{}, fmt.Errorf("%w %d: %s", ErrInvalidProduct, r.ID, fmt.Sprintf(format, args...))
	}
	if r.ID <= 0 {
		return fail("id must be positive")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fail("empty name")
	}

	p := domain.Product{
		ID:          r.ID,
		Name:        name,
		Brand:       strings.TrimSpace(r.Brand),
		Category:    strings.TrimSpace(r.Category),
		Description: strings.TrimSpace(r.Description),
		Badge:       strings.TrimSpace(deref(r.Badge)),
		Color:       strings.TrimSpace(deref(r.Color)),
		Images:      r.Images,
	}

	var (
		price    decimal.Decimal
		hasPrice bool
	)
	if strings.TrimSpace(r.Price) != "" {
		d, err := domain.ParsePrice(r.Price)
		if err != nil {
			return fail("price: %v", err)
		}
		price, hasPrice = d, true
	}
	msrp, err := optionalPrice(r.MSRP)
	if err != nil {
		return fail("msrp: %v", err)
	}
	p.MSRP = msrp

	specs := productSpecs(r)
	if len(r.Variants) == 0 {
		if !hasPrice {
			return fail("no price and no variants")
		}
		p.Variants = []domain.Variant{{
			ID:      DefaultVariantID,
			Name:    name,
			Price:   price,
			MSRP:    msrp,
			Color:   p.Color,
			Specs:   specs,
			Default: true,
		}}
	} else {
		variants, err := normalizeVariants(r.Variants, price, hasPrice, msrp, specs)
		if err != nil {
			return fail("%v", err)
		}
		p.Variants = variants
	}

	if !hasPrice {
		def, _ := p.DefaultVariant()
		price = def.Price
		if p.MSRP == nil {
			p.MSRP = def.MSRP
		}
	}
	p.Price = price
	return p, nil
}

func normalizeVariants(raw []RawVariant, productPrice decimal.Decimal, hasPrice bool, productMSRP *decimal.Decimal, specs []domain.Spec) ([]domain.Variant, error) {
	out := make([]domain.Variant, 0, len(raw))
	ids := make(map[string]struct{}, len(raw))
	defaultAt := -1
	for i, rv := range raw {
		id := strings.TrimSpace(rv.ID)
		if id == "" {
			id = fmt.Sprintf("v%d", i+1)
		}
		if _, dup := ids[id]; dup {
			return nil, fmt.Errorf("duplicate variant %q", id)
		}
		ids[id] = struct{}{}

		v := domain.Variant{
			ID:        id,
			Name:      variantName(rv),
			Size:      strings.TrimSpace(rv.Size),
			Color:     strings.TrimSpace(rv.Color),
			Specs:     specs,
			Inventory: max(rv.Inventory, 0),
		}
		switch {
		case strings.TrimSpace(rv.Price) != "":
			d, err := domain.ParsePrice(rv.Price)
			if err != nil {
				return nil, fmt.Errorf("variant %q price: %v", id, err)
			}
			v.Price = d
		case hasPrice:
			v.Price = productPrice
		default:
			return nil, fmt.Errorf("variant %q has no price", id)
		}
		msrp, err := optionalPrice(rv.MSRP)
		if err != nil {
			return nil, fmt.Errorf("variant %q msrp: %v", id, err)
		}
		if msrp == nil {
			msrp = productMSRP
		}
		v.MSRP = msrp

		if rv.Default && defaultAt < 0 {
			v.Default = true
			defaultAt = i
		}
		out = append(out, v)
	}
	if defaultAt < 0 {
		out[0].Default = true
	}
	return out, nil
}

func variantName(rv RawVariant) string {
	if n := strings.TrimSpace(rv.Name); n != "" {
		return n
	}
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(rv.Size); s != "" {
		parts = append(parts, s)
	}
	if c := strings.TrimSpace(rv.Color); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return "Standard"
	}
	return strings.Join(parts, " / ")
}

func productSpecs(r RawProduct) []domain.Spec {
	var specs []domain.Spec
	if t, v := deref(r.SpecType1), deref(r.Spec1); t != "" && v != "" {
		specs = append(specs, domain.Spec{Type: t, Value: v})
	}
	if t, v := deref(r.SpecType2), deref(r.Spec2); t != "" && v != "" {
		specs = append(specs, domain.Spec{Type: t, Value: v})
	}
	return specs
}

func optionalPrice(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParsePrice(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Prepare validates a typed product submitted through the admin API and
// applies the same normalization as ingestion: a default variant is
// synthesized when none are given, exactly one variant ends up default,
// and a zero product price is taken from the default variant.
func Prepare(p domain.Product) (domain.Product, error) {
	fail := func(msg string) (domain.Product, error) {
		return domain.Product{}, fmt.Errorf("%w %d: %s", ErrInvalidProduct, p.ID, msg)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fail("empty name")
	}
	if p.Price.IsNegative() || (p.MSRP != nil && p.MSRP.IsNegative()) {
		return fail("negative price")
	}
	if len(p.Variants) == 0 {
		if p.Price.IsZero() {
			return fail("no price and no variants")
		}
		p.Variants = []domain.Variant{{ID: DefaultVariantID, Name: p.Name, Price: p.Price, MSRP: p.MSRP, Default: true}}
	}

	variants := make([]domain.Variant, len(p.Variants))
	copy(variants, p.Variants)
	ids := make(map[string]struct{}, len(variants))
	defaultSeen := false
	for i := range variants {
		v := &variants[i]
		if v.ID == "" {
			return fail(fmt.Sprintf("variant %d has no id", i+1))
		}
		if _, dup := ids[v.ID]; dup {
			return fail(fmt.Sprintf("duplicate variant %q", v.ID))
		}
		ids[v.ID] = struct{}{}
		if v.Price.IsNegative() || v.Inventory < 0 {
			return fail(fmt.Sprintf("variant %q has negative price or inventory", v.ID))
		}
		if v.Default && defaultSeen {
			v.Default = false
		}
		defaultSeen = defaultSeen || v.Default
	}
	if !defaultSeen {
		variants[0].Default = true
	}
	p.Variants = variants

	if p.Price.IsZero() {
		def, _ := p.DefaultVariant()
		p.Price = def.Price
	}
	return p, nil
}
