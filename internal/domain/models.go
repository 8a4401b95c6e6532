package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BadgeNewArrival marks recently stocked products; the "newest" sort lists them first.
const BadgeNewArrival = "New Arrival"

// Spec is one optional "type: value" specification line of a variant.
type Spec struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	MSRP      *decimal.Decimal `json:"msrp,omitempty"`
	Size      string           `json:"size,omitempty"`
	Color     string           `json:"color,omitempty"`
	Specs     []Spec           `json:"specs,omitempty"`
	Inventory int64            `json:"inventory"`
	Default   bool             `json:"default"`
}

// OnSale reports whether the variant sells below its MSRP.
func (v Variant) OnSale() bool {
	return v.MSRP != nil && v.MSRP.GreaterThan(v.Price)
}

// Product is a catalog item. Records are validated once at ingestion,
// so every Product carries at least one variant and exactly one default.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Badge       string           `json:"badge,omitempty"`
	Color       string           `json:"color,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	MSRP        *decimal.Decimal `json:"msrp,omitempty"`
	Variants    []Variant        `json:"variants"`
	Images      []string         `json:"images,omitempty"`
}

// OnSale reports whether the product sells below its MSRP.
func (p Product) OnSale() bool {
	return p.MSRP != nil && p.MSRP.GreaterThan(p.Price)
}

// ComparisonPrice is the price used for range filtering, price sorting and
// price bounds: the selling price, which is the sale price whenever it is
// lower than MSRP and the base price otherwise.
func (p Product) ComparisonPrice() decimal.Decimal {
	return p.Price
}

// DefaultVariant returns the variant flagged as default.
func (p Product) DefaultVariant() (Variant, bool) {
	for _, v := range p.Variants {
		if v.Default {
			return v, true
		}
	}
	if len(p.Variants) > 0 {
		return p.Variants[0], true
	}
	return Variant{}, false
}

// Variant looks a variant up by ID.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// PrimaryImage returns the first image reference, or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// TotalInventory sums inventory across variants.
func (p Product) TotalInventory() int64 {
	var total int64
	for _, v := range p.Variants {
		total += v.Inventory
	}
	return total
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderItem is one purchased variant with its unit price frozen at checkout.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is UnitPrice × Quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Order is a checked-out cart.
type Order struct {
	ID           int64           `json:"id"`
	SessionID    string          `json:"session_id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BlogPost is an article in the "From the Deep" blog.
type BlogPost struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Excerpt     string    `json:"excerpt"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at"`
}

// Promotion is the banner shown at a page location, e.g. "home".
type Promotion struct {
	Location   string    `json:"location"`
	Heading    string    `json:"heading"`
	Subheading string    `json:"subheading"`
	ButtonText string    `json:"button_text"`
	ButtonLink string    `json:"button_link"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ServiceCategory groups the shop's services, e.g. "Scuba Certifications".
type ServiceCategory struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Icon         string    `json:"icon,omitempty"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ServiceSubcategory is an optional second level inside a category.
type ServiceSubcategory struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category_id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ServiceItem is a bookable service: a course, a charter, a tank fill.
// It is priced either by Price or by free-form PriceText ("From $45"),
// never both. SubcategoryID is zero when the item sits directly in its
// category.
type ServiceItem struct {
	ID            int64            `json:"id"`
	CategoryID    int64            `json:"category_id"`
	SubcategoryID int64            `json:"subcategory_id,omitempty"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	PriceText     string           `json:"price_text,omitempty"`
	Duration      string           `json:"duration,omitempty"`
	Depth         string           `json:"depth,omitempty"`
	Includes      []string         `json:"includes,omitempty"`
	ServiceType   string           `json:"service_type,omitempty"`
	DisplayOrder  int              `json:"display_order"`
	Active        bool             `json:"active"`
	Featured      bool             `json:"featured"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ServiceKind names one of the three reorderable service tables.
type ServiceKind string

const (
	ServiceKindCategory    ServiceKind = "categories"
	ServiceKindSubcategory ServiceKind = "subcategories"
	ServiceKindService     ServiceKind = "services"
)

// DisplayPosition assigns a display order to one row.
type DisplayPosition struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"display_order"`
}
