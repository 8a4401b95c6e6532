package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	minQueryLength    = 2
	resultsPerSection = 5
)

// Result categories, in the order they are returned.
const (
	SearchProducts   = "products"
	SearchBlog       = "blog"
	SearchCategories = "categories"
	SearchPages      = "pages"
)

type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// StaticPage is a fixed site page that search can point at.
type StaticPage struct {
	Title       string
	URL         string
	Description string
	Keywords    []string
}

// DefaultPages are the storefront's fixed pages.
var DefaultPages = []StaticPage{
	{"Home", "/", "Suncoast Dive Center - Florida's premier dive center offering courses, equipment, and charters",
		[]string{"home", "suncoast", "dive center", "florida", "gulf coast"}},
	{"Services", "/services", "Dive courses, PADI certifications, equipment rental, tank fills, and equipment service",
		[]string{"services", "courses", "padi", "certification", "equipment", "rental", "tank fills"}},
	{"Visibility Reports", "/visibility", "Current dive site visibility reports and conditions",
		[]string{"visibility", "dive sites", "conditions", "reports"}},
	{"About Us", "/about", "About Suncoast Dive Center - our mission, team, and commitment to diving excellence",
		[]string{"about", "team", "mission", "history"}},
	{"Contact", "/contact", "Contact us - location, hours, phone, and email",
		[]string{"contact", "location", "hours", "phone", "email", "address"}},
	{"Legal Information", "/legal", "Legal documents including Terms of Service and Privacy Policy",
		[]string{"legal", "terms", "privacy", "policy"}},
	{"Blog", "/blog", "From the Deep - diving tips, stories, and news",
		[]string{"blog", "articles", "news", "stories", "tips"}},
	{"Dive Shop", "/diveshop", "Browse our complete selection of diving equipment, gear, and accessories",
		[]string{"shop", "products", "equipment", "gear", "buy", "purchase"}},
}

// SearchService runs site-wide search over products, blog posts,
// product categories and static pages.
type SearchService struct {
	products *ProductService
	blog     *BlogService
	pages    []StaticPage
}

func NewSearchService(products *ProductService, blog *BlogService, pages []StaticPage) *SearchService {
	return &SearchService{products: products, blog: blog, pages: pages}
}

// Search matches q case-insensitively. Queries shorter than two characters
// return no results. Each section contributes at most five results.
func (s *SearchService) Search(ctx context.Context, q string) ([]SearchResult, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	results := make([]SearchResult, 0)
	if len([]rune(q)) < minQueryLength {
		return results, nil
	}

	cat, err := s.products.catalog.Current(ctx)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, p := range cat.Products() {
		if n == resultsPerSection {
			break
		}
		if !anyContains(q, p.Name, p.Brand, p.Category, p.Description) {
			continue
		}
		desc := p.Description
		if desc == "" {
			desc = fmt.Sprintf("%s - %s", orDefault(p.Brand, "Product"), orDefault(p.Category, "Dive Equipment"))
		}
		results = append(results, SearchResult{
			Title:       p.Name,
			URL:         fmt.Sprintf("/diveshop/%d", p.ID),
			Description: desc,
			Category:    SearchProducts,
		})
		n++
	}

	posts, err := s.blog.published(ctx)
	if err != nil {
		return nil, err
	}
	n = 0
	for _, p := range posts {
		if n == resultsPerSection {
			break
		}
		if !anyContains(q, p.Title, p.Excerpt, p.Category) {
			continue
		}
		results = append(results, SearchResult{
			Title:       p.Title,
			URL:         "/blog/" + p.Slug,
			Description: orDefault(p.Excerpt, "Blog post from Suncoast Dive Center"),
			Category:    SearchBlog,
		})
		n++
	}

	n = 0
	for _, c := range cat.Options().Categories {
		if n == resultsPerSection {
			break
		}
		if !anyContains(q, c) {
			continue
		}
		results = append(results, SearchResult{
			Title:       c,
			URL:         "/diveshop?category=" + url.QueryEscape(c),
			Description: fmt.Sprintf("Browse %s products", c),
			Category:    SearchCategories,
		})
		n++
	}

	n = 0
	for _, page := range s.pages {
		if n == resultsPerSection {
			break
		}
		text := page.Title + " " + page.Description + " " + strings.Join(page.Keywords, " ")
		if !anyContains(q, text) {
			continue
		}
		results = append(results, SearchResult{
			Title:       page.Title,
			URL:         page.URL,
			Description: page.Description,
			Category:    SearchPages,
		})
		n++
	}
	return results, nil
}

func anyContains(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
