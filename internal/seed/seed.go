// Package seed loads the bundled demo inventory, blog posts, promotions
// and services menu into an empty store.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"suncoast/internal/catalog"
	"suncoast/internal/domain"
	"suncoast/internal/service"
)

//go:embed data/*.json
var files embed.FS

type Result struct {
	Products   int
	Posts      int
	Promotions int
	Services   int
	Skipped    bool
}

type Seeder struct {
	products *service.ProductService
	blog     *service.BlogService
	promos   *service.PromotionService
	services *service.ServiceCatalogService
	log      *zap.Logger
}

func New(products *service.ProductService, blog *service.BlogService, promos *service.PromotionService, services *service.ServiceCatalogService, log *zap.Logger) *Seeder {
	return &Seeder{products: products, blog: blog, promos: promos, services: services, log: log}
}

// Run seeds only a store without products, so restarts against a
// persistent database leave edits alone. Invalid inventory records are
// logged and skipped.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	existing, err := s.products.Browse(ctx, catalog.Criteria{}, catalog.Page{Number: 1, Size: 1})
	if err != nil {
		return Result{}, err
	}
	if existing.MatchedCount > 0 {
		s.log.Info("seed skipped, catalog not empty", zap.Int("products", existing.MatchedCount))
		return Result{Skipped: true}, nil
	}

	var res Result
	if res.Products, err = s.inventory(ctx); err != nil {
		return res, err
	}
	if res.Posts, err = s.posts(ctx); err != nil {
		return res, err
	}
	if res.Promotions, err = s.promotions(ctx); err != nil {
		return res, err
	}
	if res.Services, err = s.serviceMenu(ctx); err != nil {
		return res, err
	}
	s.log.Info("seed loaded",
		zap.Int("products", res.Products),
		zap.Int("posts", res.Posts),
		zap.Int("promotions", res.Promotions),
		zap.Int("services", res.Services))
	return res, nil
}

func (s *Seeder) inventory(ctx context.Context) (int, error) {
	f, err := files.Open("data/inventory.json")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	raw, err := catalog.DecodeRaw(f)
	if err != nil {
		return 0, err
	}
	products, err := catalog.Ingest(raw)
	if err != nil {
		s.log.Warn("skipped invalid inventory records", zap.Error(err))
	}
	if err := s.products.Import(ctx, products); err != nil {
		return 0, fmt.Errorf("import inventory: %w", err)
	}
	return len(products), nil
}

func (s *Seeder) posts(ctx context.Context) (int, error) {
	var posts []domain.BlogPost
	if err := readJSON("data/blogs.json", &posts); err != nil {
		return 0, err
	}
	for _, p := range posts {
		if _, err := s.blog.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("seed post %q: %w", p.Title, err)
		}
	}
	return len(posts), nil
}

func (s *Seeder) promotions(ctx context.Context) (int, error) {
	var promos []domain.Promotion
	if err := readJSON("data/promotions.json", &promos); err != nil {
		return 0, err
	}
	for _, p := range promos {
		if _, err := s.promos.Upsert(ctx, p.Location, p); err != nil {
			return 0, fmt.Errorf("seed promotion %q: %w", p.Location, err)
		}
	}
	return len(promos), nil
}

type menuSubcategory struct {
	domain.ServiceSubcategory
	Services []domain.ServiceItem `json:"services"`
}

type menuCategory struct {
	domain.ServiceCategory
	Services      []domain.ServiceItem `json:"services"`
	Subcategories []menuSubcategory    `json:"subcategories"`
}

// serviceMenu creates every category, subcategory and service in file
// order, all visible. It returns the number of services.
func (s *Seeder) serviceMenu(ctx context.Context) (int, error) {
	var menu []menuCategory
	if err := readJSON("data/services.json", &menu); err != nil {
		return 0, err
	}
	n := 0
	add := func(it domain.ServiceItem, categoryID, subcategoryID int64) error {
		it.CategoryID, it.SubcategoryID, it.Active = categoryID, subcategoryID, true
		if _, err := s.services.CreateService(ctx, it); err != nil {
			return fmt.Errorf("seed service %q: %w", it.Name, err)
		}
		n++
		return nil
	}
	for _, mc := range menu {
		mc.ServiceCategory.Active = true
		cat, err := s.services.CreateCategory(ctx, mc.ServiceCategory)
		if err != nil {
			return n, fmt.Errorf("seed service category %q: %w", mc.Name, err)
		}
		for _, it := range mc.Services {
			if err := add(it, cat.ID, 0); err != nil {
				return n, err
			}
		}
		for _, ms := range mc.Subcategories {
			ms.CategoryID, ms.ServiceSubcategory.Active = cat.ID, true
			sub, err := s.services.CreateSubcategory(ctx, ms.ServiceSubcategory)
			if err != nil {
				return n, fmt.Errorf("seed service subcategory %q: %w", ms.Name, err)
			}
			for _, it := range ms.Services {
				if err := add(it, cat.ID, sub.ID); err != nil {
					return n, err
				}
			}
		}
	}
	return n, nil
}

func readJSON(name string, v any) error {
	b, err := files.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
