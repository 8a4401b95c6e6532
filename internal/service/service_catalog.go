package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

// ServiceCatalogService runs the services menu: courses, charters, fills
// and repairs grouped by category and optional subcategory.
type ServiceCatalogService struct {
	repo repository.ServiceCatalogRepository
	now  func() time.Time
}

func NewServiceCatalogService(repo repository.ServiceCatalogRepository) *ServiceCatalogService {
	return &ServiceCatalogService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// MenuSubcategory is an active subcategory with its active services.
type MenuSubcategory struct {
	domain.ServiceSubcategory
	Services []domain.ServiceItem `json:"services"`
}

// MenuCategory is an active category. Services lists the items that sit
// directly in the category; the rest hang off their subcategory.
type MenuCategory struct {
	domain.ServiceCategory
	Services      []domain.ServiceItem `json:"services"`
	Subcategories []MenuSubcategory    `json:"subcategories"`
}

// AdminListing is every row, hidden ones included.
type AdminListing struct {
	Categories    []domain.ServiceCategory    `json:"categories"`
	Subcategories []domain.ServiceSubcategory `json:"subcategories"`
	Services      []domain.ServiceItem        `json:"services"`
}

// Menu builds the public services page. Hidden categories and
// subcategories hide everything under them.
func (s *ServiceCatalogService) Menu(ctx context.Context) ([]MenuCategory, error) {
	all, err := s.Listing(ctx)
	if err != nil {
		return nil, err
	}

	type slot struct {
		categoryID int64
		index      int
	}
	subs := make(map[int64][]MenuSubcategory)
	slots := make(map[int64]slot)
	for _, sc := range all.Subcategories {
		if !sc.Active {
			continue
		}
		slots[sc.ID] = slot{sc.CategoryID, len(subs[sc.CategoryID])}
		subs[sc.CategoryID] = append(subs[sc.CategoryID], MenuSubcategory{ServiceSubcategory: sc, Services: []domain.ServiceItem{}})
	}

	direct := make(map[int64][]domain.ServiceItem)
	for _, it := range all.Services {
		if !it.Active {
			continue
		}
		if it.SubcategoryID == 0 {
			direct[it.CategoryID] = append(direct[it.CategoryID], it)
			continue
		}
		if sl, ok := slots[it.SubcategoryID]; ok {
			sub := &subs[sl.categoryID][sl.index]
			sub.Services = append(sub.Services, it)
		}
	}

	menu := make([]MenuCategory, 0, len(all.Categories))
	for _, c := range all.Categories {
		if !c.Active {
			continue
		}
		mc := MenuCategory{ServiceCategory: c, Services: direct[c.ID], Subcategories: subs[c.ID]}
		if mc.Services == nil {
			mc.Services = []domain.ServiceItem{}
		}
		if mc.Subcategories == nil {
			mc.Subcategories = []MenuSubcategory{}
		}
		menu = append(menu, mc)
	}
	return menu, nil
}

// Services lists visible services, optionally only those of the category
// with categorySlug or only featured ones.
func (s *ServiceCatalogService) Services(ctx context.Context, categorySlug string, featuredOnly bool) ([]domain.ServiceItem, error) {
	menu, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	found := categorySlug == ""
	out := make([]domain.ServiceItem, 0)
	for _, c := range menu {
		if categorySlug != "" && c.Slug != categorySlug {
			continue
		}
		found = true
		items := slices.Clone(c.Services)
		for _, sc := range c.Subcategories {
			items = append(items, sc.Services...)
		}
		for _, it := range items {
			if featuredOnly && !it.Featured {
				continue
			}
			out = append(out, it)
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

// ServiceBySlug returns a visible service.
func (s *ServiceCatalogService) ServiceBySlug(ctx context.Context, slug string) (*domain.ServiceItem, error) {
	if slug == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.Services(ctx, "", false)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Slug == slug {
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Listing returns all three tables for the admin screen.
func (s *ServiceCatalogService) Listing(ctx context.Context) (*AdminListing, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubcategories(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminListing{Categories: cats, Subcategories: subs, Services: items}, nil
}

func (s *ServiceCatalogService) CreateCategory(ctx context.Context, c domain.ServiceCategory) (*domain.ServiceCategory, error) {
	if err := normalizeNamed(&c.Name, &c.Description); err != nil {
		return nil, err
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.Slug = freeSlug(slugOr(c.Slug, c.Name), "category", func(slug string) bool {
		return slices.ContainsFunc(cats, func(o domain.ServiceCategory) bool { return o.Slug == slug })
	})
	if c.DisplayOrder == 0 {
		c.DisplayOrder = nextOrder(cats, func(o domain.ServiceCategory) int { return o.DisplayOrder })
	}
	c.ID = 0
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	if err := s.repo.CreateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory replaces the category's fields. An empty slug keeps the
// current one; a new slug must be free.
func (s *ServiceCatalogService) UpdateCategory(ctx context.Context, id int64, c domain.ServiceCategory) (*domain.ServiceCategory, error) {
	if err := normalizeNamed(&c.Name, &c.Description); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.Slug = slugOr(c.Slug, "")
	if c.Slug == "" {
		c.Slug = existing.Slug
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	if err := s.repo.UpdateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ServiceCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *ServiceCatalogService) CreateSubcategory(ctx context.Context, sc domain.ServiceSubcategory) (*domain.ServiceSubcategory, error) {
	if err := normalizeNamed(&sc.Name, &sc.Description); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, sc.CategoryID); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubcategories(ctx)
	if err != nil {
		return nil, err
	}
	sc.Slug = freeSlug(slugOr(sc.Slug, sc.Name), "subcategory", func(slug string) bool {
		return slices.ContainsFunc(subs, func(o domain.ServiceSubcategory) bool { return o.Slug == slug })
	})
	if sc.DisplayOrder == 0 {
		var siblings []domain.ServiceSubcategory
		for _, o := range subs {
			if o.CategoryID == sc.CategoryID {
				siblings = append(siblings, o)
			}
		}
		sc.DisplayOrder = nextOrder(siblings, func(o domain.ServiceSubcategory) int { return o.DisplayOrder })
	}
	sc.ID = 0
	sc.CreatedAt = s.now()
	sc.UpdatedAt = sc.CreatedAt
	if err := s.repo.CreateSubcategory(ctx, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *ServiceCatalogService) UpdateSubcategory(ctx context.Context, id int64, sc domain.ServiceSubcategory) (*domain.ServiceSubcategory, error) {
	if err := normalizeNamed(&sc.Name, &sc.Description); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc.CategoryID == 0 {
		sc.CategoryID = existing.CategoryID
	}
	if err := s.requireCategory(ctx, sc.CategoryID); err != nil {
		return nil, err
	}
	sc.ID = existing.ID
	sc.Slug = slugOr(sc.Slug, "")
	if sc.Slug == "" {
		sc.Slug = existing.Slug
	}
	sc.CreatedAt = existing.CreatedAt
	sc.UpdatedAt = s.now()
	if err := s.repo.UpdateSubcategory(ctx, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *ServiceCatalogService) DeleteSubcategory(ctx context.Context, id int64) error {
	return s.repo.DeleteSubcategory(ctx, id)
}

func (s *ServiceCatalogService) CreateService(ctx context.Context, it domain.ServiceItem) (*domain.ServiceItem, error) {
	if err := s.validateService(ctx, &it); err != nil {
		return nil, err
	}
	items, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	it.Slug = freeSlug(slugOr(it.Slug, it.Name), "service", func(slug string) bool {
		return slices.ContainsFunc(items, func(o domain.ServiceItem) bool { return o.Slug == slug })
	})
	if it.DisplayOrder == 0 {
		var siblings []domain.ServiceItem
		for _, o := range items {
			if o.CategoryID == it.CategoryID {
				siblings = append(siblings, o)
			}
		}
		it.DisplayOrder = nextOrder(siblings, func(o domain.ServiceItem) int { return o.DisplayOrder })
	}
	it.ID = 0
	it.CreatedAt = s.now()
	it.UpdatedAt = it.CreatedAt
	if err := s.repo.CreateService(ctx, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *ServiceCatalogService) UpdateService(ctx context.Context, id int64, it domain.ServiceItem) (*domain.ServiceItem, error) {
	existing, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.CategoryID == 0 {
		it.CategoryID = existing.CategoryID
	}
	if err := s.validateService(ctx, &it); err != nil {
		return nil, err
	}
	it.ID = existing.ID
	it.Slug = slugOr(it.Slug, "")
	if it.Slug == "" {
		it.Slug = existing.Slug
	}
	it.CreatedAt = existing.CreatedAt
	it.UpdatedAt = s.now()
	if err := s.repo.UpdateService(ctx, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *ServiceCatalogService) DeleteService(ctx context.Context, id int64) error {
	return s.repo.DeleteService(ctx, id)
}

// Reorder applies admin drag-and-drop positions to one table, all or nothing.
func (s *ServiceCatalogService) Reorder(ctx context.Context, kind domain.ServiceKind, positions []domain.DisplayPosition) error {
	switch kind {
	case domain.ServiceKindCategory, domain.ServiceKindSubcategory, domain.ServiceKindService:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	if len(positions) == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(positions))
	for _, p := range positions {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: id %d listed twice", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return s.repo.Reorder(ctx, kind, positions)
}

func (s *ServiceCatalogService) requireCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: category_id is required", ErrInvalidInput)
	}
	_, err := s.repo.GetCategory(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, id)
	}
	return err
}

// validateService normalizes it in place: trimmed text, includes without
// blanks, and a subcategory that belongs to the service's category.
func (s *ServiceCatalogService) validateService(ctx context.Context, it *domain.ServiceItem) error {
	if err := normalizeNamed(&it.Name, &it.Description); err != nil {
		return err
	}
	it.PriceText = strings.TrimSpace(it.PriceText)
	if it.Price != nil && it.PriceText != "" {
		return fmt.Errorf("%w: set price or price_text, not both", ErrInvalidInput)
	}
	if it.Price != nil && it.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if it.Price != nil {
		p := it.Price.Round(2)
		it.Price = &p
	}
	it.Duration = strings.TrimSpace(it.Duration)
	it.Depth = strings.TrimSpace(it.Depth)
	it.ServiceType = strings.TrimSpace(it.ServiceType)
	includes := make([]string, 0, len(it.Includes))
	for _, inc := range it.Includes {
		if inc = strings.TrimSpace(inc); inc != "" {
			includes = append(includes, inc)
		}
	}
	it.Includes = includes

	if err := s.requireCategory(ctx, it.CategoryID); err != nil {
		return err
	}
	if it.SubcategoryID == 0 {
		return nil
	}
	sc, err := s.repo.GetSubcategory(ctx, it.SubcategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: subcategory %d does not exist", ErrInvalidInput, it.SubcategoryID)
	}
	if err != nil {
		return err
	}
	if sc.CategoryID != it.CategoryID {
		return fmt.Errorf("%w: subcategory %d is not in category %d", ErrInvalidInput, sc.ID, it.CategoryID)
	}
	return nil
}

// ServicePrice is the label shown for a service: its price_text, the
// price as dollars, or "" when neither is set.
func ServicePrice(it domain.ServiceItem) string {
	if it.PriceText != "" {
		return it.PriceText
	}
	if it.Price == nil {
		return ""
	}
	if it.Price.Equal(it.Price.Truncate(0)) {
		return "$" + it.Price.StringFixed(0)
	}
	return "$" + it.Price.StringFixed(2)
}

func normalizeNamed(name, description *string) error {
	*name = strings.TrimSpace(*name)
	*description = strings.TrimSpace(*description)
	if *name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

func slugOr(slug, name string) string {
	if s := Slugify(slug); s != "" {
		return s
	}
	return Slugify(name)
}

// freeSlug appends -2, -3, ... to base until taken reports it free.
func freeSlug(base, fallback string, taken func(string) bool) string {
	if base == "" {
		base = fallback
	}
	candidate := base
	for n := 2; taken(candidate); n++ {
		suffix := fmt.Sprintf("-%d", n)
		candidate = strings.TrimRight(cut(base, maxSlugLength-len(suffix)), "-") + suffix
	}
	return candidate
}

func nextOrder[T any](rows []T, order func(T) int) int {
	highest := 0
	for _, r := range rows {
		highest = max(highest, order(r))
	}
	return highest + 1
}
