package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"suncoast/internal/domain"
)

type productRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Name        string
	Brand       string `gorm:"index"`
	Category    string `gorm:"index"`
	Description string
	Badge       string
	Color       string
	Price       string
	MSRP        string
	Images      []string     `gorm:"serializer:json"`
	Variants    []variantRow `gorm:"foreignKey:ProductID"`
}

func (productRow) TableName() string { return "products" }

type variantRow struct {
	RowID     uint  `gorm:"primaryKey"`
	ProductID int64 `gorm:"index"`
	Position  int
	VariantID string
	Name      string
	Price     string
	MSRP      string
	Size      string
	Color     string
	Specs     []domain.Spec `gorm:"serializer:json"`
	Inventory int64
	IsDefault bool
}

func (variantRow) TableName() string { return "product_variants" }

type orderRow struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	SessionID    string
	CustomerName string
	Email        string
	Total        string
	Status       string
	Items        []orderItemRow `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	RowID     uint  `gorm:"primaryKey"`
	OrderID   int64 `gorm:"index"`
	ProductID int64
	VariantID string
	Name      string
	Quantity  int64
	UnitPrice string
}

func (orderItemRow) TableName() string { return "order_items" }

type blogRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Slug        string `gorm:"uniqueIndex"`
	Title       string
	Author      string
	Excerpt     string
	Body        string
	Category    string
	ImageURL    string
	Published   bool
	PublishedAt time.Time
}

func (blogRow) TableName() string { return "blog_posts" }

type promotionRow struct {
	Location   string `gorm:"primaryKey"`
	Heading    string
	Subheading string
	ButtonText string
	ButtonLink string
	Active     bool
	UpdatedAt  time.Time
}

func (promotionRow) TableName() string { return "promotions" }

type serviceCategoryRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string
	Slug         string `gorm:"uniqueIndex"`
	Icon         string
	Description  string
	DisplayOrder int `gorm:"index"`
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (serviceCategoryRow) TableName() string { return "service_categories" }

type serviceSubcategoryRow struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	CategoryID   int64 `gorm:"index"`
	Name         string
	Slug         string `gorm:"uniqueIndex"`
	Description  string
	DisplayOrder int `gorm:"index"`
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (serviceSubcategoryRow) TableName() string { return "service_subcategories" }

type serviceRow struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	CategoryID    int64 `gorm:"index"`
	SubcategoryID int64 `gorm:"index"`
	Name          string
	Slug          string `gorm:"uniqueIndex"`
	Description   string
	Price         string
	PriceText     string
	Duration      string
	Depth         string
	Includes      []string `gorm:"serializer:json"`
	ServiceType   string
	DisplayOrder  int `gorm:"index"`
	Active        bool
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (serviceRow) TableName() string { return "services" }

// GormStore keeps everything in SQLite through gorm. Transactions started by
// WithTransaction travel in the context.
type GormStore struct {
	db *gorm.DB
}

type gormTxKey struct{}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// one connection: sqlite has a single writer and ":memory:" is per connection
	sqlDB.SetMaxOpenConns(1)

	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&productRow{}, &variantRow{}, &orderRow{}, &orderItemRow{}, &blogRow{}, &promotionRow{},
		&serviceCategoryRow{}, &serviceSubcategoryRow{}, &serviceRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

func (s *GormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

// inTx runs fn in the caller's transaction or a fresh one.
func (s *GormStore) inTx(ctx context.Context, fn func(db *gorm.DB) error) error {
	return s.WithTransaction(ctx, func(ctx context.Context) error {
		return fn(s.conn(ctx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Products returns the store as a ProductRepository.
func (s *GormStore) Products() ProductRepository { return gormProducts{s} }

func (s *GormStore) Orders() OrderRepository { return gormOrders{s} }

func (s *GormStore) Blog() BlogRepository { return gormBlog{s} }

func (s *GormStore) Promotions() PromotionRepository { return gormPromotions{s} }

func (s *GormStore) Services() ServiceCatalogRepository { return gormServices{s} }

type gormProducts struct{ s *GormStore }

func orderedVariants(db *gorm.DB) *gorm.DB { return db.Order("position") }

func (r gormProducts) Create(ctx context.Context, p *domain.Product) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		if p.ID != 0 {
			var n int64
			if err := db.Model(&productRow{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
				return fmt.Errorf("create product: %w", err)
			}
			if n > 0 {
				return ErrConflict
			}
		}
		row := toProductRow(*p)
		if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		p.ID = row.ID
		return r.writeVariants(db, row.ID, p.Variants)
	})
}

func (r gormProducts) writeVariants(db *gorm.DB, productID int64, variants []domain.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	rows := make([]variantRow, len(variants))
	for i, v := range variants {
		rows[i] = toVariantRow(productID, i, v)
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("write variants: %w", err)
	}
	return nil
}

func (r gormProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	if err := r.s.conn(ctx).Preload("Variants", orderedVariants).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	p := fromProductRow(row)
	return &p, nil
}

func (r gormProducts) Update(ctx context.Context, p *domain.Product) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		row := toProductRow(*p)
		res := db.Model(&productRow{}).Where("id = ?", p.ID).Select("*").Omit("id", clause.Associations).Updates(&row)
		if res.Error != nil {
			return fmt.Errorf("update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := db.Where("product_id = ?", p.ID).Delete(&variantRow{}).Error; err != nil {
			return fmt.Errorf("update product variants: %w", err)
		}
		return r.writeVariants(db, p.ID, p.Variants)
	})
}

func (r gormProducts) Delete(ctx context.Context, id int64) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		res := db.Delete(&productRow{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return db.Where("product_id = ?", id).Delete(&variantRow{}).Error
	})
}

func (r gormProducts) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.s.conn(ctx).Preload("Variants", orderedVariants).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, len(rows))
	for i, row := range rows {
		out[i] = fromProductRow(row)
	}
	return out, nil
}

type gormOrders struct{ s *GormStore }

func (r gormOrders) Create(ctx context.Context, o *domain.Order) error {
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	row := toOrderRow(*o)
	row.ID = 0
	if err := r.s.conn(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	o.ID = row.ID
	return nil
}

func (r gormOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var row orderRow
	if err := r.s.conn(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("row_id")
	}).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	o := fromOrderRow(row)
	return &o, nil
}

// Update writes the order header; items are immutable once placed.
func (r gormOrders) Update(ctx context.Context, o *domain.Order) error {
	o.UpdatedAt = time.Now().UTC()
	res := r.s.conn(ctx).Model(&orderRow{}).Where("id = ?", o.ID).Updates(map[string]any{
		"customer_name": o.CustomerName,
		"email":         o.Email,
		"total":         o.Total.String(),
		"status":        string(o.Status),
		"updated_at":    o.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormBlog struct{ s *GormStore }

func (r gormBlog) slugTaken(db *gorm.DB, slug string, exceptID int64) (bool, error) {
	var n int64
	err := db.Model(&blogRow{}).Where("slug = ? AND id <> ?", slug, exceptID).Count(&n).Error
	return n > 0, err
}

func (r gormBlog) Create(ctx context.Context, p *domain.BlogPost) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		taken, err := r.slugTaken(db, p.Slug, 0)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if taken {
			return ErrConflict
		}
		row := toBlogRow(*p)
		row.ID = 0
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		p.ID = row.ID
		return nil
	})
}

func (r gormBlog) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var row blogRow
	if err := r.s.conn(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	p := fromBlogRow(row)
	return &p, nil
}

func (r gormBlog) Update(ctx context.Context, p *domain.BlogPost) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		taken, err := r.slugTaken(db, p.Slug, p.ID)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if taken {
			return ErrConflict
		}
		row := toBlogRow(*p)
		res := db.Model(&blogRow{}).Where("id = ?", p.ID).Select("*").Omit("id").Updates(&row)
		if res.Error != nil {
			return fmt.Errorf("update post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r gormBlog) Delete(ctx context.Context, id int64) error {
	res := r.s.conn(ctx).Delete(&blogRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r gormBlog) List(ctx context.Context) ([]domain.BlogPost, error) {
	var rows []blogRow
	if err := r.s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]domain.BlogPost, len(rows))
	for i, row := range rows {
		out[i] = fromBlogRow(row)
	}
	return out, nil
}

type gormPromotions struct{ s *GormStore }

func (r gormPromotions) Get(ctx context.Context, location string) (*domain.Promotion, error) {
	var row promotionRow
	if err := r.s.conn(ctx).Where("location = ?", location).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	p := domain.Promotion(row)
	return &p, nil
}

func (r gormPromotions) Upsert(ctx context.Context, p *domain.Promotion) error {
	p.UpdatedAt = time.Now().UTC()
	row := promotionRow(*p)
	if err := r.s.conn(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert promotion: %w", err)
	}
	return nil
}

type gormServices struct{ s *GormStore }

// slugTaken reports whether another row of model's table uses slug.
func slugTaken(db *gorm.DB, model any, slug string, exceptID int64) (bool, error) {
	var n int64
	err := db.Model(model).Where("slug = ? AND id <> ?", slug, exceptID).Count(&n).Error
	return n > 0, err
}

// saveServiceRow inserts row when id is zero and rewrites it otherwise,
// guarding the slug. row must point at one of the service row types.
func (r gormServices) saveServiceRow(ctx context.Context, what string, model, row any, id int64, slug string) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		taken, err := slugTaken(db, model, slug, id)
		if err != nil {
			return fmt.Errorf("save %s: %w", what, err)
		}
		if taken {
			return ErrConflict
		}
		if id == 0 {
			if err := db.Create(row).Error; err != nil {
				return fmt.Errorf("create %s: %w", what, err)
			}
			return nil
		}
		res := db.Model(model).Where("id = ?", id).Select("*").Omit("id").Updates(row)
		if res.Error != nil {
			return fmt.Errorf("update %s: %w", what, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func deleteByID(db *gorm.DB, what string, model any, id int64) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r gormServices) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	var rows []serviceCategoryRow
	if err := r.s.conn(ctx).Order("display_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	out := make([]domain.ServiceCategory, len(rows))
	for i, row := range rows {
		out[i] = domain.ServiceCategory(row)
	}
	return out, nil
}

func (r gormServices) GetCategory(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	var row serviceCategoryRow
	if err := r.s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	c := domain.ServiceCategory(row)
	return &c, nil
}

func (r gormServices) CreateCategory(ctx context.Context, c *domain.ServiceCategory) error {
	row := serviceCategoryRow(*c)
	row.ID = 0
	if err := r.saveServiceRow(ctx, "service category", &serviceCategoryRow{}, &row, 0, c.Slug); err != nil {
		return err
	}
	c.ID = row.ID
	return nil
}

func (r gormServices) UpdateCategory(ctx context.Context, c *domain.ServiceCategory) error {
	row := serviceCategoryRow(*c)
	return r.saveServiceRow(ctx, "service category", &serviceCategoryRow{}, &row, c.ID, c.Slug)
}

func (r gormServices) DeleteCategory(ctx context.Context, id int64) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		if err := deleteByID(db, "service category", &serviceCategoryRow{}, id); err != nil {
			return err
		}
		if err := db.Where("category_id = ?", id).Delete(&serviceSubcategoryRow{}).Error; err != nil {
			return fmt.Errorf("delete service subcategories: %w", err)
		}
		if err := db.Where("category_id = ?", id).Delete(&serviceRow{}).Error; err != nil {
			return fmt.Errorf("delete services: %w", err)
		}
		return nil
	})
}

func (r gormServices) ListSubcategories(ctx context.Context) ([]domain.ServiceSubcategory, error) {
	var rows []serviceSubcategoryRow
	if err := r.s.conn(ctx).Order("display_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list service subcategories: %w", err)
	}
	out := make([]domain.ServiceSubcategory, len(rows))
	for i, row := range rows {
		out[i] = domain.ServiceSubcategory(row)
	}
	return out, nil
}

func (r gormServices) GetSubcategory(ctx context.Context, id int64) (*domain.ServiceSubcategory, error) {
	var row serviceSubcategoryRow
	if err := r.s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	sc := domain.ServiceSubcategory(row)
	return &sc, nil
}

func (r gormServices) CreateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error {
	row := serviceSubcategoryRow(*sc)
	row.ID = 0
	if err := r.saveServiceRow(ctx, "service subcategory", &serviceSubcategoryRow{}, &row, 0, sc.Slug); err != nil {
		return err
	}
	sc.ID = row.ID
	return nil
}

func (r gormServices) UpdateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error {
	row := serviceSubcategoryRow(*sc)
	return r.saveServiceRow(ctx, "service subcategory", &serviceSubcategoryRow{}, &row, sc.ID, sc.Slug)
}

func (r gormServices) DeleteSubcategory(ctx context.Context, id int64) error {
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		if err := deleteByID(db, "service subcategory", &serviceSubcategoryRow{}, id); err != nil {
			return err
		}
		err := db.Model(&serviceRow{}).Where("subcategory_id = ?", id).Update("subcategory_id", 0).Error
		if err != nil {
			return fmt.Errorf("detach services: %w", err)
		}
		return nil
	})
}

func (r gormServices) ListServices(ctx context.Context) ([]domain.ServiceItem, error) {
	var rows []serviceRow
	if err := r.s.conn(ctx).Order("display_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out := make([]domain.ServiceItem, len(rows))
	for i, row := range rows {
		out[i] = fromServiceRow(row)
	}
	return out, nil
}

func (r gormServices) GetService(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	var row serviceRow
	if err := r.s.conn(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	it := fromServiceRow(row)
	return &it, nil
}

func (r gormServices) CreateService(ctx context.Context, it *domain.ServiceItem) error {
	row := toServiceRow(*it)
	row.ID = 0
	if err := r.saveServiceRow(ctx, "service", &serviceRow{}, &row, 0, it.Slug); err != nil {
		return err
	}
	it.ID = row.ID
	return nil
}

func (r gormServices) UpdateService(ctx context.Context, it *domain.ServiceItem) error {
	row := toServiceRow(*it)
	return r.saveServiceRow(ctx, "service", &serviceRow{}, &row, it.ID, it.Slug)
}

func (r gormServices) DeleteService(ctx context.Context, id int64) error {
	return deleteByID(r.s.conn(ctx), "service", &serviceRow{}, id)
}

func (r gormServices) Reorder(ctx context.Context, kind domain.ServiceKind, positions []domain.DisplayPosition) error {
	var model any
	switch kind {
	case domain.ServiceKindCategory:
		model = &serviceCategoryRow{}
	case domain.ServiceKindSubcategory:
		model = &serviceSubcategoryRow{}
	case domain.ServiceKindService:
		model = &serviceRow{}
	default:
		return ErrNotFound
	}
	now := time.Now().UTC()
	return r.s.inTx(ctx, func(db *gorm.DB) error {
		for _, p := range positions {
			res := db.Model(model).Where("id = ?", p.ID).Updates(map[string]any{
				"display_order": p.DisplayOrder,
				"updated_at":    now,
			})
			if res.Error != nil {
				return fmt.Errorf("reorder %s: %w", kind, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

func toServiceRow(it domain.ServiceItem) serviceRow {
	return serviceRow{
		ID:            it.ID,
		CategoryID:    it.CategoryID,
		SubcategoryID: it.SubcategoryID,
		Name:          it.Name,
		Slug:          it.Slug,
		Description:   it.Description,
		Price:         decimalString(it.Price),
		PriceText:     it.PriceText,
		Duration:      it.Duration,
		Depth:         it.Depth,
		Includes:      it.Includes,
		ServiceType:   it.ServiceType,
		DisplayOrder:  it.DisplayOrder,
		Active:        it.Active,
		Featured:      it.Featured,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func fromServiceRow(row serviceRow) domain.ServiceItem {
	return domain.ServiceItem{
		ID:            row.ID,
		CategoryID:    row.CategoryID,
		SubcategoryID: row.SubcategoryID,
		Name:          row.Name,
		Slug:          row.Slug,
		Description:   row.Description,
		Price:         parseStoredOptional(row.Price),
		PriceText:     row.PriceText,
		Duration:      row.Duration,
		Depth:         row.Depth,
		Includes:      row.Includes,
		ServiceType:   row.ServiceType,
		DisplayOrder:  row.DisplayOrder,
		Active:        row.Active,
		Featured:      row.Featured,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// parseStored reads a price column written by this store.
func parseStored(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseStoredOptional(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := parseStored(s)
	return &d
}

func toProductRow(p domain.Product) productRow {
	return productRow{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		Badge:       p.Badge,
		Color:       p.Color,
		Price:       p.Price.String(),
		MSRP:        decimalString(p.MSRP),
		Images:      p.Images,
	}
}

func toVariantRow(productID int64, pos int, v domain.Variant) variantRow {
	return variantRow{
		ProductID: productID,
		Position:  pos,
		VariantID: v.ID,
		Name:      v.Name,
		Price:     v.Price.String(),
		MSRP:      decimalString(v.MSRP),
		Size:      v.Size,
		Color:     v.Color,
		Specs:     v.Specs,
		Inventory: v.Inventory,
		IsDefault: v.Default,
	}
}

func fromProductRow(row productRow) domain.Product {
	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Brand:       row.Brand,
		Category:    row.Category,
		Description: row.Description,
		Badge:       row.Badge,
		Color:       row.Color,
		Price:       parseStored(row.Price),
		MSRP:        parseStoredOptional(row.MSRP),
		Images:      row.Images,
		Variants:    make([]domain.Variant, len(row.Variants)),
	}
	for i, v := range row.Variants {
		p.Variants[i] = domain.Variant{
			ID:        v.VariantID,
			Name:      v.Name,
			Price:     parseStored(v.Price),
			MSRP:      parseStoredOptional(v.MSRP),
			Size:      v.Size,
			Color:     v.Color,
			Specs:     v.Specs,
			Inventory: v.Inventory,
			Default:   v.IsDefault,
		}
	}
	return p
}

func toOrderRow(o domain.Order) orderRow {
	row := orderRow{
		ID:           o.ID,
		SessionID:    o.SessionID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Total:        o.Total.String(),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        make([]orderItemRow, len(o.Items)),
	}
	for i, it := range o.Items {
		row.Items[i] = orderItemRow{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		}
	}
	return row
}

func fromOrderRow(row orderRow) domain.Order {
	o := domain.Order{
		ID:           row.ID,
		SessionID:    row.SessionID,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Total:        parseStored(row.Total),
		Status:       domain.OrderStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Items:        make([]domain.OrderItem, len(row.Items)),
	}
	for i, it := range row.Items {
		o.Items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: parseStored(it.UnitPrice),
		}
	}
	return o
}

func toBlogRow(p domain.BlogPost) blogRow {
	return blogRow(p)
}

func fromBlogRow(row blogRow) domain.BlogPost {
	return domain.BlogPost(row)
}
