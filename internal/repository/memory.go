package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"suncoast/internal/domain"
)

// MemoryStore is a combined in-memory store with simple ID generators.
type MemoryStore struct {
	mu           sync.RWMutex
	nextProdID   int64
	nextOrderID  int64
	nextPostID   int64
	productsByID map[int64]domain.Product
	ordersByID   map[int64]domain.Order
	postsByID    map[int64]domain.BlogPost
	promotions   map[string]domain.Promotion

	nextServiceID  int64
	serviceCats    map[int64]domain.ServiceCategory
	serviceSubcats map[int64]domain.ServiceSubcategory
	serviceItems   map[int64]domain.ServiceItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProdID:   1,
		nextOrderID:  1,
		nextPostID:   1,
		productsByID: make(map[int64]domain.Product),
		ordersByID:   make(map[int64]domain.Order),
		postsByID:    make(map[int64]domain.BlogPost),
		promotions:   make(map[string]domain.Promotion),

		nextServiceID:  1,
		serviceCats:    make(map[int64]domain.ServiceCategory),
		serviceSubcats: make(map[int64]domain.ServiceSubcategory),
		serviceItems:   make(map[int64]domain.ServiceItem),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if p.ID == 0 {
		for {
			if _, taken := m.productsByID[m.nextProdID]; !taken {
				break
			}
			m.nextProdID++
		}
		p.ID = m.nextProdID
		m.nextProdID++
	} else if _, taken := m.productsByID[p.ID]; taken {
		return ErrConflict
	}
	m.productsByID[p.ID] = cloneProduct(*p)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneProduct(p)
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	m.productsByID[p.ID] = cloneProduct(*p)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(m.productsByID))
	for _, p := range m.productsByID {
		out = append(out, cloneProduct(p))
	}
	slices.SortFunc(out, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = mo.store.nextOrderID
	mo.store.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	return nil
}

// BlogRepository implementation on wrapper type
type MemoryBlog struct{ store *MemoryStore }

func NewMemoryBlog(store *MemoryStore) *MemoryBlog { return &MemoryBlog{store: store} }

var _ BlogRepository = (*MemoryBlog)(nil)

func (mb *MemoryBlog) Create(ctx context.Context, p *domain.BlogPost) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	if mb.slugTaken(p.Slug, 0) {
		return ErrConflict
	}
	p.ID = mb.store.nextPostID
	mb.store.nextPostID++
	mb.store.postsByID[p.ID] = *p
	return nil
}

func (mb *MemoryBlog) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	mb.store.rlock(ctx)
	defer mb.store.runlock(ctx)
	for _, p := range mb.store.postsByID {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mb *MemoryBlog) Update(ctx context.Context, p *domain.BlogPost) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	if _, ok := mb.store.postsByID[p.ID]; !ok {
		return ErrNotFound
	}
	if mb.slugTaken(p.Slug, p.ID) {
		return ErrConflict
	}
	mb.store.postsByID[p.ID] = *p
	return nil
}

func (mb *MemoryBlog) Delete(ctx context.Context, id int64) error {
	mb.store.wlock(ctx)
	defer mb.store.wunlock(ctx)
	if _, ok := mb.store.postsByID[id]; !ok {
		return ErrNotFound
	}
	delete(mb.store.postsByID, id)
	return nil
}

func (mb *MemoryBlog) List(ctx context.Context) ([]domain.BlogPost, error) {
	mb.store.rlock(ctx)
	defer mb.store.runlock(ctx)
	out := make([]domain.BlogPost, 0, len(mb.store.postsByID))
	for _, p := range mb.store.postsByID {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.BlogPost) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// slugTaken must be called under the write lock.
func (mb *MemoryBlog) slugTaken(slug string, exceptID int64) bool {
	for id, p := range mb.store.postsByID {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

// PromotionRepository implementation on wrapper type
type MemoryPromotions struct{ store *MemoryStore }

func NewMemoryPromotions(store *MemoryStore) *MemoryPromotions {
	return &MemoryPromotions{store: store}
}

var _ PromotionRepository = (*MemoryPromotions)(nil)

func (mp *MemoryPromotions) Get(ctx context.Context, location string) (*domain.Promotion, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	p, ok := mp.store.promotions[location]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (mp *MemoryPromotions) Upsert(ctx context.Context, p *domain.Promotion) error {
	mp.store.wlock(ctx)
	defer mp.store.wunlock(ctx)
	p.UpdatedAt = time.Now().UTC()
	mp.store.promotions[p.Location] = *p
	return nil
}

// ServiceCatalogRepository implementation on wrapper type. IDs come from
// one sequence shared by the three tables.
type MemoryServices struct{ store *MemoryStore }

func NewMemoryServices(store *MemoryStore) *MemoryServices { return &MemoryServices{store: store} }

var _ ServiceCatalogRepository = (*MemoryServices)(nil)

func (ms *MemoryServices) nextID() int64 {
	id := ms.store.nextServiceID
	ms.store.nextServiceID++
	return id
}

func (ms *MemoryServices) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	out := make([]domain.ServiceCategory, 0, len(ms.store.serviceCats))
	for _, c := range ms.store.serviceCats {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.ServiceCategory) int {
		return byDisplayOrder(a.DisplayOrder, b.DisplayOrder, a.ID, b.ID)
	})
	return out, nil
}

func (ms *MemoryServices) GetCategory(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	c, ok := ms.store.serviceCats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (ms *MemoryServices) CreateCategory(ctx context.Context, c *domain.ServiceCategory) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	for _, other := range ms.store.serviceCats {
		if other.Slug == c.Slug {
			return ErrConflict
		}
	}
	c.ID = ms.nextID()
	ms.store.serviceCats[c.ID] = *c
	return nil
}

func (ms *MemoryServices) UpdateCategory(ctx context.Context, c *domain.ServiceCategory) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceCats[c.ID]; !ok {
		return ErrNotFound
	}
	for id, other := range ms.store.serviceCats {
		if id != c.ID && other.Slug == c.Slug {
			return ErrConflict
		}
	}
	ms.store.serviceCats[c.ID] = *c
	return nil
}

func (ms *MemoryServices) DeleteCategory(ctx context.Context, id int64) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceCats[id]; !ok {
		return ErrNotFound
	}
	delete(ms.store.serviceCats, id)
	for sid, sc := range ms.store.serviceSubcats {
		if sc.CategoryID == id {
			delete(ms.store.serviceSubcats, sid)
		}
	}
	for iid, it := range ms.store.serviceItems {
		if it.CategoryID == id {
			delete(ms.store.serviceItems, iid)
		}
	}
	return nil
}

func (ms *MemoryServices) ListSubcategories(ctx context.Context) ([]domain.ServiceSubcategory, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	out := make([]domain.ServiceSubcategory, 0, len(ms.store.serviceSubcats))
	for _, sc := range ms.store.serviceSubcats {
		out = append(out, sc)
	}
	slices.SortFunc(out, func(a, b domain.ServiceSubcategory) int {
		return byDisplayOrder(a.DisplayOrder, b.DisplayOrder, a.ID, b.ID)
	})
	return out, nil
}

func (ms *MemoryServices) GetSubcategory(ctx context.Context, id int64) (*domain.ServiceSubcategory, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	sc, ok := ms.store.serviceSubcats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sc, nil
}

func (ms *MemoryServices) CreateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	for _, other := range ms.store.serviceSubcats {
		if other.Slug == sc.Slug {
			return ErrConflict
		}
	}
	sc.ID = ms.nextID()
	ms.store.serviceSubcats[sc.ID] = *sc
	return nil
}

func (ms *MemoryServices) UpdateSubcategory(ctx context.Context, sc *domain.ServiceSubcategory) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceSubcats[sc.ID]; !ok {
		return ErrNotFound
	}
	for id, other := range ms.store.serviceSubcats {
		if id != sc.ID && other.Slug == sc.Slug {
			return ErrConflict
		}
	}
	ms.store.serviceSubcats[sc.ID] = *sc
	return nil
}

func (ms *MemoryServices) DeleteSubcategory(ctx context.Context, id int64) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceSubcats[id]; !ok {
		return ErrNotFound
	}
	delete(ms.store.serviceSubcats, id)
	for iid, it := range ms.store.serviceItems {
		if it.SubcategoryID == id {
			it.SubcategoryID = 0
			ms.store.serviceItems[iid] = it
		}
	}
	return nil
}

func (ms *MemoryServices) ListServices(ctx context.Context) ([]domain.ServiceItem, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	out := make([]domain.ServiceItem, 0, len(ms.store.serviceItems))
	for _, it := range ms.store.serviceItems {
		out = append(out, cloneServiceItem(it))
	}
	slices.SortFunc(out, func(a, b domain.ServiceItem) int {
		return byDisplayOrder(a.DisplayOrder, b.DisplayOrder, a.ID, b.ID)
	})
	return out, nil
}

func (ms *MemoryServices) GetService(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	it, ok := ms.store.serviceItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneServiceItem(it)
	return &cp, nil
}

func (ms *MemoryServices) CreateService(ctx context.Context, it *domain.ServiceItem) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	for _, other := range ms.store.serviceItems {
		if other.Slug == it.Slug {
			return ErrConflict
		}
	}
	it.ID = ms.nextID()
	ms.store.serviceItems[it.ID] = cloneServiceItem(*it)
	return nil
}

func (ms *MemoryServices) UpdateService(ctx context.Context, it *domain.ServiceItem) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceItems[it.ID]; !ok {
		return ErrNotFound
	}
	for id, other := range ms.store.serviceItems {
		if id != it.ID && other.Slug == it.Slug {
			return ErrConflict
		}
	}
	ms.store.serviceItems[it.ID] = cloneServiceItem(*it)
	return nil
}

func (ms *MemoryServices) DeleteService(ctx context.Context, id int64) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	if _, ok := ms.store.serviceItems[id]; !ok {
		return ErrNotFound
	}
	delete(ms.store.serviceItems, id)
	return nil
}

func (ms *MemoryServices) Reorder(ctx context.Context, kind domain.ServiceKind, positions []domain.DisplayPosition) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	now := time.Now().UTC()
	switch kind {
	case domain.ServiceKindCategory:
		return reorder(ms.store.serviceCats, positions, func(c *domain.ServiceCategory, order int) {
			c.DisplayOrder, c.UpdatedAt = order, now
		})
	case domain.ServiceKindSubcategory:
		return reorder(ms.store.serviceSubcats, positions, func(sc *domain.ServiceSubcategory, order int) {
			sc.DisplayOrder, sc.UpdatedAt = order, now
		})
	case domain.ServiceKindService:
		return reorder(ms.store.serviceItems, positions, func(it *domain.ServiceItem, order int) {
			it.DisplayOrder, it.UpdatedAt = order, now
		})
	default:
		return ErrNotFound
	}
}

// reorder checks every ID before touching any row.
func reorder[T any](rows map[int64]T, positions []domain.DisplayPosition, set func(*T, int)) error {
	for _, p := range positions {
		if _, ok := rows[p.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, p := range positions {
		row := rows[p.ID]
		set(&row, p.DisplayOrder)
		rows[p.ID] = row
	}
	return nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Hold the write lock and flag the context so repositories skip their own locks.
	// Nested calls reuse the outer transaction.
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
