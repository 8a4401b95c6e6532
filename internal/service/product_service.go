package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"suncoast/internal/catalog"
	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

// ProductService wraps inventory administration and catalog reads.
// Every successful write rebuilds the catalog snapshot.
type ProductService struct {
	repo    repository.ProductRepository
	catalog *catalog.Loader
	log     *zap.Logger
}

func NewProductService(repo repository.ProductRepository, loader *catalog.Loader, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, catalog: loader, log: log}
}

var ErrInvalidInput = errors.New("invalid input")

const defaultRelatedLimit = 4

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID < 0 {
		return nil, ErrInvalidInput
	}
	cp, err := catalog.Prepare(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	refreshCatalog(ctx, s.catalog, s.log)
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID <= 0 {
		return nil, ErrInvalidInput
	}
	cp, err := catalog.Prepare(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	refreshCatalog(ctx, s.catalog, s.log)
	return &cp, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	refreshCatalog(ctx, s.catalog, s.log)
	return nil
}

// Browse filters, sorts and paginates the current catalog.
func (s *ProductService) Browse(ctx context.Context, c catalog.Criteria, pg catalog.Page) (catalog.PageResult, error) {
	if !c.SortBy.Valid() {
		return catalog.PageResult{}, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, c.SortBy)
	}
	cat, err := s.catalog.Current(ctx)
	if err != nil {
		return catalog.PageResult{}, err
	}
	return cat.Browse(c, pg), nil
}

// Options lists the filter values of the full catalog.
func (s *ProductService) Options(ctx context.Context) (catalog.Options, error) {
	cat, err := s.catalog.Current(ctx)
	if err != nil {
		return catalog.Options{}, err
	}
	return cat.Options(), nil
}

// Product reads one product from the catalog snapshot.
func (s *ProductService) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	cat, err := s.catalog.Current(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := cat.Product(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *ProductService) Related(ctx context.Context, id int64, limit int) ([]domain.Product, error) {
	if _, err := s.Product(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	cat, err := s.catalog.Current(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Related(id, limit), nil
}

// Import stores ingested products, replacing any with the same ID.
func (s *ProductService) Import(ctx context.Context, products []domain.Product) error {
	for i := range products {
		p := products[i]
		err := s.repo.Create(ctx, &p)
		if errors.Is(err, repository.ErrConflict) {
			err = s.repo.Update(ctx, &p)
		}
		if err != nil {
			return fmt.Errorf("import product %d: %w", p.ID, err)
		}
	}
	refreshCatalog(ctx, s.catalog, s.log)
	return nil
}

// refreshCatalog rebuilds the snapshot after a write. The write already
// succeeded, so a failed rebuild is logged and retried on the next read.
func refreshCatalog(ctx context.Context, loader *catalog.Loader, log *zap.Logger) {
	loader.Invalidate()
	if _, err := loader.Current(ctx); err != nil {
		log.Warn("catalog rebuild failed", zap.Error(err))
	}
}
