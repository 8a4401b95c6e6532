package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"suncoast/internal/cart"
	"suncoast/internal/catalog"
	"suncoast/internal/domain"
	"suncoast/internal/repository"
)

// OrderService turns carts into orders and handles cancellation.
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	carts    cart.Store
	catalog  *catalog.Loader
	log      *zap.Logger
}

func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	tx repository.TxManager,
	carts cart.Store,
	loader *catalog.Loader,
	log *zap.Logger,
) *OrderService {
	return &OrderService{products: products, orders: orders, tx: tx, carts: carts, catalog: loader, log: log}
}

var (
	ErrNotEnoughStock = errors.New("not enough stock")
	ErrInvalidState   = errors.New("invalid state")
	ErrEmptyCart      = errors.New("cart is empty")
)

type lineKey struct {
	productID int64
	variantID string
}

// Checkout places an order for the session's cart. Stock is checked and
// decremented in one transaction, unit prices are frozen from the stored
// products, and the cart's lines are claimed up front and returned to it if
// the order cannot be placed.
func (s *OrderService) Checkout(ctx context.Context, sessionID, customer, email string) (*domain.Order, error) {
	customer = strings.TrimSpace(customer)
	email = strings.TrimSpace(email)
	if sessionID == "" || customer == "" {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}

	c, found, err := s.carts.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrEmptyCart
	}
	// taking the lines claims them; a concurrent checkout sees an empty cart
	lines := c.Take()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var created *domain.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// load and check everything before the first write
		var err error
		products := make(map[int64]*domain.Product)
		var order []int64
		items := make([]domain.OrderItem, 0, len(lines))
		total := decimal.Zero
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				p, err = s.products.GetByID(ctx, l.ProductID)
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: product %d is no longer sold", ErrInvalidState, l.ProductID)
				}
				if err != nil {
					return err
				}
				products[p.ID] = p
				order = append(order, p.ID)
			}
			idx := variantIndex(p, l.VariantID)
			if idx < 0 {
				return fmt.Errorf("%w: %s variant %q is no longer sold", ErrInvalidState, p.Name, l.VariantID)
			}
			v := &p.Variants[idx]
			if v.Inventory < l.Quantity {
				return fmt.Errorf("%w: %s (%s) has %d left", ErrNotEnoughStock, p.Name, v.Name, v.Inventory)
			}
			v.Inventory -= l.Quantity

			it := domain.OrderItem{
				ProductID: p.ID,
				VariantID: v.ID,
				Name:      itemName(p, *v),
				Quantity:  l.Quantity,
				UnitPrice: v.Price,
			}
			items = append(items, it)
			total = total.Add(it.LineTotal())
		}
		for _, id := range order {
			if err := s.products.Update(ctx, products[id]); err != nil {
				return err
			}
		}

		o := domain.Order{
			SessionID:    sessionID,
			CustomerName: customer,
			Email:        email,
			Items:        items,
			Total:        total,
			Status:       domain.OrderStatusConfirmed,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		c.PutBack(lines)
		return nil, err
	}

	refreshCatalog(ctx, s.catalog, s.log)
	s.log.Info("order placed",
		zap.Int64("order_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.Total.StringFixed(2)))
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// CancelOrder moves a Confirmed order to Cancelled and restores stock.
// Variants removed from the catalog since checkout are skipped.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status != domain.OrderStatusConfirmed {
			return ErrInvalidState
		}

		restock := make(map[lineKey]int64)
		var productIDs []int64
		for _, it := range o.Items {
			k := lineKey{it.ProductID, it.VariantID}
			if !slices.Contains(productIDs, it.ProductID) {
				productIDs = append(productIDs, it.ProductID)
			}
			restock[k] += it.Quantity
		}
		for _, pid := range productIDs {
			p, err := s.products.GetByID(ctx, pid)
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warn("restock skipped, product gone", zap.Int64("order_id", id), zap.Int64("product_id", pid))
				continue
			}
			if err != nil {
				return err
			}
			for i := range p.Variants {
				p.Variants[i].Inventory += restock[lineKey{pid, p.Variants[i].ID}]
			}
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
		}

		o.Status = domain.OrderStatusCancelled
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	refreshCatalog(ctx, s.catalog, s.log)
	return updated, nil
}

func variantIndex(p *domain.Product, variantID string) int {
	for i, v := range p.Variants {
		if v.ID == variantID {
			return i
		}
	}
	return -1
}

func itemName(p *domain.Product, v domain.Variant) string {
	if len(p.Variants) < 2 || v.Name == "" || v.Name == p.Name {
		return p.Name
	}
	return p.Name + " - " + v.Name
}
