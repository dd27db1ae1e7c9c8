package service

import (
	"context"
	"fmt"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/port"
)

// CartService applies cart mutations against the current catalog state, so
// quantities are always bounded by the stock at mutation time.
type CartService struct {
	carts   port.CartStore
	catalog port.CatalogRepository
}

func NewCartService(carts port.CartStore, catalog port.CatalogRepository) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.carts.Load(ctx, cartID)
}

// AddItem adds one unit of the product to the cart.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(*product); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity updates an entry's quantity, clamped at the product's current
// stock. Zero or negative removes the entry.
func (s *CartService) SetQuantity(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(*product, quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Remove(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.carts.Clear(ctx, cartID)
}

func (s *CartService) lookupProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lookup product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}
	return product, nil
}
