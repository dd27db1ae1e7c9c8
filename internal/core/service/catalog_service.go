package service

import (
	"context"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/port"
)

// CatalogService fronts the product store with input checks the repository
// should not have to repeat.
type CatalogService struct {
	catalog port.CatalogRepository
}

func NewCatalogService(catalog port.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.catalog.Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if verr := validateProduct(p); verr != nil {
		return nil, verr
	}
	return s.catalog.Create(ctx, p)
}

func (s *CatalogService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if verr := validateProduct(p); verr != nil {
		return nil, verr
	}
	return s.catalog.Update(ctx, p)
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.catalog.Delete(ctx, id)
}

// AdjustStock applies a batch of stock decrements atomically.
func (s *CatalogService) AdjustStock(ctx context.Context, deltas []domain.StockDelta) error {
	fields := make(map[string]string)
	for _, d := range deltas {
		if d.QuantitySold <= 0 {
			fields["quantitySold"] = "quantity sold must be positive"
		}
	}
	if len(deltas) == 0 {
		fields["updates"] = "at least one stock update is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return s.catalog.ApplyStockDeltas(ctx, deltas)
}

func validateProduct(p domain.Product) *ValidationError {
	fields := make(map[string]string)
	if p.Title == "" {
		fields["title"] = "title is required"
	}
	if p.Price.IsNegative() {
		fields["price"] = "price cannot be negative"
	}
	if p.Stock < 0 {
		fields["stock"] = "stock cannot be negative"
	}
	switch p.Status {
	case domain.ProductStatusActive, domain.ProductStatusInactive:
	default:
		fields["status"] = "status must be Active or Inactive"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
