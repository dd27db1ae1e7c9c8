package port

import (
	"context"

	"github.com/novashop/checkout/internal/core/domain"
)

type CatalogRepository interface {
	// List returns all products, newest first.
	List(ctx context.Context) ([]domain.Product, error)

	// Get returns the product or nil when absent.
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Create persists a new product and returns it with its generated id.
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)

	// Update overwrites all mutable fields of an existing product.
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)

	Delete(ctx context.Context, id int64) error

	// ApplyStockDeltas decrements stock for every delta inside a single
	// transaction, flooring each product's stock at zero. An unknown
	// product id rolls back the whole batch.
	ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error
}
