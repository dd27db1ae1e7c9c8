package port

import (
	"context"

	"github.com/novashop/checkout/internal/core/domain"
)

type OrderRepository interface {
	// Create persists the order together with its line item snapshots.
	Create(ctx context.Context, order domain.Order) error

	Get(ctx context.Context, id string) (*domain.Order, error)

	// List returns all orders, newest first.
	List(ctx context.Context) ([]domain.Order, error)

	// SetStatus moves the order to the given status, rejecting transitions
	// the status lifecycle does not allow (domain.ErrIllegalTransition).
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
