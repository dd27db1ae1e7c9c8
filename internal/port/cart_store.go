package port

import (
	"context"

	"github.com/novashop/checkout/internal/core/domain"
)

// CartStore persists per-session carts. Load returns an empty cart for an
// unknown id, so callers never deal with a missing-cart case.
type CartStore interface {
	Load(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, cartID string) error
}
