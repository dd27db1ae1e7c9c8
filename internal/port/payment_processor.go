package port

import (
	"context"

	"github.com/novashop/checkout/internal/core/domain"
)

// PaymentProcessor authorizes a pending order against a payment gateway.
// A declined payment is a normal outcome, not an error; the error return is
// for transport or context failures only.
type PaymentProcessor interface {
	Authorize(ctx context.Context, order domain.Order) (domain.PaymentOutcome, error)
}
