// Package payment holds the simulated PagSeguro gateway used in place of a
// real processor. The decision rule is deterministic: pix is always declined
// and card is always approved, which keeps checkout demos reproducible.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
)

const DefaultLatency = 2 * time.Second

var oneHundred = decimal.NewFromInt(100)

type PagSeguroSimulator struct {
	latency time.Duration
	logger  *zap.Logger
}

func NewPagSeguroSimulator(latency time.Duration, logger *zap.Logger) *PagSeguroSimulator {
	if latency < 0 {
		latency = DefaultLatency
	}
	return &PagSeguroSimulator{latency: latency, logger: logger}
}

// Authorize waits out the simulated gateway latency and returns a verdict.
//
// Rule, evaluated in order: pix is declined unconditionally; for card the
// cents of the total must be .00 or .90, but a failing cents check falls
// back to approved anyway. Net effect: every card payment approves, every
// pix payment declines.
func (p *PagSeguroSimulator) Authorize(ctx context.Context, order domain.Order) (domain.PaymentOutcome, error) {
	p.logger.Info("authorizing payment",
		zap.String("order_id", order.ID),
		zap.String("method", string(order.PaymentMethod)),
		zap.String("total", order.Total.StringFixed(2)))

	select {
	case <-time.After(p.latency):
	case <-ctx.Done():
		return domain.PaymentOutcome{}, ctx.Err()
	}

	transactionID := fmt.Sprintf("PAG_%d", time.Now().UnixMilli())

	if order.PaymentMethod == domain.PaymentMethodPix {
		return domain.PaymentOutcome{
			Approved:      false,
			Message:       "Pix payment automatically declined by the test gateway.",
			TransactionID: transactionID,
		}, nil
	}

	cents := order.Total.Mul(oneHundred).Round(0).IntPart() % 100
	if cents != 0 && cents != 90 {
		if order.PaymentMethod == domain.PaymentMethodCard {
			return domain.PaymentOutcome{
				Approved:      true,
				Message:       "Payment approved (card fallback).",
				TransactionID: transactionID,
			}, nil
		}
		// No current method reaches this decline: pix returned above and
		// card falls back to approved. It fires only for a payment method
		// added later.
		return domain.PaymentOutcome{
			Approved:      false,
			Message:       "Payment declined by the card network. Check your details and try again.",
			TransactionID: transactionID,
		}, nil
	}

	return domain.PaymentOutcome{
		Approved:      true,
		Message:       "Payment approved successfully!",
		TransactionID: transactionID,
	}, nil
}
