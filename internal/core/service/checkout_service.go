package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/port"
)

const genericCheckoutFailure = "An unexpected error occurred while processing your order. Please try again."

// CheckoutResult is what the customer sees at the end of a checkout attempt,
// whatever branch was taken.
type CheckoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

// CheckoutService orchestrates the create -> authorize -> finalize sequence
// for one order. The steps run strictly in order; the payment call is the
// single suspension point and nothing touches the order while it is in
// flight.
type CheckoutService struct {
	approver
	carts   port.CartStore
	gateway port.PaymentProcessor
	logger  *zap.Logger
}

func NewCheckoutService(
	orders port.OrderRepository,
	catalog port.CatalogRepository,
	carts port.CartStore,
	gateway port.PaymentProcessor,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		approver: approver{orders: orders, catalog: catalog, logger: logger},
		carts:    carts,
		gateway:  gateway,
		logger:   logger,
	}
}

// Submit runs the whole checkout workflow. Validation failures and an empty
// cart come back as errors before anything is persisted; once the pending
// order exists, every downstream failure resolves to a terminal order status
// and a CheckoutResult, so the caller always gets an outcome to render.
// Cancelling ctx after validation has no effect; the order still reaches its
// real outcome.
func (s *CheckoutService) Submit(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if verr := validateCheckout(in); verr != nil {
		return CheckoutResult{}, verr
	}

	cart, err := s.carts.Load(ctx, in.CartID)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	// A client disconnect must not abort an in-flight payment: once the
	// workflow commits to creating an order, it runs to its real outcome
	// server-side even if nobody is waiting for the response.
	ctx = context.WithoutCancel(ctx)

	// The order is created pending before payment is attempted, so every
	// payment attempt leaves an auditable record even on a crash.
	order := domain.NewOrder(in.Customer, in.Address, cart.Items, in.PaymentMethod)
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("order creation failed", zap.Error(err))
		return CheckoutResult{Success: false, Message: genericCheckoutFailure}, nil
	}

	outcome, err := s.gateway.Authorize(ctx, order)
	if err != nil {
		s.logger.Error("payment authorization errored",
			zap.String("order_id", order.ID), zap.Error(err))
		s.markFailed(ctx, order.ID)
		return CheckoutResult{Success: false, Message: genericCheckoutFailure, OrderID: order.ID}, nil
	}

	if !outcome.Approved {
		// Declined: terminal failed status, stock untouched, cart kept
		// so the customer can edit and retry.
		if _, err := s.orders.SetStatus(ctx, order.ID, domain.OrderStatusFailed); err != nil {
			s.logger.Error("failed to record declined payment",
				zap.String("order_id", order.ID), zap.Error(err))
			return CheckoutResult{Success: false, Message: genericCheckoutFailure, OrderID: order.ID}, nil
		}
		s.logger.Info("payment declined",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", outcome.TransactionID))
		return CheckoutResult{Success: false, Message: outcome.Message, OrderID: order.ID}, nil
	}

	if err := s.finalizeApproval(ctx, order); err != nil {
		s.logger.Error("order finalization failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return CheckoutResult{Success: false, Message: genericCheckoutFailure, OrderID: order.ID}, nil
	}

	// The order is final at this point; a cart that fails to clear is an
	// inconvenience, not an inconsistency.
	if err := s.carts.Clear(ctx, in.CartID); err != nil {
		s.logger.Warn("failed to clear cart after approval",
			zap.String("cart_id", in.CartID), zap.Error(err))
	}

	s.logger.Info("checkout approved",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", outcome.TransactionID),
		zap.String("total", order.Total.StringFixed(2)))

	return CheckoutResult{Success: true, Message: outcome.Message, OrderID: order.ID}, nil
}
