package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/port"
)

// approver is the one place an order is moved to approved and its stock
// committed. Both the checkout workflow and the admin panel go through it,
// so the two paths cannot drift apart in their failure handling.
type approver struct {
	orders  port.OrderRepository
	catalog port.CatalogRepository
	logger  *zap.Logger
}

// finalizeApproval marks the order approved and then decrements stock for
// its line items. Any failure triggers a best-effort compensating move to
// failed before the error is returned.
func (a approver) finalizeApproval(ctx context.Context, order domain.Order) error {
	if _, err := a.orders.SetStatus(ctx, order.ID, domain.OrderStatusApproved); err != nil {
		a.markFailed(ctx, order.ID)
		return fmt.Errorf("approve order %s: %w", order.ID, err)
	}

	if err := a.catalog.ApplyStockDeltas(ctx, order.StockDeltas()); err != nil {
		a.markFailed(ctx, order.ID)
		return fmt.Errorf("commit stock for order %s: %w", order.ID, err)
	}

	return nil
}

// markFailed is the compensating action: it tries to park the order in
// failed so no pending order silently represents a charge of unknown fate.
// If the order already reached a terminal status the store rejects the
// transition; that rejection is logged and swallowed, never propagated.
func (a approver) markFailed(ctx context.Context, orderID string) {
	if _, err := a.orders.SetStatus(ctx, orderID, domain.OrderStatusFailed); err != nil {
		a.logger.Error("compensating status update failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}
