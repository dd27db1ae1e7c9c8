package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/port"
)

// AdminService is the reconciliation counterpart of the checkout workflow:
// an operator resolves a pending order by hand. Approval runs through the
// same approver as checkout, stock commit and compensation included.
type AdminService struct {
	approver
}

func NewAdminService(orders port.OrderRepository, catalog port.CatalogRepository, logger *zap.Logger) *AdminService {
	return &AdminService{
		approver: approver{orders: orders, catalog: catalog, logger: logger},
	}
}

// ListOrders returns every order, newest first.
func (s *AdminService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *AdminService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

// Approve moves a pending order to approved and commits its stock
// decrements. Non-pending orders are rejected by the store's transition
// check.
func (s *AdminService) Approve(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.finalizeApproval(ctx, *order); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, orderID)
}

// Refuse moves a pending order to failed. Stock is untouched.
func (s *AdminService) Refuse(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.SetStatus(ctx, orderID, domain.OrderStatusFailed)
}
