package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
)

func pendingOrder(t *testing.T, orders *fakeOrderRepo, productID int64, quantity int) domain.Order {
	t.Helper()
	order := domain.NewOrder(
		domain.Customer{Name: "Ana", Email: "ana@example.com", Phone: "11987654321", CPF: "12345678901"},
		domain.Address{Street: "Rua A", Number: "1", Neighborhood: "Centro", City: "SP", State: "SP", Zip: "01001000"},
		[]domain.CartItem{{
			Product:  domain.Product{ID: productID, Title: "Course", Price: decimal.NewFromFloat(199.90), Stock: 10, Status: domain.ProductStatusActive},
			Quantity: quantity,
		}},
		domain.PaymentMethodCard,
	)
	require.NoError(t, orders.Create(context.Background(), order))
	return order
}

func TestAdminApprove(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog(domain.Product{ID: 1, Title: "Course", Stock: 10, Status: domain.ProductStatusActive})
	svc := NewAdminService(orders, catalog, zap.NewNop())

	order := pendingOrder(t, orders, 1, 2)

	approved, err := svc.Approve(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusApproved, approved.Status)
	assert.Equal(t, 8, catalog.stock(1), "approval commits the stock decrement")
}

func TestAdminRefuse(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog(domain.Product{ID: 1, Title: "Course", Stock: 10, Status: domain.ProductStatusActive})
	svc := NewAdminService(orders, catalog, zap.NewNop())

	order := pendingOrder(t, orders, 1, 2)

	refused, err := svc.Refuse(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusFailed, refused.Status)
	assert.Equal(t, 10, catalog.stock(1), "refusal never touches stock")
	assert.Equal(t, 0, catalog.applyCalls())
}

func TestAdminApproveNonPending(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog(domain.Product{ID: 1, Title: "Course", Stock: 10, Status: domain.ProductStatusActive})
	svc := NewAdminService(orders, catalog, zap.NewNop())

	order := pendingOrder(t, orders, 1, 1)
	_, err := svc.Refuse(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, 10, catalog.stock(1))
}

func TestAdminApproveUnknownOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog()
	svc := NewAdminService(orders, catalog, zap.NewNop())

	_, err := svc.Approve(context.Background(), "order-missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestAdminApproveStockFailure(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog(domain.Product{ID: 1, Title: "Course", Stock: 10, Status: domain.ProductStatusActive})
	catalog.deltasErr = errors.New("deadlock")
	svc := NewAdminService(orders, catalog, zap.NewNop())

	order := pendingOrder(t, orders, 1, 1)

	_, err := svc.Approve(context.Background(), order.ID)
	require.Error(t, err)

	// same compensation path as checkout: the move to failed is attempted,
	// rejected by the transition table, and swallowed
	assert.Equal(t, domain.OrderStatusApproved, orders.status(order.ID))
	assert.Equal(t, 1, catalog.applyCalls())
}

func TestAdminListOrdersNewestFirst(t *testing.T) {
	orders := newFakeOrderRepo()
	catalog := newFakeCatalog()
	svc := NewAdminService(orders, catalog, zap.NewNop())

	older := pendingOrder(t, orders, 1, 1)
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, orders.Create(context.Background(), older))
	newer := pendingOrder(t, orders, 1, 1)

	listed, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer.ID, listed[0].ID)
	assert.Equal(t, older.ID, listed[1].ID)
}
