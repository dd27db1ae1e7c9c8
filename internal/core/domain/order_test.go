package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusApproved, true},
		{OrderStatusPending, OrderStatusFailed, true},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusApproved, OrderStatusFailed, false},
		{OrderStatusApproved, OrderStatusPending, false},
		{OrderStatusFailed, OrderStatusApproved, false},
		{OrderStatusFailed, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "failed"} {
		status, err := ParseOrderStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), status)
	}

	_, err := ParseOrderStatus("confirmed")
	assert.ErrorIs(t, err, ErrUnknownOrderStatus)
}

func TestNewOrderSnapshot(t *testing.T) {
	customer := Customer{Name: "Ana Souza", Email: "ana@example.com", Phone: "11987654321", CPF: "12345678901"}
	address := Address{Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "São Paulo", State: "SP", Zip: "01001000"}
	items := []CartItem{
		{Product: Product{ID: 1, Title: "Course A", Price: decimal.NewFromFloat(199.90), Stock: 10, Status: ProductStatusActive, Category: "Law", Image: "a.png"}, Quantity: 1},
		{Product: Product{ID: 2, Title: "Course B", Price: decimal.NewFromFloat(149.90), Stock: 5, Status: ProductStatusActive, Category: "Math", Image: "b.png"}, Quantity: 2},
	}

	order := NewOrder(customer, address, items, PaymentMethodCard)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, customer, order.Customer)
	assert.Equal(t, address, order.Address)
	assert.Equal(t, PaymentMethodCard, order.PaymentMethod)
	assert.True(t, strings.HasPrefix(order.ID, "order-"))
	assert.False(t, order.CreatedAt.IsZero())

	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(1), order.Items[0].ProductID)
	assert.Equal(t, "Course A", order.Items[0].Title)
	assert.Equal(t, "Law", order.Items[0].Category)
	assert.Equal(t, 2, order.Items[1].Quantity)

	// total = 199.90*1 + 149.90*2
	assert.True(t, decimal.NewFromFloat(499.70).Equal(order.Total),
		"expected 499.70, got %s", order.Total)
}

func TestNewOrderIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newOrderID()
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
}

func TestOrderStockDeltas(t *testing.T) {
	order := Order{Items: []OrderItem{
		{ProductID: 3, Quantity: 1},
		{ProductID: 7, Quantity: 4},
	}}

	deltas := order.StockDeltas()
	require.Len(t, deltas, 2)
	assert.Equal(t, StockDelta{ProductID: 3, QuantitySold: 1}, deltas[0])
	assert.Equal(t, StockDelta{ProductID: 7, QuantitySold: 4}, deltas[1])
}
