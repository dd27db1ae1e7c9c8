package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrIllegalTransition  = errors.New("illegal order status transition")
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusFailed   OrderStatus = "failed"
)

// CanTransitionTo encodes the allowed status transitions: pending may move to
// approved or failed, terminal states never change.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusPending &&
		(next == OrderStatusApproved || next == OrderStatusFailed)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusFailed:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, s)
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodPix  PaymentMethod = "pix"
)

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	CPF   string `json:"cpf"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// OrderItem is an immutable snapshot of a product at checkout time. Later
// catalog edits never change it.
type OrderItem struct {
	ProductID int64           `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
}

type Order struct {
	ID            string          `json:"id"`
	Customer      Customer        `json:"customer"`
	Address       Address         `json:"address"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewOrder builds a pending order snapshotting the given cart items. The id
// is a creation timestamp plus a random suffix, unique per checkout attempt.
func NewOrder(customer Customer, address Address, items []CartItem, method PaymentMethod) Order {
	snapshot := make([]OrderItem, len(items))
	total := decimal.Zero
	for i, it := range items {
		snapshot[i] = OrderItem{
			ProductID: it.Product.ID,
			Title:     it.Product.Title,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			Category:  it.Product.Category,
			Image:     it.Product.Image,
		}
		total = total.Add(it.Subtotal())
	}

	return Order{
		ID:            newOrderID(),
		Customer:      customer,
		Address:       address,
		Items:         snapshot,
		Total:         total,
		Status:        OrderStatusPending,
		PaymentMethod: method,
		CreatedAt:     time.Now(),
	}
}

// StockDeltas returns the per-product decrements to apply when the order is
// approved.
func (o Order) StockDeltas() []StockDelta {
	deltas := make([]StockDelta, len(o.Items))
	for i, it := range o.Items {
		deltas[i] = StockDelta{ProductID: it.ProductID, QuantitySold: it.Quantity}
	}
	return deltas
}

func newOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("order-%d-%s", time.Now().UnixMilli(), suffix)
}

// PaymentOutcome is the gateway verdict for one authorization attempt. A
// decline is a normal outcome, not an error.
type PaymentOutcome struct {
	Approved      bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}
