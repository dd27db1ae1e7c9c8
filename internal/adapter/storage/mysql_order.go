package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/novashop/checkout/internal/core/domain"
)

type MySQLOrders struct {
	db *sql.DB
}

func NewMySQLOrders(db *sql.DB) *MySQLOrders {
	return &MySQLOrders{db: db}
}

func (m *MySQLOrders) Create(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, customer_email, customer_phone, customer_cpf,
			street, number, complement, neighborhood, city, state, zip,
			total, status, payment_method, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.CPF,
		order.Address.Street, order.Address.Number, nullable(order.Address.Complement),
		order.Address.Neighborhood, order.Address.City, order.Address.State, order.Address.Zip,
		order.Total, order.Status, order.PaymentMethod, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, title, price, quantity, category, image)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, it.ProductID, it.Title, it.Price, it.Quantity, it.Category, it.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLOrders) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := m.scanOrder(ctx, m.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone, customer_cpf,
			street, number, COALESCE(complement, ''), neighborhood, city, state, zip,
			total, status, payment_method, created_at
		FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return order, nil
}

func (m *MySQLOrders) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone, customer_cpf,
			street, number, COALESCE(complement, ''), neighborhood, city, state, zip,
			total, status, payment_method, created_at
		FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := m.scanOrder(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// SetStatus reads the current status under a row lock, checks the transition
// against the order lifecycle, and only then writes. Illegal transitions are
// rejected, never silently overwritten.
func (m *MySQLOrders) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = ? FOR UPDATE`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	current, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", id, current, status, domain.ErrIllegalTransition)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, id,
	); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return m.Get(ctx, id)
}

func (m *MySQLOrders) scanOrder(ctx context.Context, row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	var rawStatus string
	err := row.Scan(&o.ID,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.CPF,
		&o.Address.Street, &o.Address.Number, &o.Address.Complement,
		&o.Address.Neighborhood, &o.Address.City, &o.Address.State, &o.Address.Zip,
		&o.Total, &rawStatus, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	o.Status, err = domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	items, err := m.orderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (m *MySQLOrders) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id, title, price, quantity, COALESCE(category, ''), COALESCE(image, '')
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Title, &it.Price, &it.Quantity, &it.Category, &it.Image); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
