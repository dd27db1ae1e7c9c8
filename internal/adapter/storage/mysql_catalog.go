package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/novashop/checkout/internal/core/domain"
)

type MySQLCatalog struct {
	db *sql.DB
}

func NewMySQLCatalog(db *sql.DB) *MySQLCatalog {
	return &MySQLCatalog{db: db}
}

const productColumns = `id, title, price, stock, status, COALESCE(category, ''),
	COALESCE(image, ''), COALESCE(description, ''), created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Title, &p.Price, &p.Stock, &p.Status,
		&p.Category, &p.Image, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MySQLCatalog) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (m *MySQLCatalog) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(m.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (m *MySQLCatalog) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO products (title, price, stock, status, category, image, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Price, p.Stock, p.Status, p.Category, p.Image, p.Description)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("product insert id: %w", err)
	}
	return m.Get(ctx, id)
}

func (m *MySQLCatalog) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET title = ?, price = ?, stock = ?, status = ?, category = ?, image = ?, description = ?
		WHERE id = ?`,
		p.Title, p.Price, p.Stock, p.Status, p.Category, p.Image, p.Description, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	// RowsAffected is zero both for a missing row and for a no-op update,
	// so a second lookup decides which it was.
	if rows, _ := result.RowsAffected(); rows == 0 {
		existing, err := m.Get(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, domain.ErrProductNotFound)
		}
	}
	return m.Get(ctx, p.ID)
}

func (m *MySQLCatalog) Delete(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	return nil
}

// ApplyStockDeltas decrements stock for every delta within one transaction.
// Each row is read under FOR UPDATE so two concurrent decrements of the same
// product serialize instead of both seeing the pre-decrement value. Stock
// floors at zero. Any unknown product id rolls back the whole batch.
func (m *MySQLCatalog) ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, d := range deltas {
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT stock FROM products WHERE id = ? FOR UPDATE`, d.ProductID,
		).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d: %w", d.ProductID, domain.ErrProductNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", d.ProductID, err)
		}

		newStock := stock - d.QuantitySold
		if newStock < 0 {
			newStock = 0
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = ? WHERE id = ?`, newStock, d.ProductID,
		); err != nil {
			return fmt.Errorf("update stock for product %d: %w", d.ProductID, err)
		}
	}

	return tx.Commit()
}
