package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusInactive ProductStatus = "Inactive"
)

type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      ProductStatus   `json:"status"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Purchasable reports whether the product can be added to a cart.
func (p Product) Purchasable() bool {
	return p.Status == ProductStatusActive && p.Stock > 0
}

// StockDelta is one entry of a batch stock decrement. QuantitySold is
// subtracted from the product's stock, flooring at zero.
type StockDelta struct {
	ProductID    int64 `json:"id"`
	QuantitySold int   `json:"quantitySold"`
}
