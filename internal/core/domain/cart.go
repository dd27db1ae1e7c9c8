package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotPurchasable    = errors.New("product is not available for purchase")
	ErrItemNotInCart     = errors.New("product is not in the cart")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)

// CartItem pairs a product snapshot with a purchase quantity. The quantity is
// always positive and never exceeds the product's stock at the time of the
// last cart mutation.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds one entry per product, keyed by product id. It is a plain
// entity; persistence goes through a CartStore port.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

func NewCart(id string) *Cart {
	return &Cart{ID: id}
}

// Add puts one unit of the product in the cart, or bumps the quantity of an
// existing entry. The quantity is capped at the product's current stock.
func (c *Cart) Add(p Product) error {
	if !p.Purchasable() {
		return ErrNotPurchasable
	}
	for i, it := range c.Items {
		if it.Product.ID == p.ID {
			if it.Quantity >= p.Stock {
				return ErrInsufficientStock
			}
			c.Items[i].Product = p
			c.Items[i].Quantity++
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
	return nil
}

// SetQuantity sets the quantity for a product already in the cart, clamping
// at the product's stock. A quantity of zero or less removes the entry.
func (c *Cart) SetQuantity(p Product, quantity int) error {
	if quantity <= 0 {
		return c.Remove(p.ID)
	}
	if quantity > p.Stock {
		quantity = p.Stock
	}
	for i, it := range c.Items {
		if it.Product.ID == p.ID {
			c.Items[i].Product = p
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotInCart
}

func (c *Cart) Remove(productID int64) error {
	for i, it := range c.Items {
		if it.Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotInCart
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of price times quantity over all items. Shipping is
// always zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
