// internal/cart/cart.go

// Package cart holds the active order: ordered line items and their total.
package cart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"mudahpos/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be >= 1")
	ErrUnknownItem     = errors.New("item not in cart")
)

// Item is one cart line. Name and Price are copied from the product when the
// line is created and do not follow later catalog changes.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal is Price × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is not safe for concurrent use; the terminal loop owns it.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add merges qty units of p into the cart. A product already in the cart keeps
// its line and its original price snapshot.
func (c *Cart) Add(p catalog.Product, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += qty
		return nil
	}
	c.items = append(c.items, Item{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: qty,
		Price:    p.Price,
	})
	return nil
}

// Remove drops the line with the given id. Absent ids are ignored.
func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
}

// SetQuantity replaces the quantity of an existing line. It never deletes the
// line; use Remove for that.
func (c *Cart) SetQuantity(id string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	c.items[i].Quantity = qty
	return nil
}

// Quantity is the quantity of the line with the given id, 0 when absent.
func (c *Cart) Quantity(id string) int {
	if i := c.index(id); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	return slices.Clone(c.items)
}

// Units is the sum of all line quantities.
func (c *Cart) Units() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) index(id string) int {
	return slices.IndexFunc(c.items, func(item Item) bool { return item.ID == id })
}
