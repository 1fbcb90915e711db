// Package cart holds the shopping cart model: lines keyed by product and size,
// with derived totals.
package cart

import (
	"math"

	"github.com/ashendes/bec-market/internal/models"
)

// Cart is an ordered set of lines. It is not safe for concurrent use; see
// Registry for shared access.
type Cart struct {
	items []models.CartItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from a previous snapshot.
func FromItems(items []models.CartItem) *Cart {
	c := New()
	for _, item := range items {
		item.Quantity = clampQuantity(item.Quantity)
		c.items = append(c.items, item)
	}
	return c
}

func (c *Cart) find(productID, size string) int {
	for i, item := range c.items {
		if item.ID == productID && item.SelectedSize == size {
			return i
		}
	}
	return -1
}

func clampQuantity(q int) int {
	return min(max(q, 1), models.MaxLineQuantity)
}

// Add increments the (product, size) line or appends it with quantity 1.
// A line already at models.MaxLineQuantity stays there.
func (c *Cart) Add(product models.Product, size string) {
	if i := c.find(product.ID, size); i >= 0 {
		c.items[i].Quantity = clampQuantity(c.items[i].Quantity + 1)
		return
	}
	c.items = append(c.items, models.CartItem{
		Product:      product,
		Quantity:     1,
		SelectedSize: size,
	})
}

// ChangeQuantity adds delta to the matching line, keeping the quantity
// between 1 and models.MaxLineQuantity. Unknown lines are ignored.
func (c *Cart) ChangeQuantity(productID, size string, delta int) {
	i := c.find(productID, size)
	if i < 0 {
		return
	}
	q := c.items[i].Quantity
	if delta > models.MaxLineQuantity-q {
		q = models.MaxLineQuantity
	} else {
		q += delta
	}
	c.items[i].Quantity = clampQuantity(q)
}

// Remove deletes the matching line if present.
func (c *Cart) Remove(productID, size string) {
	i := c.find(productID, size)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// Total is the sum of price × quantity over all lines, saturated at
// math.MaxInt. Checkout rejects such a cart.
func (c *Cart) Total() int {
	total, err := models.ItemsTotal(c.items)
	if err != nil {
		return math.MaxInt
	}
	return total
}

// Count is the sum of quantities over all lines.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	return append([]models.CartItem{}, c.items...)
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.items = nil
}

// Summary returns the lines together with their derived totals.
func (c *Cart) Summary() models.CartSummary {
	return models.CartSummary{
		Items: c.Items(),
		Count: c.Count(),
		Total: c.Total(),
	}
}
