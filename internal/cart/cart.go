// Package cart implements the per-session product selection: a mapping from
// product id to a positive quantity. Zero is always represented by absence, so
// every stored value is >= 1. Prices are never captured here; derived views
// read the current catalog, which makes price edits visible live until the
// sale is completed.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"invopos/backend/internal/domain"
)

type Cart struct {
	mu         sync.Mutex
	quantities map[string]int
}

func New() *Cart {
	return &Cart{quantities: make(map[string]int)}
}

// Toggle sets the quantity to 1 when the product is absent, and removes it
// otherwise. Toggling twice resets the quantity to 1, not the prior value.
func (c *Cart) Toggle(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quantities[productID] > 0 {
		delete(c.quantities, productID)
		return
	}
	c.quantities[productID] = 1
}

func (c *Cart) Increment(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quantities[productID]++
}

// Decrement lowers the quantity by one; at quantity 1 the entry is removed
// entirely so a stored zero can never exist.
func (c *Cart) Decrement(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quantities[productID] <= 1 {
		delete(c.quantities, productID)
		return
	}
	c.quantities[productID]--
}

func (c *Cart) Quantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.quantities[productID]
}

// SelectedItems returns every catalog product with a positive quantity, in
// catalog order. Ids selected in the cart but no longer present in the
// catalog simply do not appear.
func (c *Cart) SelectedItems(catalog []domain.Product) []domain.SelectedItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.SelectedItem, 0, len(c.quantities))
	for _, p := range catalog {
		qty := c.quantities[p.ID]
		if qty <= 0 {
			continue
		}
		items = append(items, domain.SelectedItem{Product: p, Quantity: qty})
	}
	return items
}

// Total sums salePrice x quantity over the selected items at current catalog
// prices. It never rounds; formatting is the renderer's concern.
func (c *Cart) Total(catalog []domain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.SelectedItems(catalog) {
		line := item.Product.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// Sessions owns one cart per terminal. A cart starts empty on first touch and
// lives for the process lifetime, matching a screen session.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Cart)}
}

func (s *Sessions) Get(terminal string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[terminal]
	if !ok {
		c = New()
		s.carts[terminal] = c
	}
	return c
}
