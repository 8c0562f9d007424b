// Package cart holds the buyer's shopping cart: a product id to quantity map
// carried between requests in the session cookie.
package cart

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// Cart maps product ids to desired quantities. Quantities are always positive.
type Cart map[uuid.UUID]int

// Line is one product entry of a cart.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Add increases the quantity of productID by qty. Non-positive qty is ignored.
func (c Cart) Add(productID uuid.UUID, qty int) {
	if qty <= 0 {
		return
	}
	c[productID] += qty
}

// Set replaces the quantity of productID; zero or less removes it.
func (c Cart) Set(productID uuid.UUID, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = qty
}

func (c Cart) Remove(productID uuid.UUID) { delete(c, productID) }

func (c Cart) Quantity(productID uuid.UUID) int { return c[productID] }

// Len is the number of distinct products.
func (c Cart) Len() int { return len(c) }

func (c Cart) IsEmpty() bool { return len(c) == 0 }

// Total is the number of items across all lines.
func (c Cart) Total() int {
	n := 0
	for _, q := range c {
		n += q
	}
	return n
}

// Lines returns the entries sorted by product id.
func (c Cart) Lines() []Line {
	lines := make([]Line, 0, len(c))
	for id, q := range c {
		lines = append(lines, Line{ProductID: id, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].ProductID[:], lines[j].ProductID[:]) < 0
	})
	return lines
}
