package order

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

// MaxQuantity is the largest line quantity the stock column can hold.
const MaxQuantity = math.MaxInt32

// ValidQuantity reports whether qty can be ordered at all.
func ValidQuantity(qty int) bool { return qty > 0 && qty <= MaxQuantity }

var (
	ErrNotFound        = apperr.NotFound("order")
	ErrEmptyCart       = apperr.New(apperr.KindValidation, "empty_cart", "your cart is empty")
	ErrInvalidQuantity = apperr.Validation("quantity", "quantity must be a positive integer")
	ErrProductNotFound = apperr.NotFound("product")
)

// InsufficientStockError reports a product that cannot cover the requested
// quantity. No part of the checkout is applied when it is returned.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available, %d requested",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Kind() apperr.Kind { return apperr.KindConflict }

func (e *InsufficientStockError) Details() map[string]interface{} {
	return map[string]interface{}{
		"product_id": e.ProductID,
		"available":  e.Available,
		"requested":  e.Requested,
	}
}
