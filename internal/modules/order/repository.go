package order

import (
	"context"

	"github.com/google/uuid"
)

// Tx is the set of writes a checkout performs inside one transaction.
type Tx interface {
	// ReserveStock decrements the product's stock by qty only if at least qty
	// is available. It returns ErrProductNotFound or *InsufficientStockError
	// otherwise.
	ReserveStock(ctx context.Context, productID uuid.UUID, qty int) (ReservedProduct, error)

	// InsertOrder persists the order and its items.
	InsertOrder(ctx context.Context, o *Order) error
}

// Repository defines data access for orders.
type Repository interface {
	// InTx runs fn in a transaction, committing only if fn returns nil.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// GetOrderByID retrieves an order with its items.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrdersByBuyer returns the buyer's orders, newest first, with items.
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)
}
