package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a buyer's completed checkout. Orders are immutable once placed.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []*OrderItem    `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItem is one product line of an order. Price is the unit price at the
// moment of purchase and never follows later price changes.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Subtotal is Price x Quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CheckoutItem is one requested line of an API checkout.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CheckoutRequest is the payload of POST /api/v1/checkout.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
}

// ReservedProduct is what a successful stock reservation reports back.
type ReservedProduct struct {
	Name  string
	Price decimal.Decimal
}
