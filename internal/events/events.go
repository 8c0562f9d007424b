package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys. The same names are used on the AMQP exchange.
const (
	StoreCreatedKey           = "store.created"
	ProductCreatedKey         = "product.created"
	OrderPlacedKey            = "order.placed"
	PasswordResetRequestedKey = "password_reset.requested"
)

// Event is anything published on the dispatcher.
type Event interface {
	Key() string
}

// StoreCreated is published after a store insert commits.
type StoreCreated struct {
	StoreID     uuid.UUID `json:"store_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StoreCreated) Key() string { return StoreCreatedKey }

// ProductCreated is published after a product insert commits.
type ProductCreated struct {
	ProductID   uuid.UUID       `json:"product_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	StoreName   string          `json:"store_name"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (ProductCreated) Key() string { return ProductCreatedKey }

// OrderLine is one line of a placed order.
type OrderLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderPlaced is published after checkout commits.
type OrderPlaced struct {
	OrderID   uuid.UUID       `json:"order_id"`
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Total     decimal.Decimal `json:"total_price"`
	Lines     []OrderLine     `json:"lines"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderPlaced) Key() string { return OrderPlacedKey }

// PasswordResetRequested carries the plaintext token to the mailer. It is
// never relayed outside the process.
type PasswordResetRequested struct {
	UserID   uuid.UUID
	Email    string
	ResetURL string
}

func (PasswordResetRequested) Key() string { return PasswordResetRequestedKey }
