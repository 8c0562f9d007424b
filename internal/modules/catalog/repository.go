package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

var (
	ErrProductNotFound = apperr.NotFound("product")
	ErrStoreNotFound   = apperr.NotFound("store")
)

// ListOptions are the list parameters accepted for products.
var ListOptions = query.Options{
	Orderings: map[string]string{
		"created_at": "p.created_at",
		"price":      "p.price",
		"stock":      "p.stock",
		"name":       "p.name",
	},
	DefaultOrdering: "-created_at",
	TieBreaker:      "p.id",
	Filters:         []string{"store", "vendor"},
}

// Repository reads the product catalog.
type Repository interface {
	// List honours the "store" (id) and "vendor" (username) filters and
	// searches name, description and store name.
	List(ctx context.Context, p query.Params) ([]*ProductView, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*ProductView, error)
	StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error)
}
