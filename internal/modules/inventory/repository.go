package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

var (
	ErrStoreNotFound   = apperr.NotFound("store")
	ErrProductNotFound = apperr.NotFound("product")
)

// StoreListOptions are the list parameters accepted for stores.
var StoreListOptions = query.Options{
	Orderings: map[string]string{
		"created_at": "s.created_at",
		"name":       "s.name",
	},
	DefaultOrdering: "-created_at",
	TieBreaker:      "s.id",
	Filters:         []string{"vendor"},
}

// StoreRepository defines store data storage.
type StoreRepository interface {
	CreateStore(ctx context.Context, s *Store) error
	GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// ListStores honours the "vendor" (username) filter and search over name,
	// description and vendor username.
	ListStores(ctx context.Context, p query.Params) ([]*Store, int, error)
	ListStoresByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Store, error)
	UpdateStore(ctx context.Context, s *Store) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines product data storage.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product, setStock bool) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
