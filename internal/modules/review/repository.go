package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

var (
	ErrNotFound        = apperr.NotFound("review")
	ErrProductNotFound = apperr.NotFound("product")
	ErrAlreadyReviewed = apperr.New(apperr.KindConflict, "already_reviewed", "you have already reviewed this product")
	ErrInvalidRating   = apperr.Validation("rating", "rating must be between 1 and 5")
)

// ListOptions are the list parameters accepted for reviews.
var ListOptions = query.Options{
	Orderings: map[string]string{
		"created_at": "r.created_at",
		"rating":     "r.rating",
	},
	DefaultOrdering: "-created_at",
	TieBreaker:      "r.id",
	Filters:         []string{"product", "buyer", "rating", "verified"},
}

// Repository defines review data storage.
type Repository interface {
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	Exists(ctx context.Context, productID, buyerID uuid.UUID) (bool, error)
	// HasPurchased reports whether any of the buyer's orders contains the product.
	HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
	// Create returns ErrAlreadyReviewed when the (product, buyer) pair exists.
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	List(ctx context.Context, p query.Params) ([]*Review, int, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
