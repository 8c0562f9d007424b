package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/modules/review"
)

// ProductView is a product as browsed by the public, with its store,
// vendor and review aggregates.
type ProductView struct {
	ID            uuid.UUID           `json:"id"`
	StoreID       uuid.UUID           `json:"store_id"`
	StoreName     string              `json:"store_name"`
	VendorName    string              `json:"vendor_name"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	Stock         int                 `json:"stock"`
	ImageURL      string              `json:"image_url"`
	ReviewsCount  int                 `json:"reviews_count"`
	AverageRating decimal.NullDecimal `json:"average_rating"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ProductDetail adds the product's reviews.
type ProductDetail struct {
	ProductView
	Reviews []*review.Review `json:"reviews"`
}
