package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is owned by exactly one vendor. Deleting it deletes its products.
type Store struct {
	ID             uuid.UUID  `json:"id"`
	VendorID       uuid.UUID  `json:"vendor_id"`
	VendorUsername string     `json:"vendor_username"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	LogoURL        string     `json:"logo_url"`
	ProductsCount  int        `json:"products_count"`
	Products       []*Product `json:"products,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Product belongs to one store. Stock is also decremented by checkout.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StoreRequest holds the full set of editable store fields.
type StoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// StoreUpdate is a partial update; nil fields are left unchanged.
type StoreUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

// Full turns a replacement request into an update touching every field.
func (r StoreRequest) Full() StoreUpdate {
	return StoreUpdate{Name: &r.Name, Description: &r.Description, LogoURL: &r.LogoURL}
}

// ProductRequest holds the full set of editable product fields.
type ProductRequest struct {
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url"`
}

func (r ProductRequest) Full() ProductUpdate {
	return ProductUpdate{Name: &r.Name, Description: &r.Description, Price: &r.Price, Stock: &r.Stock, ImageURL: &r.ImageURL}
}
