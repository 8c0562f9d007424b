package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is one buyer's rating of one product. Verified records whether the
// buyer had purchased the product when the review was written.
type Review struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	BuyerUsername string    `json:"buyer_username"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateRequest holds the data for a new review.
type CreateRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

// Update is a partial update; nil fields are left unchanged.
type Update struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}
