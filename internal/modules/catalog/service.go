package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/modules/review"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

// Reviews is the part of the review service the catalog reads from.
type Reviews interface {
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*review.Review, error)
	HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
}

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, params query.Params) (query.Page[*ProductView], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	ListStoreProducts(ctx context.Context, storeID uuid.UUID) ([]*ProductView, error)
	// HasPurchased reports whether buyerID has bought the product before.
	HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
}

type service struct {
	repo    Repository
	reviews Reviews
}

func NewService(repo Repository, reviews Reviews) Service {
	return &service{repo: repo, reviews: reviews}
}

func (s *service) ListProducts(ctx context.Context, params query.Params) (query.Page[*ProductView], error) {
	products, count, err := s.repo.List(ctx, params)
	if err != nil {
		return query.Page[*ProductView]{}, err
	}
	return query.NewPage(params, count, products), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListProductReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{ProductView: *p, Reviews: reviews}, nil
}

func (s *service) ListStoreProducts(ctx context.Context, storeID uuid.UUID) ([]*ProductView, error) {
	ok, err := s.repo.StoreExists(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStoreNotFound
	}
	products, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*ProductView{}
	}
	return products, nil
}

func (s *service) HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	return s.reviews.HasPurchased(ctx, buyerID, productID)
}
