package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

var tracer = otel.Tracer("github.com/georgemunganga/marketplace-backend/internal/modules/review")

// Service defines review business logic.
type Service interface {
	AddReview(ctx context.Context, p *auth.Principal, req CreateRequest) (*Review, error)
	UpdateReview(ctx context.Context, p *auth.Principal, id uuid.UUID, upd Update) (*Review, error)
	DeleteReview(ctx context.Context, p *auth.Principal, id uuid.UUID) error
	GetReview(ctx context.Context, id uuid.UUID) (*Review, error)
	ListReviews(ctx context.Context, params query.Params) (query.Page[*Review], error)
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*Review, error)
	HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) AddReview(ctx context.Context, p *auth.Principal, req CreateRequest) (*Review, error) {
	ctx, span := tracer.Start(ctx, "review.AddReview")
	defer span.End()

	if err := auth.RequireRole(p, user.RoleBuyer); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("product.id", req.ProductID.String()),
		attribute.String("buyer.id", p.UserID.String()),
	)

	ok, err := s.repo.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	exists, err := s.repo.Exists(ctx, req.ProductID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	verified, err := s.repo.HasPurchased(ctx, p.UserID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check purchase history: %w", err)
	}
	span.SetAttributes(attribute.Bool("review.verified", verified))

	rv := &Review{
		ID:            uuid.New(),
		ProductID:     req.ProductID,
		BuyerID:       p.UserID,
		BuyerUsername: p.Username,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
		Verified:      verified,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, rv.ID)
}

// authored loads a review the principal wrote. Reviews by others are
// reported as not found.
func (s *service) authored(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Review, error) {
	if err := auth.RequireRole(p, user.RoleBuyer); err != nil {
		return nil, err
	}
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, rv.BuyerID, ErrNotFound); err != nil {
		return nil, err
	}
	return rv, nil
}

// UpdateReview changes rating or comment. Verified is left as it was when
// the review was created.
func (s *service) UpdateReview(ctx context.Context, p *auth.Principal, id uuid.UUID, upd Update) (*Review, error) {
	rv, err := s.authored(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if upd.Rating != nil {
		if err := validateRating(*upd.Rating); err != nil {
			return nil, err
		}
		rv.Rating = *upd.Rating
	}
	if upd.Comment != nil {
		rv.Comment = strings.TrimSpace(*upd.Comment)
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *service) DeleteReview(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if _, err := s.authored(ctx, p, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetReview(ctx context.Context, id uuid.UUID) (*Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListReviews(ctx context.Context, params query.Params) (query.Page[*Review], error) {
	reviews, count, err := s.repo.List(ctx, params)
	if err != nil {
		return query.Page[*Review]{}, err
	}
	return query.NewPage(params, count, reviews), nil
}

func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return reviews, nil
}

func (s *service) HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	return s.repo.HasPurchased(ctx, buyerID, productID)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
