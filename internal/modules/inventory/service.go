package inventory

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

const maxNameLength = 200

// maxPrice is the largest value numeric(10,2) holds.
var maxPrice = decimal.RequireFromString("99999999.99")

// Service defines inventory business logic for vendor-owned stores and products.
type Service interface {
	// Store operations
	CreateStore(ctx context.Context, p *auth.Principal, req StoreRequest) (*Store, error)
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	ListStores(ctx context.Context, params query.Params) (query.Page[*Store], error)
	ListVendorStores(ctx context.Context, vendorID uuid.UUID) ([]*Store, error)
	MyStores(ctx context.Context, p *auth.Principal) ([]*Store, error)
	UpdateStore(ctx context.Context, p *auth.Principal, id uuid.UUID, upd StoreUpdate) (*Store, error)
	DeleteStore(ctx context.Context, p *auth.Principal, id uuid.UUID) error

	// Product operations
	CreateProduct(ctx context.Context, p *auth.Principal, storeID uuid.UUID, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	UpdateProduct(ctx context.Context, p *auth.Principal, id uuid.UUID, upd ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, p *auth.Principal, id uuid.UUID) error
}

type service struct {
	storeRepo   StoreRepository
	productRepo ProductRepository
	events      events.Publisher
}

// NewService creates a new inventory service.
func NewService(storeRepo StoreRepository, productRepo ProductRepository, pub events.Publisher) Service {
	return &service{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		events:      pub,
	}
}

func (s *service) CreateStore(ctx context.Context, p *auth.Principal, req StoreRequest) (*Store, error) {
	if err := auth.RequireRole(p, user.RoleVendor); err != nil {
		return nil, err
	}
	store := &Store{
		ID:             uuid.New(),
		VendorID:       p.UserID,
		VendorUsername: p.Username,
	}
	if err := applyStore(store, req.Full()); err != nil {
		return nil, err
	}
	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.events.Publish(ctx, events.StoreCreated{
		StoreID:     store.ID,
		VendorID:    store.VendorID,
		Name:        store.Name,
		Description: store.Description,
		CreatedAt:   store.CreatedAt,
	})
	return store, nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	store, err := s.storeRepo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListProductsByStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*Product{}
	}
	store.Products = products
	return store, nil
}

func (s *service) ListStores(ctx context.Context, params query.Params) (query.Page[*Store], error) {
	stores, count, err := s.storeRepo.ListStores(ctx, params)
	if err != nil {
		return query.Page[*Store]{}, err
	}
	return query.NewPage(params, count, stores), nil
}

func (s *service) ListVendorStores(ctx context.Context, vendorID uuid.UUID) ([]*Store, error) {
	return s.storeRepo.ListStoresByVendor(ctx, vendorID)
}

func (s *service) MyStores(ctx context.Context, p *auth.Principal) ([]*Store, error) {
	if err := auth.RequireRole(p, user.RoleVendor); err != nil {
		return nil, err
	}
	return s.storeRepo.ListStoresByVendor(ctx, p.UserID)
}

// ownedStore loads a store the principal may mutate.
func (s *service) ownedStore(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Store, error) {
	if err := auth.RequireRole(p, user.RoleVendor); err != nil {
		return nil, err
	}
	store, err := s.storeRepo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, store.VendorID, ErrStoreNotFound); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) UpdateStore(ctx context.Context, p *auth.Principal, id uuid.UUID, upd StoreUpdate) (*Store, error) {
	store, err := s.ownedStore(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := applyStore(store, upd); err != nil {
		return nil, err
	}
	if err := s.storeRepo.UpdateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) DeleteStore(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if _, err := s.ownedStore(ctx, p, id); err != nil {
		return err
	}
	return s.storeRepo.DeleteStore(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, p *auth.Principal, storeID uuid.UUID, req ProductRequest) (*Product, error) {
	store, err := s.ownedStore(ctx, p, storeID)
	if err != nil {
		return nil, err
	}
	product := &Product{ID: uuid.New(), StoreID: store.ID}
	if err := applyProduct(product, req.Full()); err != nil {
		return nil, err
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.events.Publish(ctx, events.ProductCreated{
		ProductID:   product.ID,
		StoreID:     store.ID,
		StoreName:   store.Name,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
	})
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.productRepo.GetProductByID(ctx, id)
}

// ownedProduct loads a product the principal may mutate, checking ownership
// through its store.
func (s *service) ownedProduct(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Product, error) {
	if err := auth.RequireRole(p, user.RoleVendor); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := s.storeRepo.GetStoreByID(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, store.VendorID, ErrProductNotFound); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, p *auth.Principal, id uuid.UUID, upd ProductUpdate) (*Product, error) {
	product, err := s.ownedProduct(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(product, upd); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateProduct(ctx, product, upd.Stock != nil); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, p, id); err != nil {
		return err
	}
	return s.productRepo.DeleteProduct(ctx, id)
}

func validateName(name string) error {
	if name == "" {
		return apperr.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return apperr.Validation("name", "name must be at most 200 characters")
	}
	return nil
}

func applyStore(store *Store, upd StoreUpdate) error {
	if upd.Name != nil {
		store.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		store.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.LogoURL != nil {
		store.LogoURL = strings.TrimSpace(*upd.LogoURL)
	}
	return validateName(store.Name)
}

func applyProduct(product *Product, upd ProductUpdate) error {
	if upd.Name != nil {
		product.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		product.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*upd.ImageURL)
	}

	if err := validateName(product.Name); err != nil {
		return err
	}
	if !product.Price.IsPositive() {
		return apperr.Validation("price", "price must be greater than zero")
	}
	if !product.Price.Equal(product.Price.Round(2)) {
		return apperr.Validation("price", "price must have at most 2 decimal places")
	}
	if product.Price.GreaterThan(maxPrice) {
		return apperr.Validation("price", "price is too large")
	}
	if product.Stock < 0 {
		return apperr.Validation("stock", "stock cannot be negative")
	}
	return nil
}
