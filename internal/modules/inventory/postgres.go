package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/query"
)

// ---- Store ----

type storePostgres struct{ db *sql.DB }

func NewStorePostgresRepository(db *sql.DB) StoreRepository { return &storePostgres{db: db} }

const selectStore = `
SELECT s.id, s.vendor_id, u.username, s.name, s.description, s.logo_url,
	(SELECT COUNT(*) FROM products p WHERE p.store_id = s.id),
	s.created_at, s.updated_at
FROM stores s JOIN users u ON u.id = s.vendor_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStore(row scanner) (*Store, error) {
	s := &Store{}
	err := row.Scan(&s.ID, &s.VendorID, &s.VendorUsername, &s.Name, &s.Description, &s.LogoURL,
		&s.ProductsCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *storePostgres) CreateStore(ctx context.Context, s *Store) error {
	return r.db.QueryRowContext(ctx, `
INSERT INTO stores (id, vendor_id, name, description, logo_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`,
		s.ID, s.VendorID, s.Name, s.Description, s.LogoURL).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *storePostgres) GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, selectStore+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *storePostgres) ListStores(ctx context.Context, p query.Params) ([]*Store, int, error) {
	var w query.Where
	if v, ok := p.Filters["vendor"]; ok {
		w.Add("u.username = " + w.Arg(v))
	}
	w.Search(p.Search, "s.name", "s.description", "u.username")

	where := w.SQL()
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stores s JOIN users u ON u.id = s.vendor_id`+where, w.Args()...).Scan(&count); err != nil {
		return nil, 0, err
	}

	stores, err := r.queryStores(ctx, selectStore+where+p.OrderBy()+w.Paginate(p), w.Args()...)
	return stores, count, err
}

func (r *storePostgres) ListStoresByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Store, error) {
	return r.queryStores(ctx, selectStore+` WHERE s.vendor_id = $1 ORDER BY s.created_at DESC, s.id DESC`, vendorID)
}

func (r *storePostgres) queryStores(ctx context.Context, q string, args ...interface{}) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *storePostgres) UpdateStore(ctx context.Context, s *Store) error {
	err := r.db.QueryRowContext(ctx, `
UPDATE stores SET name = $2, description = $3, logo_url = $4, updated_at = NOW()
WHERE id = $1
RETURNING updated_at`,
		s.ID, s.Name, s.Description, s.LogoURL).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStoreNotFound
	}
	return err
}

func (r *storePostgres) DeleteStore(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoreNotFound
	}
	return nil
}

// ---- Product ----

type productPostgres struct{ db *sql.DB }

func NewProductPostgresRepository(db *sql.DB) ProductRepository { return &productPostgres{db: db} }

const selectProduct = `
SELECT id, store_id, name, description, price, stock, image_url, created_at, updated_at
FROM products`

func scanProduct(row scanner) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *productPostgres) CreateProduct(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
INSERT INTO products (id, store_id, name, description, price, stock, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`,
		p.ID, p.StoreID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productPostgres) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productPostgres) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProduct+` WHERE store_id = $1 ORDER BY created_at DESC, id DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct leaves the stock column alone unless setStock is true, so an
// edit never overwrites a decrement committed by a concurrent checkout.
func (r *productPostgres) UpdateProduct(ctx context.Context, p *Product, setStock bool) error {
	err := r.db.QueryRowContext(ctx, `
UPDATE products
SET name = $2, description = $3, price = $4, image_url = $5,
	stock = CASE WHEN $7 THEN $6 ELSE stock END,
	updated_at = NOW()
WHERE id = $1
RETURNING stock, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock, setStock).Scan(&p.Stock, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func (r *productPostgres) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
