package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const (
	fromProducts = `
		FROM products p
		JOIN stores s ON s.id = p.store_id
		JOIN users u ON u.id = s.vendor_id`

	selectProduct = `
		SELECT p.id, p.store_id, s.name, u.username, p.name, p.description, p.price, p.stock, p.image_url,
		       (SELECT COUNT(*) FROM reviews r WHERE r.product_id = p.id),
		       (SELECT ROUND(AVG(r.rating)::numeric, 2) FROM reviews r WHERE r.product_id = p.id),
		       p.created_at, p.updated_at` + fromProducts
)

func scanProduct(scan func(...interface{}) error) (*ProductView, error) {
	p := &ProductView{}
	err := scan(&p.ID, &p.StoreID, &p.StoreName, &p.VendorName, &p.Name, &p.Description,
		&p.Price, &p.Stock, &p.ImageURL, &p.ReviewsCount, &p.AverageRating,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, p query.Params) ([]*ProductView, int, error) {
	var w query.Where
	if v, ok := p.Filters["store"]; ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, 0, apperr.Validation("store", "store must be a valid id")
		}
		w.Add("p.store_id = " + w.Arg(id))
	}
	if v, ok := p.Filters["vendor"]; ok {
		w.Add("u.username = " + w.Arg(v))
	}
	w.Search(p.Search, "p.name", "p.description", "s.name")

	where := w.SQL()
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+fromProducts+where, w.Args()...).Scan(&count); err != nil {
		return nil, 0, err
	}

	products, err := r.query(ctx, selectProduct+where+p.OrderBy()+w.Paginate(p), w.Args()...)
	return products, count, err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE p.id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*ProductView, error) {
	return r.query(ctx, selectProduct+` WHERE p.store_id = $1 ORDER BY p.created_at DESC, p.id DESC`, storeID)
}

func (r *postgresRepo) StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, storeID).Scan(&ok)
	return ok, err
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]*ProductView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*ProductView
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
