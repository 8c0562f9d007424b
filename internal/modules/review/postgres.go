package review

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectReview = `
	SELECT r.id, r.product_id, p.name, r.buyer_id, u.username, r.rating, r.comment, r.verified, r.created_at
	FROM reviews r
	JOIN products p ON p.id = r.product_id
	JOIN users u ON u.id = r.buyer_id`

func scanReview(scan func(...interface{}) error) (*Review, error) {
	rv := &Review{}
	err := scan(&rv.ID, &rv.ProductID, &rv.ProductName, &rv.BuyerID, &rv.BuyerUsername,
		&rv.Rating, &rv.Comment, &rv.Verified, &rv.CreatedAt)
	return rv, err
}

func (r *postgresRepo) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&ok)
	return ok, err
}

func (r *postgresRepo) Exists(ctx context.Context, productID, buyerID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id = $1 AND buyer_id = $2)`, productID, buyerID).Scan(&ok)
	return ok, err
}

func (r *postgresRepo) HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.buyer_id = $1 AND oi.product_id = $2
		)`, buyerID, productID).Scan(&ok)
	return ok, err
}

func (r *postgresRepo) Create(ctx context.Context, rv *Review) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (id, product_id, buyer_id, rating, comment, verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rv.ID, rv.ProductID, rv.BuyerID, rv.Rating, rv.Comment, rv.Verified).Scan(&rv.CreatedAt)
	if database.IsUniqueViolation(err) {
		return ErrAlreadyReviewed
	}
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, selectReview+` WHERE r.id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) List(ctx context.Context, p query.Params) ([]*Review, int, error) {
	var w query.Where
	if err := applyFilters(&w, p.Filters); err != nil {
		return nil, 0, err
	}
	w.Search(p.Search, "r.comment", "p.name")

	where := w.SQL()
	var count int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reviews r
		JOIN products p ON p.id = r.product_id
		JOIN users u ON u.id = r.buyer_id`+where, w.Args()...).Scan(&count); err != nil {
		return nil, 0, err
	}

	reviews, err := r.query(ctx, selectReview+where+p.OrderBy()+w.Paginate(p), w.Args()...)
	return reviews, count, err
}

func applyFilters(w *query.Where, filters map[string]string) error {
	if v, ok := filters["product"]; ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.Validation("product", "product must be a valid id")
		}
		w.Add("r.product_id = " + w.Arg(id))
	}
	if v, ok := filters["buyer"]; ok {
		w.Add("u.username = " + w.Arg(v))
	}
	if v, ok := filters["rating"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Validation("rating", "rating must be an integer")
		}
		w.Add("r.rating = " + w.Arg(n))
	}
	if v, ok := filters["verified"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Validation("verified", "verified must be true or false")
		}
		w.Add("r.verified = " + w.Arg(b))
	}
	return nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	return r.query(ctx, selectReview+` WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.id DESC`, productID)
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reviews []*Review
	for rows.Next() {
		rv, err := scanReview(rows.Scan)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, rv *Review) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = $2, comment = $3 WHERE id = $1`, rv.ID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
