package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type resetPostgresRepository struct {
	db *sql.DB
}

// NewResetPostgresRepository creates a new PostgreSQL reset token repository.
func NewResetPostgresRepository(db *sql.DB) ResetRepository {
	return &resetPostgresRepository{db: db}
}

func (r *resetPostgresRepository) CreateResetToken(ctx context.Context, t *ResetToken) error {
	query := `
		INSERT INTO reset_tokens (id, user_id, token_hash, expires_at, used)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.TokenHash, t.ExpiresAt).Scan(&t.CreatedAt)
}

func (r *resetPostgresRepository) GetUnusedResetToken(ctx context.Context, hash string) (*ResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM reset_tokens
		WHERE token_hash = $1 AND used = FALSE
	`
	t := &ResetToken{}
	err := r.db.QueryRowContext(ctx, query, hash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *resetPostgresRepository) DeleteResetToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE id = $1`, id)
	return err
}

func (r *resetPostgresRepository) ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE reset_tokens SET used = TRUE WHERE id = $1 AND used = FALSE`, tokenID)
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenInvalid
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return tx.Commit()
}

func (r *resetPostgresRepository) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
