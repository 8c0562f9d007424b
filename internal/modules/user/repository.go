package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("user")
	ErrUsernameTaken = apperr.New(apperr.KindConflict, "username_taken", "username already exists")
	ErrEmailTaken    = apperr.New(apperr.KindConflict, "email_taken", "email already registered")
)

// Repository defines the interface for user data storage.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetUserByLogin matches either the username or the email.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
