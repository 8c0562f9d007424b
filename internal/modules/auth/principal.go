package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

// PrincipalOf builds the principal for an authenticated user.
func PrincipalOf(u *user.User) *Principal {
	return &Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or nil for anonymous requests.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
