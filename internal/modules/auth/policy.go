package auth

import (
	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

var (
	ErrUnauthenticated    = apperr.New(apperr.KindUnauthenticated, "unauthenticated", "authentication required")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthenticated, "invalid_credentials", "invalid username or password")
	ErrForbidden          = apperr.New(apperr.KindPermission, "forbidden", "you do not have permission to perform this action")
)

// RequireAuthenticated fails when the request is anonymous.
func RequireAuthenticated(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireRole fails with ErrForbidden unless p holds role.
func RequireRole(p *Principal, role user.Role) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireOwner fails unless p owns the resource. A resource owned by someone
// else is reported with notFound so its existence is not revealed.
func RequireOwner(p *Principal, ownerID uuid.UUID, notFound error) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.UserID != ownerID {
		return notFound
	}
	return nil
}

// RequireVendorOwner combines the vendor role check with ownership.
func RequireVendorOwner(p *Principal, ownerID uuid.UUID, notFound error) error {
	if err := RequireRole(p, user.RoleVendor); err != nil {
		return err
	}
	return RequireOwner(p, ownerID, notFound)
}
