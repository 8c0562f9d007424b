package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace role of a user.
type Role string

const (
	RoleVendor Role = "VENDOR"
	RoleBuyer  Role = "BUYER"
)

// ParseRole accepts the form values "vendor"/"buyer" in any case. Empty means buyer.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(RoleBuyer):
		return RoleBuyer, true
	case string(RoleVendor):
		return RoleVendor, true
	default:
		return "", false
	}
}

// User represents a user in the system.
// @Description User information
// @Description with id, username, email, role, created_at, and updated_at
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
