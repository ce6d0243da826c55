// AngelaMos | 2026
// entity.go

package auth

import (
	"database/sql"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
)

// Account is the login view of a user supplied by the user package.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	Role         access.Role
	IsAdmin      bool
}

type NewAccount struct {
	Username     string
	Email        string
	PasswordHash string
	Role         access.Role
}

// tokenOwner is the row behind a token lookup. Role is null for users
// without a profile.
type tokenOwner struct {
	UserID      int64          `db:"user_id"`
	IsActive    bool           `db:"is_active"`
	IsStaff     bool           `db:"is_staff"`
	IsSuperuser bool           `db:"is_superuser"`
	Role        sql.NullString `db:"role"`
}

func (o tokenOwner) principal() access.Principal {
	role, _ := access.ParseRole(o.Role.String)
	return access.Principal{
		UserID:  o.UserID,
		Role:    role,
		IsAdmin: o.IsStaff || o.IsSuperuser,
	}
}
