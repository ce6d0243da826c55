// AngelaMos | 2026
// entity.go

package user

import (
	"database/sql"
	"time"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	IsActive     bool      `db:"is_active"`
	IsStaff      bool      `db:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// accountRow is a user with its profile type, null when no profile exists.
type accountRow struct {
	User
	Role sql.NullString `db:"role"`
}

// ProfileView is a profile joined with the identity fields of its user.
type ProfileView struct {
	UserID       int64       `db:"user_id"`
	Username     string      `db:"username"`
	FirstName    string      `db:"first_name"`
	LastName     string      `db:"last_name"`
	Email        string      `db:"email"`
	Type         access.Role `db:"type"`
	File         string      `db:"file"`
	Location     string      `db:"location"`
	Tel          string      `db:"tel"`
	Description  string      `db:"description"`
	WorkingHours string      `db:"working_hours"`
	CreatedAt    time.Time   `db:"created_at"`
}

// ProfileChanges holds the columns a profile update writes. Nil fields are
// left as they are.
type ProfileChanges struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
	File         *string
}

func (c ProfileChanges) touchesUser() bool {
	return c.FirstName != nil || c.LastName != nil || c.Email != nil
}

func (c ProfileChanges) touchesProfile() bool {
	return c.Location != nil || c.Tel != nil || c.Description != nil ||
		c.WorkingHours != nil || c.File != nil
}
