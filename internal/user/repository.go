// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"

	msgEmailExists    = "Email already exists"
	msgUsernameExists = "A user with that username already exists."
)

type Repository interface {
	CreateWithProfile(ctx context.Context, u *User, role access.Role) error
	GetByUsername(ctx context.Context, username string) (*User, access.Role, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetProfile(ctx context.Context, userID int64) (*ProfileView, error)
	ListProfiles(ctx context.Context, role access.Role) ([]ProfileView, error)
	UpdateProfile(ctx context.Context, userID int64, c ProfileChanges) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const profileViewColumns = `
		u.id AS user_id, u.username, u.first_name, u.last_name, u.email,
		p.type, p.file, p.location, p.tel, p.description, p.working_hours,
		p.created_at`

// CreateWithProfile inserts the user and its profile in one transaction.
func (r *repository) CreateWithProfile(
	ctx context.Context,
	u *User,
	role access.Role,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (username, email, password_hash, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, is_active, is_staff, is_superuser, created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query,
			u.Username,
			u.Email,
			u.PasswordHash,
			u.FirstName,
			u.LastName,
		).Scan(&u.ID, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create user: %w", mapUserConstraint(err))
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, type) VALUES ($1, $2)`,
			u.ID, string(role),
		); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}

		return nil
	})
}

func mapUserConstraint(err error) error {
	if !core.IsDuplicateKey(err) {
		return err
	}
	switch core.ConstraintName(err) {
	case constraintUsersUsername:
		return core.DuplicateFieldError("username", msgUsernameExists)
	default:
		return core.DuplicateFieldError("email", msgEmailExists)
	}
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, access.Role, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name,
		       u.last_name, u.is_active, u.is_staff, u.is_superuser,
		       u.created_at, u.updated_at, p.type AS role
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.username = $1`

	var row accountRow
	err := r.db.GetContext(ctx, &row, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, access.RoleNone, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, access.RoleNone, fmt.Errorf("get user by username: %w", err)
	}

	role, _ := access.ParseRole(row.Role.String)
	return &row.User, role, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *repository) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	query := `SELECT` + profileViewColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	var view ProfileView
	err := r.db.GetContext(ctx, &view, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &view, nil
}

func (r *repository) ListProfiles(
	ctx context.Context,
	role access.Role,
) ([]ProfileView, error) {
	query := `SELECT` + profileViewColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.type = $1
		ORDER BY u.id`

	views := []ProfileView{}
	if err := r.db.SelectContext(ctx, &views, query, string(role)); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return views, nil
}

// UpdateProfile writes the user and profile halves of c in one transaction.
func (r *repository) UpdateProfile(
	ctx context.Context,
	userID int64,
	c ProfileChanges,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if c.touchesUser() {
			query := `
				UPDATE users
				SET first_name = COALESCE($2, first_name),
				    last_name  = COALESCE($3, last_name),
				    email      = COALESCE($4, email),
				    updated_at = NOW()
				WHERE id = $1`

			res, err := tx.ExecContext(ctx, query, userID, c.FirstName, c.LastName, c.Email)
			if err != nil {
				return fmt.Errorf("update user: %w", mapUserConstraint(err))
			}
			if err := expectOneRow(res); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}

		if c.touchesProfile() {
			query := `
				UPDATE profiles
				SET location      = COALESCE($2, location),
				    tel           = COALESCE($3, tel),
				    description   = COALESCE($4, description),
				    working_hours = COALESCE($5, working_hours),
				    file          = COALESCE($6, file)
				WHERE user_id = $1`

			res, err := tx.ExecContext(ctx, query, userID,
				c.Location, c.Tel, c.Description, c.WorkingHours, c.File)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			if err := expectOneRow(res); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		return nil
	})
}

func expectOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return core.ErrNotFound
	}
	return nil
}
