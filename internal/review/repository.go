// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const (
	constraintReviewPair = "reviews_reviewer_id_business_user_id_key"

	msgAlreadyReviewed = "You have already reviewed this business."
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	Get(ctx context.Context, id int64) (*Review, error)
	List(ctx context.Context, params ListParams) ([]Review, error)
	Update(ctx context.Context, id int64, c Changes) error
	Delete(ctx context.Context, id int64) error
	ProfileRole(ctx context.Context, userID int64) (access.Role, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const reviewColumns = `id, business_user_id, reviewer_id, rating, description, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (business_user_id, reviewer_id, rating, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rev.BusinessUserID,
		rev.ReviewerID,
		rev.Rating,
		rev.Description,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)

	switch {
	case err == nil:
		return nil
	case core.IsDuplicateKey(err) && core.ConstraintName(err) == constraintReviewPair:
		return fmt.Errorf("create review: %w",
			core.DuplicateFieldError(core.NonFieldErrors, msgAlreadyReviewed))
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("create review: %w",
			core.InvalidReferenceError("business_user", rev.BusinessUserID))
	}
	return fmt.Errorf("create review: %w", err)
}

func (r *repository) Get(ctx context.Context, id int64) (*Review, error) {
	var rev Review
	err := r.db.GetContext(ctx, &rev,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rev, nil
}

var orderClauses = map[Ordering]string{
	OrderUpdatedAsc:  "updated_at ASC, id ASC",
	OrderUpdatedDesc: "updated_at DESC, id DESC",
	OrderRatingAsc:   "rating ASC, id ASC",
	OrderRatingDesc:  "rating DESC, id DESC",
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Review, error) {
	var (
		conds []string
		args  []any
	)
	if params.BusinessUserID != nil {
		args = append(args, *params.BusinessUserID)
		conds = append(conds, "business_user_id = $"+strconv.Itoa(len(args)))
	}
	if params.ReviewerID != nil {
		args = append(args, *params.ReviewerID)
		conds = append(conds, "reviewer_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	order, ok := orderClauses[params.Ordering]
	if !ok {
		order = "id ASC"
	}
	query += ` ORDER BY ` + order

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Changes) error {
	query := `
		UPDATE reviews
		SET rating      = COALESCE($2, rating),
		    description = COALESCE($3, description),
		    updated_at  = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, c.Rating, c.Description)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}
	return nil
}

// ProfileRole returns the role of userID. A user that does not exist is
// ErrNotFound; a user without a profile is RoleNone.
func (r *repository) ProfileRole(ctx context.Context, userID int64) (access.Role, error) {
	var role sql.NullString
	err := r.db.GetContext(ctx, &role, `
		SELECT p.type
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return access.RoleNone, fmt.Errorf("get profile role: %w", core.ErrNotFound)
	}
	if err != nil {
		return access.RoleNone, fmt.Errorf("get profile role: %w", err)
	}

	parsed, _ := access.ParseRole(role.String)
	return parsed, nil
}
