// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

// Scope is the set of orders a caller may see.
type Scope = access.OrderScope

type Repository interface {
	Create(ctx context.Context, customerID, offerDetailID int64) (int64, error)
	Get(ctx context.Context, id int64) (*View, error)
	List(ctx context.Context, scope Scope) ([]View, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	IsBusiness(ctx context.Context, userID int64) (bool, error)
	CountForBusiness(ctx context.Context, businessID int64, status Status) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const viewQuery = `
	SELECT o.id, o.customer_user_id, f.user_id AS business_user_id,
	       o.offer_detail_id, d.title, d.revisions, d.delivery_time_in_days,
	       d.price, d.features, d.offer_type, o.status,
	       o.created_at, o.updated_at
	FROM orders o
	JOIN offer_details d ON d.id = o.offer_detail_id
	JOIN offers f ON f.id = d.offer_id`

func (r *repository) Create(ctx context.Context, customerID, offerDetailID int64) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO orders (customer_user_id, offer_detail_id)
		VALUES ($1, $2)
		RETURNING id`,
		customerID, offerDetailID,
	)
	if core.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("create order: %w", core.InvalidReferenceError("offer_detail_id", offerDetailID))
	}
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*View, error) {
	var v View
	err := r.db.GetContext(ctx, &v, viewQuery+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, scope Scope) ([]View, error) {
	views := []View{}

	var (
		query string
		args  []any
	)
	switch {
	case scope.All:
		query = viewQuery
	case scope.BusinessID != 0:
		query = viewQuery + ` WHERE f.user_id = $1`
		args = append(args, scope.BusinessID)
	case scope.CustomerID != 0:
		query = viewQuery + ` WHERE o.customer_user_id = $1`
		args = append(args, scope.CustomerID)
	default:
		return views, nil
	}

	if err := r.db.SelectContext(ctx, &views, query+` ORDER BY o.id`, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return views, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1`,
		id, string(status),
	)
	if core.IsCheckViolation(err) {
		return fmt.Errorf("update order status: %w",
			core.FieldError("status", core.InvalidChoice(string(status))))
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return expectOneRow(res, "update order status")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return expectOneRow(res, "delete order")
}

func expectOneRow(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func (r *repository) IsBusiness(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1 AND type = $2)`,
		userID, string(access.RoleBusiness),
	)
	if err != nil {
		return false, fmt.Errorf("check business profile: %w", err)
	}
	return ok, nil
}

func (r *repository) CountForBusiness(
	ctx context.Context,
	businessID int64,
	status Status,
) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM orders o
		JOIN offer_details d ON d.id = o.offer_detail_id
		JOIN offers f ON f.id = d.offer_id
		WHERE f.user_id = $1 AND o.status = $2`,
		businessID, string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
