// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID int64, candidateKey string) (string, error)
	Lookup(ctx context.Context, key string) (access.Principal, bool, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// GetOrCreate stores candidateKey for the user unless a token already exists,
// in which case the existing key wins. Concurrent calls converge on one key.
func (r *repository) GetOrCreate(
	ctx context.Context,
	userID int64,
	candidateKey string,
) (string, error) {
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key`

	var key string
	if err := r.db.GetContext(ctx, &key, query, candidateKey, userID); err != nil {
		if core.IsForeignKeyViolation(err) {
			return "", fmt.Errorf("get or create token: %w", core.ErrNotFound)
		}
		return "", fmt.Errorf("get or create token: %w", err)
	}

	return key, nil
}

// Lookup resolves a token key. The bool reports whether the owner is active.
func (r *repository) Lookup(
	ctx context.Context,
	key string,
) (access.Principal, bool, error) {
	query := `
		SELECT t.user_id, u.is_active, u.is_staff, u.is_superuser, p.type AS role
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE t.key = $1`

	var owner tokenOwner
	err := r.db.GetContext(ctx, &owner, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Principal{}, false, fmt.Errorf("lookup token: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return access.Principal{}, false, fmt.Errorf("lookup token: %w", err)
	}

	return owner.principal(), owner.IsActive, nil
}

func (r *repository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM auth_tokens WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	return nil
}
