// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestGetOrCreateReturnsExistingKey(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auth_tokens")).
		WithArgs("candidate", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("existing"))

	key, err := repo.GetOrCreate(context.Background(), 3, "candidate")
	require.NoError(t, err)
	assert.Equal(t, "existing", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookup(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM auth_tokens t")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "is_active", "is_staff", "is_superuser", "role"},
		).AddRow(int64(8), true, false, true, "business"))

	p, active, err := repo.Lookup(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, access.Principal{UserID: 8, Role: access.RoleBusiness, IsAdmin: true}, p)
}

func TestLookupNoProfile(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM auth_tokens t")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "is_active", "is_staff", "is_superuser", "role"},
		).AddRow(int64(8), true, false, false, nil))

	p, _, err := repo.Lookup(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, access.RoleNone, p.Role)
}

func TestLookupMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM auth_tokens t")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, _, err := repo.Lookup(context.Background(), "k")
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}
