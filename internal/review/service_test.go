// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/event"
)

type fakeRepo struct {
	roles   map[int64]access.Role
	reviews map[int64]*Review
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles: map[int64]access.Role{
			10: access.RoleBusiness,
			20: access.RoleCustomer,
			21: access.RoleCustomer,
			30: access.RoleNone,
		},
		reviews: map[int64]*Review{},
	}
}

func (f *fakeRepo) Create(_ context.Context, r *Review) error {
	for _, existing := range f.reviews {
		if existing.ReviewerID == r.ReviewerID && existing.BusinessUserID == r.BusinessUserID {
			return core.DuplicateFieldError(core.NonFieldErrors, msgAlreadyReviewed)
		}
	}
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Review, error) {
	out := []Review{}
	for id := int64(1); id <= f.nextID; id++ {
		r, ok := f.reviews[id]
		if !ok {
			continue
		}
		if params.BusinessUserID != nil && r.BusinessUserID != *params.BusinessUserID {
			continue
		}
		if params.ReviewerID != nil && r.ReviewerID != *params.ReviewerID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, c Changes) error {
	r, ok := f.reviews[id]
	if !ok {
		return core.ErrNotFound
	}
	if c.Rating != nil {
		r.Rating = *c.Rating
	}
	if c.Description != nil {
		r.Description = *c.Description
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.reviews[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeRepo) ProfileRole(_ context.Context, userID int64) (access.Role, error) {
	role, ok := f.roles[userID]
	if !ok {
		return access.RoleNone, core.ErrNotFound
	}
	return role, nil
}

var (
	business = access.Principal{UserID: 10, Role: access.RoleBusiness}
	customer = access.Principal{UserID: 20, Role: access.RoleCustomer}
	other    = access.Principal{UserID: 21, Role: access.RoleCustomer}
	staff    = access.Principal{UserID: 1, IsAdmin: true}
)

type recorder struct {
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, e event.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func setup(t *testing.T) (*Service, *fakeRepo, *recorder) {
	t.Helper()
	repo := newFakeRepo()
	events := &recorder{}
	return NewService(repo, events), repo, events
}

func intPtr(v int) *int { return &v }

func idPtr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func newReview(target int64, rating int) CreateReviewRequest {
	return CreateReviewRequest{
		BusinessUser: idPtr(target),
		Rating:       intPtr(rating),
		Description:  "Great work",
	}
}

func fieldErrors(t *testing.T, err error) core.FieldErrors {
	t.Helper()
	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Fields
}

func TestCreateReview(t *testing.T) {
	svc, _, events := setup(t)

	rev, err := svc.Create(context.Background(), customer, newReview(10, 5))
	require.NoError(t, err)

	assert.Equal(t, customer.UserID, rev.ReviewerID)
	assert.Equal(t, int64(10), rev.BusinessUserID)
	require.Len(t, events.events, 1)
	assert.Equal(t, event.ReviewCreated, events.events[0].Type)
}

func TestCreateReviewOncePerBusiness(t *testing.T) {
	svc, repo, _ := setup(t)

	_, err := svc.Create(context.Background(), customer, newReview(10, 5))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), customer, newReview(10, 1))
	assert.True(t, errors.Is(err, core.ErrDuplicateKey))
	assert.Equal(t, []string{msgAlreadyReviewed}, fieldErrors(t, err)[core.NonFieldErrors])
	assert.Len(t, repo.reviews, 1)

	_, err = svc.Create(context.Background(), other, newReview(10, 4))
	assert.NoError(t, err)
}

func TestCreateReviewTargets(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), customer, newReview(21, 5))
	assert.Equal(t, []string{msgNotBusiness}, fieldErrors(t, err)[core.NonFieldErrors])

	_, err = svc.Create(context.Background(), customer, newReview(30, 5))
	assert.Equal(t, []string{msgNotBusiness}, fieldErrors(t, err)[core.NonFieldErrors])

	_, err = svc.Create(context.Background(), customer, newReview(404, 5))
	assert.True(t, errors.Is(err, core.ErrForeignKey))
	assert.Contains(t, fieldErrors(t, err), "business_user")
}

func TestCreateReviewValidation(t *testing.T) {
	svc, _, _ := setup(t)

	req := newReview(10, 6)
	req.Description = string(make([]byte, 151))
	_, err := svc.Create(context.Background(), customer, req)

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "rating")
	assert.Equal(t,
		[]string{"Ensure this field has no more than 150 characters."},
		fields["description"])

	_, err = svc.Create(context.Background(), customer, CreateReviewRequest{})
	fields = fieldErrors(t, err)
	assert.Equal(t, []string{"This field is required."}, fields["business_user"])
	assert.Equal(t, []string{"This field is required."}, fields["rating"])
}

func TestCreateReviewCustomerOnly(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), business, newReview(10, 5))
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Create(context.Background(), staff, newReview(10, 5))
	assert.True(t, errors.Is(err, core.ErrForbidden))
}

func TestUpdateReview(t *testing.T) {
	svc, _, _ := setup(t)
	rev, err := svc.Create(context.Background(), customer, newReview(10, 3))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), customer, rev.ID,
		UpdateReviewRequest{Description: strPtr("Changed")}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "Changed", updated.Description)
	assert.Equal(t, int64(10), updated.BusinessUserID)

	_, err = svc.Update(context.Background(), customer, rev.ID,
		UpdateReviewRequest{Description: strPtr("x")}, false)
	assert.Equal(t, []string{"This field is required."}, fieldErrors(t, err)["rating"])

	updated, err = svc.Update(context.Background(), staff, rev.ID,
		UpdateReviewRequest{Rating: intPtr(1)}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)
}

func TestUpdateReviewPermissions(t *testing.T) {
	svc, _, _ := setup(t)
	rev, err := svc.Create(context.Background(), customer, newReview(10, 3))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other, rev.ID, UpdateReviewRequest{Rating: intPtr(1)}, true)
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Update(context.Background(), business, rev.ID, UpdateReviewRequest{Rating: intPtr(1)}, true)
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Update(context.Background(), other, 99, UpdateReviewRequest{}, true)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestDeleteReview(t *testing.T) {
	svc, repo, _ := setup(t)
	rev, err := svc.Create(context.Background(), customer, newReview(10, 3))
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(context.Background(), other, rev.ID), core.ErrForbidden))
	require.NoError(t, svc.Delete(context.Background(), customer, rev.ID))
	assert.Empty(t, repo.reviews)
}

func TestListFilters(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Create(context.Background(), customer, newReview(10, 3))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), other, newReview(10, 4))
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListParams{BusinessUserID: idPtr(10)})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(context.Background(), ListParams{ReviewerID: idPtr(21)})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 4, mine[0].Rating)
}
