// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/auth"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

type fakeRepo struct {
	nextID   int64
	users    map[int64]*User
	profiles map[int64]*ProfileView
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*User{}, profiles: map[int64]*ProfileView{}}
}

func (f *fakeRepo) CreateWithProfile(_ context.Context, u *User, role access.Role) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.DuplicateFieldError("email", msgEmailExists)
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	f.users[u.ID] = u
	f.profiles[u.ID] = &ProfileView{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Type:      role,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*User, access.Role, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, f.profiles[u.ID].Type, nil
		}
	}
	return nil, access.RoleNone, core.ErrNotFound
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetProfile(_ context.Context, userID int64) (*ProfileView, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListProfiles(_ context.Context, role access.Role) ([]ProfileView, error) {
	var out []ProfileView
	for _, p := range f.profiles {
		if p.Type == role {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, userID int64, c ProfileChanges) error {
	p, ok := f.profiles[userID]
	if !ok {
		return core.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.FirstName, c.FirstName)
	set(&p.LastName, c.LastName)
	set(&p.Email, c.Email)
	set(&p.Location, c.Location)
	set(&p.Tel, c.Tel)
	set(&p.Description, c.Description)
	set(&p.WorkingHours, c.WorkingHours)
	set(&p.File, c.File)
	return nil
}

type memStore struct {
	objects map[string]string
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = string(b)
	return nil
}

func (m *memStore) URL(key string) string { return "/media/" + key }

func (m *memStore) Ping(context.Context) error { return nil }

const maxPicture = 2 << 20

func setup(t *testing.T) (*Service, *fakeRepo, *memStore) {
	t.Helper()
	repo := newFakeRepo()
	store := &memStore{objects: map[string]string{}}
	return NewService(repo, store, maxPicture), repo, store
}

func createAccount(t *testing.T, svc *Service, name string, role access.Role) *auth.Account {
	t.Helper()
	acc, err := svc.CreateAccount(context.Background(), auth.NewAccount{
		Username:     name,
		Email:        name + "@Example.com",
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return acc
}

func ptr(s string) *string { return &s }

var nowish = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestCreateAccount(t *testing.T) {
	svc, _, _ := setup(t)

	acc := createAccount(t, svc, "biz", access.RoleBusiness)
	assert.Equal(t, "biz@example.com", acc.Email)
	assert.Equal(t, access.RoleBusiness, acc.Role)
	assert.True(t, acc.IsActive)

	got, err := svc.GetByUsername(context.Background(), "biz")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
}

func TestCreateAccountRejectsUnknownRole(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.CreateAccount(context.Background(), auth.NewAccount{Username: "x", Email: "x@y.z"})
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestUpdateProfileOwner(t *testing.T) {
	svc, _, _ := setup(t)
	acc := createAccount(t, svc, "biz", access.RoleBusiness)
	owner := access.Principal{UserID: acc.ID, Role: access.RoleBusiness}

	view, err := svc.UpdateProfile(context.Background(), owner, acc.ID, UpdateProfileRequest{
		FirstName: ptr("Max"),
		Location:  ptr("Berlin"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Max", view.FirstName)
	assert.Equal(t, "Berlin", view.Location)
	assert.Equal(t, "biz", view.Username)
}

func TestUpdateProfileForbidden(t *testing.T) {
	svc, repo, _ := setup(t)
	biz := createAccount(t, svc, "biz", access.RoleBusiness)
	cust := createAccount(t, svc, "cust", access.RoleCustomer)

	_, err := svc.UpdateProfile(context.Background(),
		access.Principal{UserID: cust.ID, Role: access.RoleCustomer},
		biz.ID, UpdateProfileRequest{Location: ptr("Hamburg")}, nil)
	assert.True(t, errors.Is(err, core.ErrForbidden))
	assert.Empty(t, repo.profiles[biz.ID].Location)
}

func TestUpdateProfileAdmin(t *testing.T) {
	svc, _, _ := setup(t)
	biz := createAccount(t, svc, "biz", access.RoleBusiness)

	_, err := svc.UpdateProfile(context.Background(),
		access.Principal{UserID: 99, IsAdmin: true},
		biz.ID, UpdateProfileRequest{Tel: ptr("123")}, nil)
	assert.NoError(t, err)
}

func TestUpdateProfileMissing(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.UpdateProfile(context.Background(),
		access.Principal{UserID: 1}, 404, UpdateProfileRequest{}, nil)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestUpdateProfileInvalidEmail(t *testing.T) {
	svc, _, _ := setup(t)
	acc := createAccount(t, svc, "cust", access.RoleCustomer)

	_, err := svc.UpdateProfile(context.Background(),
		access.Principal{UserID: acc.ID}, acc.ID,
		UpdateProfileRequest{Email: ptr("not-an-email")}, nil)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Enter a valid email address."}, appErr.Fields["email"])
}

func TestUpdateProfilePicture(t *testing.T) {
	svc, _, store := setup(t)
	acc := createAccount(t, svc, "cust", access.RoleCustomer)
	p := access.Principal{UserID: acc.ID, Role: access.RoleCustomer}

	pic := &storage.File{Filename: "me.PNG", Size: 4, Body: strings.NewReader("png!")}
	_, err := svc.UpdateProfile(context.Background(), p, acc.ID, UpdateProfileRequest{}, pic)
	require.NoError(t, err)

	key := storage.ProfilePictureKey(acc.ID, "png")
	assert.Equal(t, "png!", store.objects[key])

	again := &storage.File{Filename: "me.png", Size: 5, Body: strings.NewReader("png!!")}
	view, err := svc.UpdateProfile(context.Background(), p, acc.ID, UpdateProfileRequest{}, again)
	require.NoError(t, err)
	assert.Equal(t, "png!!", store.objects[key])
	assert.Len(t, store.objects, 1)

	resp := ToProfileResponse(view)
	require.NotNil(t, resp.File)
	assert.Equal(t, "profile.png", *resp.File)
}

func TestUpdateProfilePictureTooLarge(t *testing.T) {
	svc, repo, store := setup(t)
	acc := createAccount(t, svc, "cust", access.RoleCustomer)

	pic := &storage.File{Filename: "big.jpg", Size: maxPicture + 1, Body: strings.NewReader("")}
	_, err := svc.UpdateProfile(context.Background(),
		access.Principal{UserID: acc.ID}, acc.ID, UpdateProfileRequest{}, pic)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"File size must not exceed 2 MB."}, appErr.Fields["file"])
	assert.Empty(t, store.objects)
	assert.Empty(t, repo.profiles[acc.ID].File)
}

func TestProjections(t *testing.T) {
	views := []ProfileView{{UserID: 1, Username: "c", Type: access.RoleCustomer, File: ""}}

	customers := ToCustomerProfiles(views)
	require.Len(t, customers, 1)
	assert.Nil(t, customers[0].File)

	assert.Empty(t, ToBusinessProfiles(nil))
}
