// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/auth"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

type Service struct {
	repo            Repository
	store           storage.Store
	validator       *validator.Validate
	maxPictureBytes int64
}

var _ auth.UserProvider = (*Service)(nil)

func NewService(repo Repository, store storage.Store, maxPictureBytes int64) *Service {
	return &Service{
		repo:            repo,
		store:           store,
		validator:       core.NewValidator(),
		maxPictureBytes: maxPictureBytes,
	}
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*auth.Account, error) {
	u, role, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toAccount(u, role), nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

func (s *Service) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *Service) CreateAccount(ctx context.Context, acc auth.NewAccount) (*auth.Account, error) {
	if !acc.Role.Valid() {
		return nil, core.FieldError("type", fmt.Sprintf("%q is not a valid choice.", acc.Role))
	}

	u := &User{
		Username:     acc.Username,
		Email:        strings.ToLower(acc.Email),
		PasswordHash: acc.PasswordHash,
	}

	if err := s.repo.CreateWithProfile(ctx, u, acc.Role); err != nil {
		return nil, err
	}

	return toAccount(u, acc.Role), nil
}

func toAccount(u *User, role access.Role) *auth.Account {
	return &auth.Account{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Role:         role,
		IsAdmin:      u.IsAdmin(),
	}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *Service) ListProfiles(ctx context.Context, role access.Role) ([]ProfileView, error) {
	return s.repo.ListProfiles(ctx, role)
}

// UpdateProfile applies req, and picture when set, to the profile of
// targetID. A missing profile is reported before the permission check.
func (s *Service) UpdateProfile(
	ctx context.Context,
	p access.Principal,
	targetID int64,
	req UpdateProfileRequest,
	picture *storage.File,
) (*ProfileView, error) {
	if _, err := s.repo.GetProfile(ctx, targetID); err != nil {
		return nil, err
	}

	if err := access.Authorize(access.UpdateProfile, p, targetID); err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	if picture != nil {
		fields.Merge(s.checkPicture(picture))
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	changes := req.changes()
	if changes.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*changes.Email))
		changes.Email = &lowered
	}

	if picture != nil {
		key := storage.ProfilePictureKey(targetID, picture.Extension())
		if err := s.store.Put(ctx, key, picture.Body, picture.Size, picture.MediaType()); err != nil {
			return nil, fmt.Errorf("store profile picture: %w", err)
		}
		changes.File = &key
	}

	if err := s.repo.UpdateProfile(ctx, targetID, changes); err != nil {
		return nil, err
	}

	return s.repo.GetProfile(ctx, targetID)
}

func (s *Service) checkPicture(f *storage.File) core.FieldErrors {
	fields := core.FieldErrors{}
	if f.Size > s.maxPictureBytes {
		fields.Add("file", pictureTooLarge(s.maxPictureBytes))
	}
	if !f.IsImage() {
		fields.Add("file", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return fields
}

func pictureTooLarge(limit int64) string {
	return fmt.Sprintf("File size must not exceed %d MB.", limit>>20)
}
