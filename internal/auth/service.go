// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const (
	msgEmailExists      = "Email already exists"
	msgUsernameExists   = "A user with that username already exists."
	msgPasswordMismatch = "Passwords do not match"
	msgBadCredentials   = "Invalid username or password"
	msgAccountDisabled  = "User account is disabled"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateAccount(ctx context.Context, acc NewAccount) (*Account, error)
}

type Service struct {
	repo         Repository
	userProvider UserProvider
	cache        TokenCache
	validator    *validator.Validate
}

func NewService(
	repo Repository,
	userProvider UserProvider,
	cache TokenCache,
) *Service {
	if cache == nil {
		cache = noopTokenCache{}
	}
	return &Service{
		repo:         repo,
		userProvider: userProvider,
		cache:        cache,
		validator:    core.NewValidator(),
	}
}

// Register validates everything up front and reports every failure at once.
// The user and its profile are created together, then the user's token is
// issued.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	fields := core.ValidateStruct(s.validator, req)

	if req.Email != "" {
		exists, err := s.userProvider.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			fields.Add("email", msgEmailExists)
		}
	}

	if req.Username != "" {
		exists, err := s.userProvider.UsernameExists(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if exists {
			fields.Add("username", msgUsernameExists)
		}
	}

	if req.Password != "" && req.RepeatedPassword != "" &&
		req.Password != req.RepeatedPassword {
		fields.Add(core.NonFieldErrors, msgPasswordMismatch)
	}

	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	role, _ := access.ParseRole(req.Type)

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.userProvider.CreateAccount(ctx, NewAccount{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(ctx, acc)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if fields := core.ValidateStruct(s.validator, req); !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	acc, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash := ""
	if acc != nil {
		hash = acc.PasswordHash
	}

	if !core.VerifyPasswordTimingSafe(req.Password, hash) {
		return nil, core.NewAppError(ErrInvalidCredentials, msgBadCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	if !acc.IsActive {
		return nil, core.NewAppError(ErrAccountDisabled, msgAccountDisabled, http.StatusUnauthorized, "ACCOUNT_DISABLED")
	}

	return s.issue(ctx, acc)
}

// Logout drops the caller's token. Logging in again issues a new key.
func (s *Service) Logout(ctx context.Context, userID int64, key string) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.cache.Delete(ctx, key)
	return nil
}

// VerifyToken implements middleware.TokenVerifier.
func (s *Service) VerifyToken(ctx context.Context, key string) (access.Principal, error) {
	if len(key) != 2*core.TokenKeyBytes {
		return access.Principal{}, core.TokenInvalidError()
	}

	if p, ok := s.cache.Get(ctx, key); ok {
		return p, nil
	}

	p, active, err := s.repo.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			return access.Principal{}, core.TokenInvalidError()
		}
		return access.Principal{}, fmt.Errorf("verify token: %w", err)
	}

	if !active {
		return access.Principal{}, core.UnauthorizedError("User inactive or deleted.")
	}

	s.cache.Set(ctx, key, p)
	return p, nil
}

func (s *Service) issue(ctx context.Context, acc *Account) (*AuthResponse, error) {
	candidate, err := core.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	key, err := s.repo.GetOrCreate(ctx, acc.ID, candidate)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:    key,
		Username: acc.Username,
		Email:    acc.Email,
		UserID:   acc.ID,
	}, nil
}
