// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/event"
)

const msgNotBusiness = "Selected user is not a business."

type Service struct {
	repo      Repository
	events    event.Publisher
	validator *validator.Validate
}

func NewService(repo Repository, events event.Publisher) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		validator: core.NewValidator(),
	}
}

// Create stores p's review of a business. A second review of the same
// business is rejected by the reviews uniqueness constraint.
func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	req CreateReviewRequest,
) (*Review, error) {
	if err := access.Authorize(access.CreateReview, p, 0); err != nil {
		return nil, err
	}

	if fields := core.ValidateStruct(s.validator, req); !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	target := *req.BusinessUser
	role, err := s.repo.ProfileRole(ctx, target)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.InvalidReferenceError("business_user", target)
	}
	if err != nil {
		return nil, err
	}
	if role != access.RoleBusiness {
		return nil, core.FieldError(core.NonFieldErrors, msgNotBusiness)
	}

	rev := &Review{
		BusinessUserID: target,
		ReviewerID:     p.UserID,
		Rating:         *req.Rating,
		Description:    req.Description,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	event.Emit(ctx, s.events, event.New(event.ReviewCreated, map[string]any{
		"review_id":        rev.ID,
		"business_user_id": rev.BusinessUserID,
		"reviewer_id":      rev.ReviewerID,
		"rating":           rev.Rating,
	}))

	return rev, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Review, error) {
	if !params.Ordering.Valid() {
		params.Ordering = ""
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	return s.repo.Get(ctx, id)
}

// Update changes rating and description. A full update must carry a
// rating; a partial one may leave either out.
func (s *Service) Update(
	ctx context.Context,
	p access.Principal,
	id int64,
	req UpdateReviewRequest,
	partial bool,
) (*Review, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(access.UpdateReview, p, current.ReviewerID); err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	if !partial && req.Rating == nil {
		fields.Add("rating", "This field is required.")
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	if err := s.repo.Update(ctx, id, Changes{
		Rating:      req.Rating,
		Description: req.Description,
	}); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(access.DeleteReview, p, current.ReviewerID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
