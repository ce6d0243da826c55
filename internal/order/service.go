// AngelaMos | 2026
// service.go

package order

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/event"
)

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

func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	req CreateOrderRequest,
) (*View, error) {
	if err := access.Authorize(access.CreateOrder, p, 0); err != nil {
		return nil, err
	}

	if fields := core.ValidateStruct(s.validator, req); !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	id, err := s.repo.Create(ctx, p.UserID, *req.OfferDetailID)
	if err != nil {
		return nil, err
	}

	view, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Emit(ctx, s.events, event.New(event.OrderCreated, map[string]any{
		"order_id":         view.ID,
		"offer_detail_id":  view.OfferDetailID,
		"customer_user_id": view.CustomerUserID,
		"business_user_id": view.BusinessUserID,
	}))

	return view, nil
}

func (s *Service) List(ctx context.Context, p access.Principal) ([]View, error) {
	scope := access.OrderScopeFor(p)
	if scope.Empty() {
		return []View{}, nil
	}
	return s.repo.List(ctx, scope)
}

// Get returns the order when p may see it. Orders outside p's scope read as
// missing.
func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*View, error) {
	view, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.Visible(access.OrderScopeFor(p)) {
		return nil, core.ErrNotFound
	}
	return view, nil
}

// UpdateStatus sets a new status. Any valid status is accepted from the
// owning business. The lifecycle only decides how the change is labeled.
func (s *Service) UpdateStatus(
	ctx context.Context,
	p access.Principal,
	id int64,
	req UpdateOrderRequest,
) (*View, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(access.UpdateOrder, p, current.BusinessUserID); err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	if req.Status != nil && !Status(*req.Status).Valid() {
		fields.Add("status", core.InvalidChoice(*req.Status))
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	next := Status(*req.Status)
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	view, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if next != current.Status {
		event.Emit(ctx, s.events, event.New(event.OrderStatusChanged, map[string]any{
			"order_id":         view.ID,
			"business_user_id": view.BusinessUserID,
			"from":             current.Status,
			"to":               next,
			"forward":          current.Status.CanTransitionTo(next),
		}))
	}

	return view, nil
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(access.DeleteOrder, p, current.BusinessUserID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// CountForBusiness counts businessID's orders in status. A user without a
// business profile is reported as missing.
func (s *Service) CountForBusiness(
	ctx context.Context,
	businessID int64,
	status Status,
) (int, error) {
	ok, err := s.repo.IsBusiness(ctx, businessID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, core.NotFoundError("business user")
	}

	return s.repo.CountForBusiness(ctx, businessID, status)
}
