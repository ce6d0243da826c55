// AngelaMos | 2026
// service.go

package offer

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

const (
	msgTierCount    = "Details must contain exactly 3 items (basic, standard, premium)."
	priceMaxDigits  = 10
	pricePlaces     = 2
	priceWholeLimit = priceMaxDigits - pricePlaces
)

type Service struct {
	repo          Repository
	store         storage.Store
	validator     *validator.Validate
	maxImageBytes int64
}

func NewService(repo Repository, store storage.Store, maxImageBytes int64) *Service {
	return &Service{
		repo:          repo,
		store:         store,
		validator:     core.NewValidator(),
		maxImageBytes: maxImageBytes,
	}
}

func (s *Service) ImageURL(key string) string {
	return s.store.URL(key)
}

// Create stores a new offer for p with its three tiers.
func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	req CreateOfferRequest,
) (*Detail, error) {
	if err := access.Authorize(access.CreateOffer, p, 0); err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	fields.Merge(checkTierSet(req.Details))
	for i, d := range req.Details {
		if d.Price != nil {
			for _, msg := range checkPrice(*d.Price) {
				fields.Add(fmt.Sprintf("details[%d].price", i), msg)
			}
		}
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	o := &Offer{
		UserID:      p.UserID,
		Title:       req.Title,
		Description: req.Description,
	}
	tiers := make([]Tier, 0, len(req.Details))
	for _, d := range req.Details {
		tiers = append(tiers, d.tier())
	}

	if err := s.repo.Create(ctx, o, tiers); err != nil {
		return nil, err
	}

	return s.detail(ctx, o.ID)
}

// checkTierSet requires one tier of every type. Extra tiers pass here and
// are caught by the per-offer uniqueness constraint.
func checkTierSet(details []CreateTierRequest) core.FieldErrors {
	fields := core.FieldErrors{}
	if details == nil {
		return fields
	}

	if len(details) < len(TierTypes) {
		fields.Add("details", msgTierCount)
		return fields
	}

	seen := make(map[TierType]bool, len(details))
	for _, d := range details {
		seen[TierType(d.OfferType)] = true
	}
	for _, t := range TierTypes {
		if !seen[t] {
			fields.Add("details", fmt.Sprintf("Missing offer_type: %s", t))
		}
	}

	return fields
}

func checkPrice(d decimal.Decimal) []string {
	var msgs []string
	if d.IsNegative() {
		msgs = append(msgs, "Ensure this value is greater than or equal to 0.")
	}
	if -d.Exponent() > pricePlaces && !d.Equal(d.Truncate(pricePlaces)) {
		msgs = append(msgs, fmt.Sprintf(
			"Ensure that there are no more than %d decimal places.", pricePlaces))
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, priceWholeLimit)) {
		msgs = append(msgs, fmt.Sprintf(
			"Ensure that there are no more than %d digits before the decimal point.", priceWholeLimit))
	}
	return msgs
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Summary, int, error) {
	return s.repo.List(ctx, params.Normalize())
}

func (s *Service) Get(ctx context.Context, id int64) (*Summary, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetTier(ctx context.Context, id int64) (*Tier, error) {
	return s.repo.GetTier(ctx, id)
}

func (s *Service) detail(ctx context.Context, id int64) (*Detail, error) {
	summary, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tiers, err := s.repo.Tiers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Summary: *summary, Tiers: tiers}, nil
}

// Update applies a partial change. Tiers are matched by offer_type and the
// three-tier rule is not checked again.
func (s *Service) Update(
	ctx context.Context,
	p access.Principal,
	id int64,
	req UpdateOfferRequest,
) (*Detail, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(access.UpdateOffer, p, current.UserID); err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	for i, d := range req.Details {
		if d.OfferType != "" && !TierType(d.OfferType).Valid() {
			fields.Add(fmt.Sprintf("details[%d].offer_type", i), core.InvalidChoice(d.OfferType))
		}
		if d.Price != nil {
			for _, msg := range checkPrice(*d.Price) {
				fields.Add(fmt.Sprintf("details[%d].price", i), msg)
			}
		}
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	if err := s.repo.Update(ctx, id, req.changes()); err != nil {
		return nil, err
	}

	return s.detail(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(access.DeleteOffer, p, current.UserID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// SetImage stores the offer's logo under a key derived from the owner, so a
// new upload replaces the previous one.
func (s *Service) SetImage(
	ctx context.Context,
	p access.Principal,
	id int64,
	image *storage.File,
) (*Detail, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(access.UpdateOffer, p, current.UserID); err != nil {
		return nil, err
	}

	fields := core.FieldErrors{}
	switch {
	case image == nil:
		fields.Add("image", "No file was submitted.")
	case !image.IsImage():
		fields.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case image.Size > s.maxImageBytes:
		fields.Add("image", imageTooLarge(s.maxImageBytes))
	}
	if !fields.Empty() {
		return nil, core.ValidationError(fields)
	}

	key := storage.OfferImageKey(current.UserID, image.Extension())
	if err := s.store.Put(ctx, key, image.Body, image.Size, image.MediaType()); err != nil {
		return nil, fmt.Errorf("store offer image: %w", err)
	}

	if err := s.repo.SetImage(ctx, id, key); err != nil {
		return nil, err
	}

	return s.detail(ctx, id)
}

func imageTooLarge(limit int64) string {
	return fmt.Sprintf("File size must not exceed %d MB.", limit>>20)
}
