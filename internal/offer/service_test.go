// AngelaMos | 2026
// service_test.go

package offer

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

type fakeRepo struct {
	nextOffer int64
	nextTier  int64
	offers    map[int64]*Offer
	tiers     []Tier
	listed    ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{offers: map[int64]*Offer{}}
}

func (f *fakeRepo) Create(_ context.Context, o *Offer, tiers []Tier) error {
	seen := map[TierType]bool{}
	for _, t := range tiers {
		if seen[t.OfferType] {
			return core.DuplicateFieldError("details", msgDuplicateTier)
		}
		seen[t.OfferType] = true
	}

	f.nextOffer++
	o.ID = f.nextOffer
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.offers[o.ID] = &cp

	for i := range tiers {
		f.nextTier++
		tiers[i].ID = f.nextTier
		tiers[i].OfferID = o.ID
		f.tiers = append(f.tiers, tiers[i])
	}
	return nil
}

func (f *fakeRepo) summary(o *Offer) Summary {
	s := Summary{Offer: *o}
	for _, t := range f.tiers {
		if t.OfferID != o.ID {
			continue
		}
		s.TierIDs = append(s.TierIDs, t.ID)
		if !s.MinPrice.Valid || t.Price.LessThan(s.MinPrice.Decimal) {
			s.MinPrice = decimal.NullDecimal{Decimal: t.Price, Valid: true}
		}
		if !s.MinDeliveryTime.Valid || int64(t.DeliveryTimeInDays) < s.MinDeliveryTime.Int64 {
			s.MinDeliveryTime = sql.NullInt64{Int64: int64(t.DeliveryTimeInDays), Valid: true}
		}
	}
	return s
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Summary, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	s := f.summary(o)
	return &s, nil
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Summary, int, error) {
	f.listed = params
	out := []Summary{}
	for _, o := range f.offers {
		if params.CreatorID != nil && o.UserID != *params.CreatorID {
			continue
		}
		out = append(out, f.summary(o))
	}
	return out, len(out), nil
}

func (f *fakeRepo) Tiers(_ context.Context, offerID int64) ([]Tier, error) {
	out := []Tier{}
	for _, t := range f.tiers {
		if t.OfferID == offerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetTier(_ context.Context, id int64) (*Tier, error) {
	for _, t := range f.tiers {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, id int64, c Changes) error {
	o, ok := f.offers[id]
	if !ok {
		return core.ErrNotFound
	}
	for _, tc := range c.Tiers {
		matched := false
		for i := range f.tiers {
			t := &f.tiers[i]
			if t.OfferID != id || t.OfferType != tc.OfferType {
				continue
			}
			matched = true
			if tc.Title != nil {
				t.Title = *tc.Title
			}
			if tc.DeliveryTimeInDays != nil {
				t.DeliveryTimeInDays = *tc.DeliveryTimeInDays
			}
			if tc.Price != nil {
				t.Price = *tc.Price
			}
			if tc.Features != nil {
				t.Features = tc.Features
			}
			t.Revisions++
		}
		if !matched {
			return core.FieldError("details", "missing tier")
		}
	}
	if c.Title != nil {
		o.Title = *c.Title
	}
	if c.Description != nil {
		o.Description = *c.Description
	}
	return nil
}

func (f *fakeRepo) SetImage(_ context.Context, id int64, key string) error {
	o, ok := f.offers[id]
	if !ok {
		return core.ErrNotFound
	}
	o.Image = key
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.offers[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.offers, id)
	kept := f.tiers[:0]
	for _, t := range f.tiers {
		if t.OfferID != id {
			kept = append(kept, t)
		}
	}
	f.tiers = kept
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

const maxImage = 2 << 20

var (
	business = access.Principal{UserID: 10, Role: access.RoleBusiness}
	rival    = access.Principal{UserID: 11, Role: access.RoleBusiness}
	customer = access.Principal{UserID: 20, Role: access.RoleCustomer}
	admin    = access.Principal{UserID: 1, IsAdmin: true}
)

func setup(t *testing.T) (*Service, *fakeRepo, *memStore) {
	t.Helper()
	repo := newFakeRepo()
	store := &memStore{objects: map[string]string{}}
	return NewService(repo, store, maxImage), repo, store
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func tierReq(tier TierType, amount string, days int) CreateTierRequest {
	return CreateTierRequest{
		Title:              string(tier) + " package",
		DeliveryTimeInDays: intPtr(days),
		Price:              price(amount),
		Features:           []string{"logo"},
		OfferType:          string(tier),
	}
}

func validOffer() CreateOfferRequest {
	return CreateOfferRequest{
		Title:       "Logo design",
		Description: "Vector logos",
		Details: []CreateTierRequest{
			tierReq(TierBasic, "50", 1),
			tierReq(TierStandard, "100", 3),
			tierReq(TierPremium, "200", 7),
		},
	}
}

func fieldErrors(t *testing.T, err error) core.FieldErrors {
	t.Helper()
	appErr, ok := core.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Fields
}

func TestCreateOffer(t *testing.T) {
	svc, _, _ := setup(t)

	detail, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	assert.Equal(t, business.UserID, detail.UserID)
	require.Len(t, detail.Tiers, 3)
	assert.Equal(t, "50.00", FormatPrice(detail.MinPrice.Decimal))
	assert.Equal(t, int64(1), detail.MinDeliveryTime.Int64)

	resp := ToOfferDetailResponse(detail, svc.ImageURL)
	assert.Nil(t, resp.Image)
	assert.Equal(t, "200.00", resp.Details[2].Price)
	assert.Equal(t, []string{"logo"}, resp.Details[0].Features)
}

func TestCreateOfferRequiresBusiness(t *testing.T) {
	svc, repo, _ := setup(t)

	_, err := svc.Create(context.Background(), customer, validOffer())
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Create(context.Background(), admin, validOffer())
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Create(context.Background(), access.Principal{}, validOffer())
	assert.True(t, errors.Is(err, core.ErrUnauthorized))

	assert.Empty(t, repo.offers)
}

func TestCreateOfferTooFewTiers(t *testing.T) {
	svc, repo, _ := setup(t)
	req := validOffer()
	req.Details = req.Details[:2]

	_, err := svc.Create(context.Background(), business, req)
	assert.Equal(t, []string{msgTierCount}, fieldErrors(t, err)["details"])
	assert.Empty(t, repo.offers)
}

func TestCreateOfferMissingTypes(t *testing.T) {
	svc, _, _ := setup(t)
	req := validOffer()
	req.Details = []CreateTierRequest{
		tierReq(TierBasic, "10", 1),
		tierReq(TierBasic, "20", 1),
		tierReq(TierBasic, "30", 1),
	}

	_, err := svc.Create(context.Background(), business, req)
	assert.Equal(t,
		[]string{"Missing offer_type: standard", "Missing offer_type: premium"},
		fieldErrors(t, err)["details"])
}

func TestCreateOfferDuplicateExtraTier(t *testing.T) {
	svc, repo, _ := setup(t)
	req := validOffer()
	req.Details = append(req.Details, tierReq(TierBasic, "5", 1))

	_, err := svc.Create(context.Background(), business, req)
	assert.True(t, errors.Is(err, core.ErrDuplicateKey))
	assert.Equal(t, []string{msgDuplicateTier}, fieldErrors(t, err)["details"])
	assert.Empty(t, repo.offers)
	assert.Empty(t, repo.tiers)
}

func TestCreateOfferTierFieldErrors(t *testing.T) {
	svc, _, _ := setup(t)
	req := validOffer()
	req.Title = ""
	req.Details[1].Price = nil
	req.Details[2].Price = price("-1")
	req.Details[0].OfferType = "gold"

	_, err := svc.Create(context.Background(), business, req)
	fields := fieldErrors(t, err)

	assert.Equal(t, []string{"This field is required."}, fields["title"])
	assert.Equal(t, []string{"This field is required."}, fields["details[1].price"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 0."}, fields["details[2].price"])
	assert.Equal(t, []string{`"gold" is not a valid choice.`}, fields["details[0].offer_type"])
	assert.Equal(t, []string{"Missing offer_type: basic"}, fields["details"])
}

func TestCheckPrice(t *testing.T) {
	assert.Empty(t, checkPrice(decimal.RequireFromString("99999999.99")))
	assert.Empty(t, checkPrice(decimal.RequireFromString("12.500")))
	assert.Len(t, checkPrice(decimal.RequireFromString("1.005")), 1)
	assert.Len(t, checkPrice(decimal.RequireFromString("100000000")), 1)
}

func TestUpdateOfferMatchesTierByType(t *testing.T) {
	svc, _, _ := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	detail, err := svc.Update(context.Background(), business, created.ID, UpdateOfferRequest{
		Title: strPtr("Better logos"),
		Details: []UpdateTierRequest{{
			OfferType: string(TierPremium),
			Price:     price("250"),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Better logos", detail.Title)
	byType := map[TierType]Tier{}
	for _, tier := range detail.Tiers {
		byType[tier.OfferType] = tier
	}
	assert.Equal(t, "250.00", FormatPrice(byType[TierPremium].Price))
	assert.Equal(t, 1, byType[TierPremium].Revisions)
	assert.Equal(t, "premium package", byType[TierPremium].Title)
	assert.Equal(t, 7, byType[TierPremium].DeliveryTimeInDays)
	assert.Equal(t, 0, byType[TierBasic].Revisions)
	assert.Equal(t, "50.00", FormatPrice(byType[TierBasic].Price))
}

func TestUpdateOfferInvalidType(t *testing.T) {
	svc, _, _ := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), business, created.ID, UpdateOfferRequest{
		Details: []UpdateTierRequest{{OfferType: "gold", Title: strPtr("x")}},
	})
	assert.Equal(t, []string{`"gold" is not a valid choice.`}, fieldErrors(t, err)["details[0].offer_type"])
}

func TestUpdateOfferSkipsUntypedTier(t *testing.T) {
	svc, _, _ := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	detail, err := svc.Update(context.Background(), business, created.ID, UpdateOfferRequest{
		Title:   strPtr("Renamed"),
		Details: []UpdateTierRequest{{Title: strPtr("orphan")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", detail.Title)
	for _, tier := range detail.Tiers {
		assert.NotEqual(t, "orphan", tier.Title)
		assert.Equal(t, 0, tier.Revisions)
	}
}

func TestUpdateOfferPermissions(t *testing.T) {
	svc, _, _ := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), rival, created.ID, UpdateOfferRequest{Title: strPtr("x")})
	assert.True(t, errors.Is(err, core.ErrForbidden))

	_, err = svc.Update(context.Background(), admin, created.ID, UpdateOfferRequest{Title: strPtr("x")})
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), rival, 999, UpdateOfferRequest{Title: strPtr("x")})
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestDeleteOffer(t *testing.T) {
	svc, repo, _ := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(context.Background(), customer, created.ID), core.ErrForbidden))
	require.NoError(t, svc.Delete(context.Background(), business, created.ID))
	assert.Empty(t, repo.tiers)
	assert.True(t, errors.Is(svc.Delete(context.Background(), business, created.ID), core.ErrNotFound))
}

func TestSetImage(t *testing.T) {
	svc, _, store := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	img := &storage.File{Filename: "Logo.PNG", Size: 3, Body: strings.NewReader("png")}
	detail, err := svc.SetImage(context.Background(), business, created.ID, img)
	require.NoError(t, err)

	key := "offers/offer_10/logo.png"
	assert.Equal(t, key, detail.Image)
	assert.Equal(t, "png", store.objects[key])

	resp := ToOfferResponse(detail.Summary, svc.ImageURL)
	require.NotNil(t, resp.Image)
	assert.Equal(t, "/media/"+key, *resp.Image)
}

func TestSetImageRejectsBadUploads(t *testing.T) {
	svc, _, store := setup(t)
	created, err := svc.Create(context.Background(), business, validOffer())
	require.NoError(t, err)

	_, err = svc.SetImage(context.Background(), business, created.ID,
		&storage.File{Filename: "notes.txt", Size: 1, Body: strings.NewReader("x")})
	assert.Contains(t, fieldErrors(t, err), "image")

	_, err = svc.SetImage(context.Background(), business, created.ID,
		&storage.File{Filename: "big.jpg", Size: maxImage + 1, Body: strings.NewReader("")})
	assert.Equal(t, []string{"File size must not exceed 2 MB."}, fieldErrors(t, err)["image"])

	_, err = svc.SetImage(context.Background(), rival, created.ID,
		&storage.File{Filename: "a.jpg", Size: 1, Body: strings.NewReader("x")})
	assert.True(t, errors.Is(err, core.ErrForbidden))

	assert.Empty(t, store.objects)
}

func TestListNormalizesParams(t *testing.T) {
	svc, repo, _ := setup(t)

	_, _, err := svc.List(context.Background(), ListParams{PageSize: 1000, Ordering: "title"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listed.Page)
	assert.Equal(t, MaxPageSize, repo.listed.PageSize)
	assert.Equal(t, DefaultOrdering, repo.listed.Ordering)
}

func TestFeaturesScan(t *testing.T) {
	var f Features
	require.NoError(t, f.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, Features{"a", "b"}, f)

	require.NoError(t, f.Scan(`null`))
	assert.Equal(t, Features{}, f)

	v, err := Features(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	assert.Error(t, f.Scan(42))
}
