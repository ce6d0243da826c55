// AngelaMos | 2026
// dto.go

package offer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CreateTierRequest struct {
	Title              string           `json:"title"                 validate:"required,max=150"`
	Revisions          *int             `json:"revisions"             validate:"omitempty,gte=0"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"required,gte=0"`
	Price              *decimal.Decimal `json:"price"                 validate:"required"`
	Features           []string         `json:"features"`
	OfferType          string           `json:"offer_type"            validate:"required,oneof=basic standard premium"`
}

type CreateOfferRequest struct {
	Title       string              `json:"title"       validate:"required,max=150"`
	Description string              `json:"description" validate:"required"`
	Details     []CreateTierRequest `json:"details"     validate:"required,dive"`
}

func (r CreateTierRequest) tier() Tier {
	t := Tier{
		Title:              r.Title,
		DeliveryTimeInDays: *r.DeliveryTimeInDays,
		Price:              r.Price.Round(2),
		Features:           Features(r.Features),
		OfferType:          TierType(r.OfferType),
	}
	if r.Revisions != nil {
		t.Revisions = *r.Revisions
	}
	if t.Features == nil {
		t.Features = Features{}
	}
	return t
}

type UpdateTierRequest struct {
	Title              *string          `json:"title"                 validate:"omitempty,max=150"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"omitempty,gte=0"`
	Price              *decimal.Decimal `json:"price"`
	Features           []string         `json:"features"`
	OfferType          string           `json:"offer_type"`
}

type UpdateOfferRequest struct {
	Title       *string             `json:"title"       validate:"omitempty,max=150"`
	Description *string             `json:"description"`
	Details     []UpdateTierRequest `json:"details"     validate:"omitempty,dive"`
}

func (r UpdateOfferRequest) changes() Changes {
	c := Changes{Title: r.Title, Description: r.Description}
	for _, d := range r.Details {
		if d.OfferType == "" {
			continue
		}
		tc := TierChanges{
			OfferType:          TierType(d.OfferType),
			Title:              d.Title,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
		}
		if d.Price != nil {
			p := d.Price.Round(2)
			tc.Price = &p
		}
		if d.Features != nil {
			tc.Features = Features(d.Features)
		}
		c.Tiers = append(c.Tiers, tc)
	}
	return c
}

type TierLink struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

func tierURL(id int64) string {
	return fmt.Sprintf("/offerdetails/%d/", id)
}

type OfferResponse struct {
	ID              int64      `json:"id"`
	User            int64      `json:"user"`
	Title           string     `json:"title"`
	Image           *string    `json:"image"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Details         []TierLink `json:"details"`
	MinPrice        *string    `json:"min_price"`
	MinDeliveryTime *int64     `json:"min_delivery_time"`
}

type TierResponse struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	OfferType          TierType `json:"offer_type"`
}

type OfferDetailResponse struct {
	ID              int64          `json:"id"`
	User            int64          `json:"user"`
	Title           string         `json:"title"`
	Image           *string        `json:"image"`
	Description     string         `json:"description"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Details         []TierResponse `json:"details"`
	MinPrice        *string        `json:"min_price"`
	MinDeliveryTime *int64         `json:"min_delivery_time"`
}

// FormatPrice renders a money amount with two decimals, e.g. "50.00".
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func minPrice(s Summary) *string {
	if !s.MinPrice.Valid {
		return nil
	}
	v := FormatPrice(s.MinPrice.Decimal)
	return &v
}

func minDelivery(s Summary) *int64 {
	if !s.MinDeliveryTime.Valid {
		return nil
	}
	v := s.MinDeliveryTime.Int64
	return &v
}

func imageURL(key string, urlFor func(string) string) *string {
	if key == "" {
		return nil
	}
	u := urlFor(key)
	return &u
}

func ToOfferResponse(s Summary, urlFor func(string) string) OfferResponse {
	links := make([]TierLink, 0, len(s.TierIDs))
	for _, id := range s.TierIDs {
		links = append(links, TierLink{ID: id, URL: tierURL(id)})
	}

	return OfferResponse{
		ID:              s.ID,
		User:            s.UserID,
		Title:           s.Title,
		Image:           imageURL(s.Image, urlFor),
		Description:     s.Description,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Details:         links,
		MinPrice:        minPrice(s),
		MinDeliveryTime: minDelivery(s),
	}
}

func ToOfferResponses(summaries []Summary, urlFor func(string) string) []OfferResponse {
	out := make([]OfferResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ToOfferResponse(s, urlFor))
	}
	return out
}

func ToTierResponse(t Tier) TierResponse {
	features := []string(t.Features)
	if features == nil {
		features = []string{}
	}
	return TierResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Revisions:          t.Revisions,
		DeliveryTimeInDays: t.DeliveryTimeInDays,
		Price:              FormatPrice(t.Price),
		Features:           features,
		OfferType:          t.OfferType,
	}
}

func ToOfferDetailResponse(d *Detail, urlFor func(string) string) OfferDetailResponse {
	tiers := make([]TierResponse, 0, len(d.Tiers))
	for _, t := range d.Tiers {
		tiers = append(tiers, ToTierResponse(t))
	}

	return OfferDetailResponse{
		ID:              d.ID,
		User:            d.UserID,
		Title:           d.Title,
		Image:           imageURL(d.Image, urlFor),
		Description:     d.Description,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Details:         tiers,
		MinPrice:        minPrice(d.Summary),
		MinDeliveryTime: minDelivery(d.Summary),
	}
}
