// AngelaMos | 2026
// entity.go

package offer

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TierType string

const (
	TierBasic    TierType = "basic"
	TierStandard TierType = "standard"
	TierPremium  TierType = "premium"
)

// TierTypes lists every tier an offer must carry, in display order.
var TierTypes = []TierType{TierBasic, TierStandard, TierPremium}

func (t TierType) Valid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	}
	return false
}

// Features is a tier's feature list, stored as a JSONB array.
type Features []string

func (f Features) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(f))
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}
	return b, nil
}

func (f *Features) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*f = Features{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan features: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan features: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*f = out
	return nil
}

type Offer struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Image       string    `db:"image"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Tier struct {
	ID                 int64           `db:"id"`
	OfferID            int64           `db:"offer_id"`
	Title              string          `db:"title"`
	Revisions          int             `db:"revisions"`
	DeliveryTimeInDays int             `db:"delivery_time_in_days"`
	Price              decimal.Decimal `db:"price"`
	Features           Features        `db:"features"`
	OfferType          TierType        `db:"offer_type"`
}

// Summary is an offer annotated with the cheapest price and fastest
// delivery across its tiers.
type Summary struct {
	Offer
	MinPrice        decimal.NullDecimal `db:"min_price"`
	MinDeliveryTime sql.NullInt64       `db:"min_delivery_time"`
	TierIDs         []int64             `db:"-"`
}

// Detail is a summary with its tiers loaded in full.
type Detail struct {
	Summary
	Tiers []Tier
}

type Ordering string

const (
	OrderUpdatedAsc   Ordering = "updated_at"
	OrderUpdatedDesc  Ordering = "-updated_at"
	OrderMinPriceAsc  Ordering = "min_price"
	OrderMinPriceDesc Ordering = "-min_price"
)

const (
	DefaultOrdering = OrderUpdatedDesc
	DefaultPageSize = 6
	MaxPageSize     = 100
)

func (o Ordering) Valid() bool {
	switch o {
	case OrderUpdatedAsc, OrderUpdatedDesc, OrderMinPriceAsc, OrderMinPriceDesc:
		return true
	}
	return false
}

type ListParams struct {
	CreatorID       *int64
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int64
	Search          string
	Ordering        Ordering
	Page            int
	PageSize        int
}

// Normalize fills in defaults and clamps the page size.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if !p.Ordering.Valid() {
		p.Ordering = DefaultOrdering
	}
	return p
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

// TierChanges holds the fields of one tier an update overwrites. Nil fields
// are left alone.
type TierChanges struct {
	OfferType          TierType
	Title              *string
	DeliveryTimeInDays *int
	Price              *decimal.Decimal
	Features           Features
}

type Changes struct {
	Title       *string
	Description *string
	Tiers       []TierChanges
}
