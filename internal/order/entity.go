// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/marketplace-api/internal/offer"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next follows s in the order lifecycle.
// The API does not enforce it; it only labels status change events.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// View is an order joined with its tier and offer at read time, so tier
// edits show up on existing orders.
type View struct {
	ID                 int64           `db:"id"`
	CustomerUserID     int64           `db:"customer_user_id"`
	BusinessUserID     int64           `db:"business_user_id"`
	OfferDetailID      int64           `db:"offer_detail_id"`
	Title              string          `db:"title"`
	Revisions          int             `db:"revisions"`
	DeliveryTimeInDays int             `db:"delivery_time_in_days"`
	Price              decimal.Decimal `db:"price"`
	Features           offer.Features  `db:"features"`
	OfferType          offer.TierType  `db:"offer_type"`
	Status             Status          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// Visible reports whether the order falls inside a listing scope.
func (v View) Visible(scope Scope) bool {
	switch {
	case scope.All:
		return true
	case scope.BusinessID != 0:
		return v.BusinessUserID == scope.BusinessID
	case scope.CustomerID != 0:
		return v.CustomerUserID == scope.CustomerID
	}
	return false
}
