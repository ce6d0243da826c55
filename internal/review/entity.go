// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

type Review struct {
	ID             int64     `db:"id"`
	BusinessUserID int64     `db:"business_user_id"`
	ReviewerID     int64     `db:"reviewer_id"`
	Rating         int       `db:"rating"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Ordering string

const (
	OrderUpdatedAsc  Ordering = "updated_at"
	OrderUpdatedDesc Ordering = "-updated_at"
	OrderRatingAsc   Ordering = "rating"
	OrderRatingDesc  Ordering = "-rating"
)

func (o Ordering) Valid() bool {
	switch o {
	case OrderUpdatedAsc, OrderUpdatedDesc, OrderRatingAsc, OrderRatingDesc:
		return true
	}
	return false
}

type ListParams struct {
	BusinessUserID *int64
	ReviewerID     *int64
	Ordering       Ordering
}

type Changes struct {
	Rating      *int
	Description *string
}
