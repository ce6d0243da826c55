// AngelaMos | 2026
// access.go

// Package access decides who may do what. Every write in the API goes
// through Authorize so the gate lives in one place.
package access

import (
	"fmt"

	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

type Role string

const (
	RoleNone     Role = ""
	RoleBusiness Role = "business"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBusiness:
		return RoleBusiness, true
	case RoleCustomer:
		return RoleCustomer, true
	}
	return RoleNone, false
}

func (r Role) Valid() bool {
	return r == RoleBusiness || r == RoleCustomer
}

// Principal is the authenticated caller. A user without a profile has
// RoleNone.
type Principal struct {
	UserID  int64
	Role    Role
	IsAdmin bool
}

func (p Principal) Anonymous() bool {
	return p.UserID == 0
}

type Operation int

const (
	CreateOffer Operation = iota
	UpdateOffer
	DeleteOffer
	CreateOrder
	UpdateOrder
	DeleteOrder
	CreateReview
	UpdateReview
	DeleteReview
	UpdateProfile
)

func (o Operation) String() string {
	switch o {
	case CreateOffer:
		return "create offer"
	case UpdateOffer:
		return "update offer"
	case DeleteOffer:
		return "delete offer"
	case CreateOrder:
		return "create order"
	case UpdateOrder:
		return "update order"
	case DeleteOrder:
		return "delete order"
	case CreateReview:
		return "create review"
	case UpdateReview:
		return "update review"
	case DeleteReview:
		return "delete review"
	case UpdateProfile:
		return "update profile"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Authorize reports whether p may perform op. ownerID is the user that owns
// the target: the offer creator, the order's business, the reviewer, the
// profile user. It is ignored for create operations. Admins pass every
// ownership check but not the role checks on create.
func Authorize(op Operation, p Principal, ownerID int64) error {
	if p.Anonymous() {
		return core.UnauthorizedError("")
	}

	switch op {
	case CreateOffer:
		if p.Role != RoleBusiness {
			return deny("Only business users can create offers.")
		}
	case CreateOrder:
		if p.Role != RoleCustomer {
			return deny("Only customer users can create orders.")
		}
	case CreateReview:
		if p.Role != RoleCustomer {
			return deny("Only customer users can create reviews.")
		}
	case UpdateOffer, DeleteOffer:
		if !p.IsAdmin && p.UserID != ownerID {
			return deny("You are not the owner of this offer.")
		}
	case UpdateOrder, DeleteOrder:
		if !p.IsAdmin && (p.Role != RoleBusiness || p.UserID != ownerID) {
			return deny("Only the business user of this order can change it.")
		}
	case UpdateReview, DeleteReview:
		if !p.IsAdmin && p.UserID != ownerID {
			return deny("You are not the author of this review.")
		}
	case UpdateProfile:
		if !p.IsAdmin && p.UserID != ownerID {
			return deny("You can only edit your own profile.")
		}
	default:
		return deny(fmt.Sprintf("unknown operation %s", op))
	}

	return nil
}

func deny(message string) error {
	return core.ForbiddenError(message)
}

// OrderScope narrows an order listing to what p may see.
type OrderScope struct {
	All        bool
	BusinessID int64
	CustomerID int64
}

// Empty reports a scope that matches no orders.
func (s OrderScope) Empty() bool {
	return !s.All && s.BusinessID == 0 && s.CustomerID == 0
}

func OrderScopeFor(p Principal) OrderScope {
	switch {
	case p.IsAdmin:
		return OrderScope{All: true}
	case p.Role == RoleBusiness:
		return OrderScope{BusinessID: p.UserID}
	case p.Role == RoleCustomer:
		return OrderScope{CustomerID: p.UserID}
	}
	return OrderScope{}
}
