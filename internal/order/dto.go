// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/carterperez-dev/templates/marketplace-api/internal/offer"
)

type CreateOrderRequest struct {
	OfferDetailID *int64 `json:"offer_detail_id" validate:"required"`
}

type UpdateOrderRequest struct {
	Status *string `json:"status" validate:"required"`
}

type OrderResponse struct {
	ID                 int64          `json:"id"`
	CustomerUser       int64          `json:"customer_user"`
	BusinessUser       int64          `json:"business_user"`
	Title              string         `json:"title"`
	Revisions          int            `json:"revisions"`
	DeliveryTimeInDays int            `json:"delivery_time_in_days"`
	Price              string         `json:"price"`
	Features           []string       `json:"features"`
	OfferType          offer.TierType `json:"offer_type"`
	Status             Status         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type CountResponse struct {
	OrderCount int `json:"order_count"`
}

type CompletedCountResponse struct {
	CompletedOrderCount int `json:"completed_order_count"`
}

func ToOrderResponse(v *View) OrderResponse {
	features := []string(v.Features)
	if features == nil {
		features = []string{}
	}
	return OrderResponse{
		ID:                 v.ID,
		CustomerUser:       v.CustomerUserID,
		BusinessUser:       v.BusinessUserID,
		Title:              v.Title,
		Revisions:          v.Revisions,
		DeliveryTimeInDays: v.DeliveryTimeInDays,
		Price:              offer.FormatPrice(v.Price),
		Features:           features,
		OfferType:          v.OfferType,
		Status:             v.Status,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func ToOrderResponses(views []View) []OrderResponse {
	out := make([]OrderResponse, 0, len(views))
	for i := range views {
		out = append(out, ToOrderResponse(&views[i]))
	}
	return out
}
