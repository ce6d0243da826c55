// AngelaMos | 2026
// dto.go

package review

import "time"

type CreateReviewRequest struct {
	BusinessUser *int64 `json:"business_user" validate:"required"`
	Rating       *int   `json:"rating"        validate:"required,oneof=1 2 3 4 5"`
	Description  string `json:"description"   validate:"max=150"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating"      validate:"omitempty,oneof=1 2 3 4 5"`
	Description *string `json:"description" validate:"omitempty,max=150"`
}

type ReviewResponse struct {
	ID           int64     `json:"id"`
	BusinessUser int64     `json:"business_user"`
	Reviewer     int64     `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BusinessUser: r.BusinessUserID,
		Reviewer:     r.ReviewerID,
		Rating:       r.Rating,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToReviewResponses(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ToReviewResponse(&reviews[i]))
	}
	return out
}
