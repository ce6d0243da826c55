// AngelaMos | 2026
// dto.go

package user

import (
	"path"
	"time"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
)

type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name"    validate:"omitempty,max=150"`
	LastName     *string `json:"last_name"     validate:"omitempty,max=150"`
	Email        *string `json:"email"         validate:"omitempty,email,max=254"`
	Location     *string `json:"location"      validate:"omitempty,max=255"`
	Tel          *string `json:"tel"           validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=50"`
}

func (r UpdateProfileRequest) changes() ProfileChanges {
	return ProfileChanges{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Location:     r.Location,
		Tel:          r.Tel,
		Description:  r.Description,
		WorkingHours: r.WorkingHours,
	}
}

type ProfileResponse struct {
	User         int64       `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         *string     `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         access.Role `json:"type"`
	Email        string      `json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
}

type BusinessProfileResponse struct {
	User         int64       `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         *string     `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         access.Role `json:"type"`
}

type CustomerProfileResponse struct {
	User       int64       `json:"user"`
	Username   string      `json:"username"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	File       *string     `json:"file"`
	UploadedAt time.Time   `json:"uploaded_at"`
	Type       access.Role `json:"type"`
}

// fileName renders a stored key as its bare file name.
func fileName(key string) *string {
	if key == "" {
		return nil
	}
	name := path.Base(key)
	return &name
}

func ToProfileResponse(v *ProfileView) ProfileResponse {
	return ProfileResponse{
		User:         v.UserID,
		Username:     v.Username,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		File:         fileName(v.File),
		Location:     v.Location,
		Tel:          v.Tel,
		Description:  v.Description,
		WorkingHours: v.WorkingHours,
		Type:         v.Type,
		Email:        v.Email,
		CreatedAt:    v.CreatedAt,
	}
}

func ToBusinessProfiles(views []ProfileView) []BusinessProfileResponse {
	out := make([]BusinessProfileResponse, 0, len(views))
	for _, v := range views {
		out = append(out, BusinessProfileResponse{
			User:         v.UserID,
			Username:     v.Username,
			FirstName:    v.FirstName,
			LastName:     v.LastName,
			File:         fileName(v.File),
			Location:     v.Location,
			Tel:          v.Tel,
			Description:  v.Description,
			WorkingHours: v.WorkingHours,
			Type:         v.Type,
		})
	}
	return out
}

func ToCustomerProfiles(views []ProfileView) []CustomerProfileResponse {
	out := make([]CustomerProfileResponse, 0, len(views))
	for _, v := range views {
		out = append(out, CustomerProfileResponse{
			User:       v.UserID,
			Username:   v.Username,
			FirstName:  v.FirstName,
			LastName:   v.LastName,
			File:       fileName(v.File),
			UploadedAt: v.CreatedAt,
			Type:       v.Type,
		})
	}
	return out
}
