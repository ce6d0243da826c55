// AngelaMos | 2026
// dto.go

package auth

type RegisterRequest struct {
	Username         string `json:"username"          validate:"required,max=150"`
	Email            string `json:"email"             validate:"required,email,max=254"`
	Password         string `json:"password"          validate:"required,max=128"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type"              validate:"required,oneof=business customer"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both registration and login.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}
