// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the credential endpoints. limiter guards the two
// public ones against guessing.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Post("/registration", h.Register)
		r.Post("/login", h.Login)
	})

	r.With(authenticator).Post("/logout", h.Logout)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.Logout(r.Context(), userID, middleware.ExtractToken(r)); err != nil {
		core.HandleError(w, err, "token")
		return
	}

	core.NoContent(w)
}
