// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/orders", h.List)
		r.Post("/orders", h.Create)
		r.Get("/orders/{orderID}", h.Get)
		r.Put("/orders/{orderID}", h.Update)
		r.Patch("/orders/{orderID}", h.Update)
		r.Delete("/orders/{orderID}", h.Delete)

		r.Get("/order-count/{businessID}", h.InProgressCount)
		r.Get("/order-count/{businessID}/in_progress", h.InProgressCount)
		r.Get("/order-count/{businessID}/completed", h.CompletedCount)
	})
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	views, err := h.service.List(r.Context(), principal)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderResponses(views))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	view, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.Created(w, ToOrderResponse(view))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "orderID")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	view, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToOrderResponse(view))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "orderID")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	view, err := h.service.UpdateStatus(r.Context(), principal, id, req)
	if err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.OK(w, ToOrderResponse(view))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "orderID")
	if !ok {
		core.NotFound(w, "order")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		core.HandleError(w, err, "order")
		return
	}

	core.NoContent(w)
}

func (h *Handler) InProgressCount(w http.ResponseWriter, r *http.Request) {
	n, ok := h.count(w, r, StatusInProgress)
	if !ok {
		return
	}
	core.OK(w, CountResponse{OrderCount: n})
}

func (h *Handler) CompletedCount(w http.ResponseWriter, r *http.Request) {
	n, ok := h.count(w, r, StatusCompleted)
	if !ok {
		return
	}
	core.OK(w, CompletedCountResponse{CompletedOrderCount: n})
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request, status Status) (int, bool) {
	businessID, ok := idParam(r, "businessID")
	if !ok {
		core.NotFound(w, "business user")
		return 0, false
	}

	n, err := h.service.CountForBusiness(r.Context(), businessID, status)
	if err != nil {
		core.HandleError(w, err, "business user")
		return 0, false
	}
	return n, true
}
