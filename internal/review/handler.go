// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"net/http"
	"net/url"
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

		r.Get("/reviews", h.List)
		r.Post("/reviews", h.Create)
		r.Get("/reviews/{reviewID}", h.Get)
		r.Put("/reviews/{reviewID}", h.Replace)
		r.Patch("/reviews/{reviewID}", h.Patch)
		r.Delete("/reviews/{reviewID}", h.Delete)
	})
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	return id, err == nil && id > 0
}

func parseListParams(q url.Values) (ListParams, core.FieldErrors) {
	fields := core.FieldErrors{}
	params := ListParams{Ordering: Ordering(q.Get("ordering"))}

	parse := func(name string) *int64 {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fields.Add(name, "Enter a number.")
			return nil
		}
		return &id
	}

	params.BusinessUserID = parse("business_user_id")
	params.ReviewerID = parse("reviewer_id")

	return params, fields
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListParams(r.URL.Query())
	if !fields.Empty() {
		core.JSONError(w, core.ValidationError(fields))
		return
	}

	reviews, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToReviewResponses(reviews))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	rev, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		core.HandleError(w, err, "review")
		return
	}

	core.Created(w, ToReviewResponse(rev))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		core.NotFound(w, "review")
		return
	}

	rev, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := idParam(r)
	if !ok {
		core.NotFound(w, "review")
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	rev, err := h.service.Update(r.Context(), principal, id, req, partial)
	if err != nil {
		core.HandleError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		core.NotFound(w, "review")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		core.HandleError(w, err, "review")
		return
	}

	core.NoContent(w)
}
