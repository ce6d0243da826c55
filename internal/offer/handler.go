// AngelaMos | 2026
// handler.go

package offer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/middleware"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

const multipartOverhead = 1 << 20

type Handler struct {
	service       *Service
	maxImageBytes int64
}

func NewHandler(service *Service, maxImageBytes int64) *Handler {
	return &Handler{service: service, maxImageBytes: maxImageBytes}
}

// RegisterRoutes mounts the offer endpoints. Only the list is public.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/offers", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/offers", h.Create)
		r.Get("/offers/{offerID}", h.Get)
		r.Patch("/offers/{offerID}", h.Update)
		r.Delete("/offers/{offerID}", h.Delete)
		r.Put("/offers/{offerID}/image", h.SetImage)
		r.Get("/offerdetails/{detailID}", h.GetTier)
	})
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListParams(r.URL.Query())
	if !fields.Empty() {
		core.JSONError(w, core.ValidationError(fields))
		return
	}

	params = params.Normalize()

	summaries, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToOfferResponses(summaries, h.service.ImageURL),
		params.Page, params.PageSize, total)
}

func parseListParams(q url.Values) (ListParams, core.FieldErrors) {
	fields := core.FieldErrors{}
	params := ListParams{
		Search:   q.Get("search"),
		Ordering: Ordering(q.Get("ordering")),
	}

	if v := q.Get("creator_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fields.Add("creator_id", "Enter a number.")
		} else {
			params.CreatorID = &id
		}
	}

	if v := q.Get("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			fields.Add("min_price", "Enter a number.")
		} else {
			params.MinPrice = &price
		}
	}

	if v := q.Get("max_delivery_time"); v != "" {
		days, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fields.Add("max_delivery_time", "Enter a number.")
		} else {
			params.MaxDeliveryTime = &days
		}
	}

	for name, dst := range map[string]*int{"page": &params.Page, "page_size": &params.PageSize} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fields.Add(name, "Enter a number.")
			continue
		}
		*dst = n
	}

	return params, fields
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	detail, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		core.HandleError(w, err, "offer")
		return
	}

	core.Created(w, ToOfferDetailResponse(detail, h.service.ImageURL))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "offerID")
	if !ok {
		core.NotFound(w, "offer")
		return
	}

	summary, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "offer")
		return
	}

	core.OK(w, ToOfferResponse(*summary, h.service.ImageURL))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "offerID")
	if !ok {
		core.NotFound(w, "offer")
		return
	}

	var req UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	detail, err := h.service.Update(r.Context(), principal, id, req)
	if err != nil {
		core.HandleError(w, err, "offer")
		return
	}

	core.OK(w, ToOfferDetailResponse(detail, h.service.ImageURL))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "offerID")
	if !ok {
		core.NotFound(w, "offer")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		core.HandleError(w, err, "offer")
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "offerID")
	if !ok {
		core.NotFound(w, "offer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxImageBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.JSONError(w, core.FieldError("image", imageTooLarge(h.maxImageBytes)))
			return
		}
		core.BadRequest(w, "Invalid multipart body.")
		return
	}
	//nolint:errcheck // temp file cleanup
	defer r.MultipartForm.RemoveAll()

	var image *storage.File
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		core.JSONError(w, core.FieldError("image", "The submitted data was not a file."))
		return
	default:
		defer file.Close() //nolint:errcheck // read-only upload
		image = &storage.File{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	detail, err := h.service.SetImage(r.Context(), principal, id, image)
	if err != nil {
		core.HandleError(w, err, "offer")
		return
	}

	core.OK(w, ToOfferDetailResponse(detail, h.service.ImageURL))
}

func (h *Handler) GetTier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "detailID")
	if !ok {
		core.NotFound(w, "offer detail")
		return
	}

	tier, err := h.service.GetTier(r.Context(), id)
	if err != nil {
		core.HandleError(w, err, "offer detail")
		return
	}

	core.OK(w, ToTierResponse(*tier))
}
