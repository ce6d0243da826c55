// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/middleware"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
)

// multipartOverhead is allowed on top of the picture ceiling for the other
// form fields and part headers.
const multipartOverhead = 1 << 20

type Handler struct {
	service         *Service
	maxPictureBytes int64
}

func NewHandler(service *Service, maxPictureBytes int64) *Handler {
	return &Handler{service: service, maxPictureBytes: maxPictureBytes}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profile/{userID}", h.GetProfile)
		r.Patch("/profile/{userID}", h.UpdateProfile)
		r.Get("/profiles/business", h.ListBusinessProfiles)
		r.Get("/profiles/customer", h.ListCustomerProfiles)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		core.NotFound(w, "profile")
		return
	}

	view, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "profile")
		return
	}

	core.OK(w, ToProfileResponse(view))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		core.NotFound(w, "profile")
		return
	}

	principal, _ := middleware.GetPrincipal(r.Context())

	var (
		req     UpdateProfileRequest
		picture *storage.File
	)

	if isMultipart(r) {
		var cleanup func()
		req, picture, cleanup, err = h.parseMultipart(w, r)
		defer cleanup()
		if err != nil {
			core.JSONError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body.")
		return
	}

	view, err := h.service.UpdateProfile(r.Context(), principal, userID, req, picture)
	if err != nil {
		core.HandleError(w, err, "profile")
		return
	}

	core.OK(w, ToProfileResponse(view))
}

func (h *Handler) ListBusinessProfiles(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListProfiles(r.Context(), access.RoleBusiness)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToBusinessProfiles(views))
}

func (h *Handler) ListCustomerProfiles(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListProfiles(r.Context(), access.RoleCustomer)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToCustomerProfiles(views))
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart reads the profile form. The returned cleanup is never nil
// and releases spilled temp files and the upload once the caller is done.
func (h *Handler) parseMultipart(
	w http.ResponseWriter,
	r *http.Request,
) (UpdateProfileRequest, *storage.File, func(), error) {
	var req UpdateProfileRequest
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPictureBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxPictureBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, nil, cleanup, core.FieldError("file", pictureTooLarge(h.maxPictureBytes))
		}
		return req, nil, cleanup, core.FieldError(core.NonFieldErrors, "Invalid multipart body.")
	}

	form := r.MultipartForm
	cleanup = func() {
		_ = form.RemoveAll() //nolint:errcheck // temp file cleanup
	}

	value := func(name string) *string {
		if vals, ok := form.Value[name]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}

	req.FirstName = value("first_name")
	req.LastName = value("last_name")
	req.Email = value("email")
	req.Location = value("location")
	req.Tel = value("tel")
	req.Description = value("description")
	req.WorkingHours = value("working_hours")

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, cleanup, nil
	}
	if err != nil {
		return req, nil, cleanup, core.FieldError("file", "The submitted data was not a file.")
	}

	removeForm := cleanup
	cleanup = func() {
		_ = file.Close() //nolint:errcheck // read-only upload
		removeForm()
	}

	return req, &storage.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, cleanup, nil
}
