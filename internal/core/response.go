// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type PaginatedBody struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  any `json:"results"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, results any, page, pageSize, total int) {
	OK(w, PaginatedBody{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  results,
	})
}

// JSONError writes err with the status it carries. Validation failures are
// written as the bare field map; everything else as {detail, code}.
func JSONError(w http.ResponseWriter, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		InternalServerError(w, err)
		return
	}

	if appErr.StatusCode == http.StatusBadRequest && len(appErr.Fields) > 0 {
		JSON(w, http.StatusBadRequest, appErr.Fields)
		return
	}

	JSON(w, appErr.StatusCode, ErrorBody{
		Detail: appErr.Message,
		Code:   appErr.Code,
	})
}

// HandleError maps service errors onto responses: AppErrors keep their
// status, bare sentinels get their default one, anything else is a 500.
func HandleError(w http.ResponseWriter, err error, resource string) {
	switch {
	case IsAppError(err):
		JSONError(w, err)
	case errors.Is(err, ErrNotFound):
		NotFound(w, resource)
	case errors.Is(err, ErrForbidden):
		Forbidden(w, "")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenInvalid):
		Unauthorized(w, "")
	case errors.Is(err, ErrInvalidInput):
		BadRequest(w, err.Error())
	default:
		InternalServerError(w, err)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, FieldError(NonFieldErrors, message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	JSON(w, http.StatusInternalServerError, ErrorBody{
		Detail: "internal server error",
		Code:   "INTERNAL_ERROR",
	})
}
