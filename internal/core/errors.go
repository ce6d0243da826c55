// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("referenced row does not exist")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenInvalid = errors.New("token invalid")
)

// NonFieldErrors is the key for validation failures not tied to one field.
const NonFieldErrors = "non_field_errors"

// FieldErrors maps a request field to every message collected for it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		f[field] = append(f[field], messages...)
	}
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Fields     FieldErrors
}

func (e *AppError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Fields)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func ValidationError(fields FieldErrors) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Fields:     fields,
	}
}

func FieldError(field, message string) *AppError {
	return ValidationError(FieldErrors{field: {message}})
}

// DuplicateFieldError reports a unique-constraint violation as a validation
// failure while still matching ErrDuplicateKey.
func DuplicateFieldError(field, message string) *AppError {
	return &AppError{
		Err:        ErrDuplicateKey,
		Message:    "duplicate value",
		StatusCode: http.StatusBadRequest,
		Code:       "DUPLICATE",
		Fields:     FieldErrors{field: {message}},
	}
}

// InvalidReferenceError reports a body field that names a row which does not
// exist. It matches ErrForeignKey.
func InvalidReferenceError(field string, id int64) *AppError {
	return &AppError{
		Err:        ErrForeignKey,
		Message:    "invalid reference",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Fields: FieldErrors{
			field: {fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, id)},
		},
	}
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Invalid token.", http.StatusUnauthorized, "TOKEN_INVALID")
}
