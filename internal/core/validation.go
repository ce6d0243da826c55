// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator reports fields by their JSON names so the collected error map
// lines up with the request body.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs v over s and returns every failure keyed by field path.
func ValidateStruct(v *validator.Validate, s any) FieldErrors {
	fields := FieldErrors{}
	if err := v.Struct(s); err != nil {
		fields.Merge(ValidationFields(err))
	}
	return fields
}

func ValidationFields(err error) FieldErrors {
	fields := FieldErrors{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add(NonFieldErrors, err.Error())
		return fields
	}

	for _, fe := range verrs {
		fields.Add(fieldPath(fe.Namespace()), validationMessage(fe))
	}

	return fields
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return InvalidChoice(fmt.Sprint(fe.Value()))
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	}

	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

// InvalidChoice is the message for a value outside a fixed set.
func InvalidChoice(value string) string {
	return fmt.Sprintf("%q is not a valid choice.", value)
}
