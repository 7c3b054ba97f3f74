package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

var registerTagNames sync.Once

// RegisterValidatorTagNames makes validator errors report JSON field names
func RegisterValidatorTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// BindingError converts a gin binding failure into an application error
func BindingError(err error) error {
	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		maxBytes       *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytes):
		return apperrors.ErrPayloadTooLarge
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		first := validationErrs[0]
		return apperrors.NewValidationError(first.Field(), formatValidationError(first))
	case errors.As(err, &typeErr):
		return apperrors.NewValidationError(typeErr.Field, "Field '"+typeErr.Field+"' has the wrong type.")
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewValidationError("", "Invalid request body.")
	default:
		return apperrors.NewValidationError("", "Invalid request body.")
	}
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Field '" + e.Field() + "' is required."
	case "min":
		return "Field '" + e.Field() + "' must be at least " + e.Param() + "."
	case "max":
		return "Field '" + e.Field() + "' must be at most " + e.Param() + "."
	case "oneof":
		return "Field '" + e.Field() + "' must be one of: " + e.Param() + "."
	default:
		return "Field '" + e.Field() + "' is invalid."
	}
}
