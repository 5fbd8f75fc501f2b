// Package validator decodes and validates JSON request bodies with
// go-playground/validator, reporting failures per JSON field name.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/ghuser/playcatalog/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so clients see the keys they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return v
}

// messages maps validator tags to client-facing text. %s receives the tag param.
var messages = map[string]string{
	"required": "This field is required",
	"notblank": "Must not be blank",
	"uuid":     "Must be a valid UUID",
	"uuid4":    "Must be a valid UUID",
	"min":      "Minimum length is %s",
	"max":      "Maximum length is %s",
	"email":    "Must be a valid email address",
	"url":      "Must be a valid URL",
	"numeric":  "Must be a numeric value",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lt":       "Must be less than %s",
	"lte":      "Must be less than or equal to %s",
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message. Other errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = formatFieldError(fe)
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	msg, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes the error response itself if either step fails: 413 for bodies over
// the router's limit, 400 for malformed JSON or failed rules. Fields the
// request type does not declare are ignored.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
