// Package dto holds request types and their binding and validation helpers.
package dto

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const jsonTagParts = 2

// Validation errors.
var (
	// ErrValidation indicates a validation failure occurred.
	ErrValidation = errors.New("validation failed")

	// ErrBinding indicates JSON or query binding failed.
	ErrBinding = errors.New("binding failed")

	// ErrUnsupportedMediaType indicates a body that is not JSON.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	errReservedName = errors.New("name is reserved")
)

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		// Register custom validators
		_ = validate.RegisterValidation("uuid", validateUUID)
		_ = validate.RegisterValidation("notempty", validateNotEmpty)
	})

	return validate
}

// Validate validates a struct using the validator instance.
// Returns nil if valid, or an error containing validation failures.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate binds JSON body to the struct and validates it.
// Returns nil on success, or an error for binding/validation failures.
// A body declared with a non-JSON Content-Type is rejected unread.
func BindAndValidate(c *gin.Context, v any) error {
	if ct := c.GetHeader("Content-Type"); ct != "" && !isJSON(ct) {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
	}

	err := c.ShouldBindJSON(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// isJSON reports whether contentType is application/json or a +json type.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// BindQueryAndValidate binds query parameters and validates.
func BindQueryAndValidate(c *gin.Context, v any) error {
	err := c.ShouldBindQuery(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// ValidationErrors extracts field-level error messages from a validator error.
// Returns a map of field names to error messages suitable for API responses.
func ValidationErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fieldName := fieldErr.Field()
			fieldErrors[fieldName] = validationMessage(fieldErr)
		}
	}

	return fieldErrors
}

// ToHTTPError converts a BindAndValidate failure into the error rendered to
// the client: 400 for malformed input, 413 for an oversized body, 415 for a
// non-JSON body, 422 with per-field messages for validation failures.
// Other errors are returned wrapped as a 500.
func ToHTTPError(err error) *exception.HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *exception.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return exception.New(http.StatusRequestEntityTooLarge, "request body too large",
			exception.WithMetadata(map[string]any{"limit": tooLarge.Limit}),
		)

	case errors.Is(err, ErrUnsupportedMediaType):
		return exception.UnsupportedMediaType("request body must be JSON",
			exception.WithMetadata(map[string]any{
				"content_type": strings.TrimPrefix(err.Error(), ErrUnsupportedMediaType.Error()+": "),
			}),
		)

	case errors.Is(err, ErrBinding):
		return exception.BadRequest("request body could not be parsed",
			exception.WithMetadata(map[string]any{"reason": strings.TrimPrefix(err.Error(), ErrBinding.Error()+": ")}),
		)

	case IsValidationError(err):
		return exception.UnprocessableEntity("request validation failed",
			exception.WithMetadata(map[string]any{"fields": ValidationErrors(err)}),
		)

	case errors.Is(err, ErrValidation):
		return exception.UnprocessableEntity(strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))

	default:
		return exception.Wrap(err)
	}
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// validationMessages maps validation tags to message templates.
// Use {param} as placeholder for the validation parameter.
var validationMessages = map[string]string{
	"required": "this field is required",
	"email":    "must be a valid email address",
	"uuid":     "must be a valid UUID",
	"url":      "must be a valid URL",
	"notempty": "must not be empty",
	"gte":      "must be greater than or equal to {param}",
	"lte":      "must be less than or equal to {param}",
	"gt":       "must be greater than {param}",
	"lt":       "must be less than {param}",
	"oneof":    "must be one of: {param}",
}

// validationMessage returns a human-readable message for a validation error.
func validationMessage(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	// Handle min/max with type-aware messages
	if tag == "min" || tag == "max" {
		return minMaxMessage(tag, param, fe.Type().Kind())
	}

	// Look up in message map
	if msg, ok := validationMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "failed validation: " + tag
}

// minMaxMessage returns the appropriate message for min/max validation.
func minMaxMessage(tag, param string, kind reflect.Kind) string {
	suffix := ""
	if kind == reflect.String {
		suffix = " characters"
	}

	if tag == "min" {
		return "must be at least " + param + suffix
	}

	return "must be at most " + param + suffix
}

// validateUUID validates that a string is a valid UUID.
func validateUUID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Empty is ok, use 'required' tag if needed
	}

	_, err := uuid.Parse(value)

	return err == nil
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// Validatable is an interface for types that can perform custom validation.
// Implement this for business rule validation beyond struct tags.
type Validatable interface {
	Validate() error
}

// ValidateAll validates struct tags and calls custom Validate() if implemented.
func ValidateAll(v any) error {
	// First validate struct tags
	err := Validate(v)
	if err != nil {
		return err
	}

	// Then call custom validation if implemented
	if validatable, ok := v.(Validatable); ok {
		err = validatable.Validate()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}
