package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_003"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_004"
	ErrorCodeForbidden          ErrorCode = "AUTH_005"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	// Request errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeRateLimited      ErrorCode = "REQ_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// MissingFieldsMessage is returned when required input fields are absent
const MissingFieldsMessage = "All fields required"

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string    `json:"error" example:"Invalid credentials"`
	Code  ErrorCode `json:"code,omitempty" example:"AUTH_001"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}

// HandleValidationError turns a binding error into a single readable message.
// A missing required field yields missingMsg so handlers can keep their
// established wording.
func HandleValidationError(err error, missingMsg string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return missingMsg
			}
		}
		return formatFieldError(verrs[0])
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Malformed JSON body"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}

	if err != nil && strings.Contains(err.Error(), "EOF") {
		return missingMsg
	}

	return "Invalid request format"
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "lte":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}

// RegisterTagNames makes validator report json (or form) names instead of Go
// field names.
func RegisterTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
}
