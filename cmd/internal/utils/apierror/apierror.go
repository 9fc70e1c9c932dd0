package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error shape services hand back to routes: a JSON body
// plus the HTTP status it should be sent with.
type ErrorResponse interface {
	Code() int
}

type simpleError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *simpleError) Code() int { return e.StatusCode }

var (
	InternalServerError    = NewSimple(http.StatusInternalServerError, "Something went wrong on our side")
	NotFoundError          = NewSimple(http.StatusNotFound, "Resource not found")
	MalformedBodyError     = NewSimple(http.StatusBadRequest, "Malformed request body")
	InvalidAuthTokenError  = NewSimple(http.StatusUnauthorized, "Invalid or missing auth token")
	AccessDeniedError      = NewSimple(http.StatusForbidden, "Access denied")
	SlotTakenError         = NewSimple(http.StatusConflict, "That appointment slot is already taken")
	InvalidDateError       = NewSimple(http.StatusBadRequest, "Date must be a valid YYYY-MM-DD calendar date")
	InvalidSlotError       = NewSimple(http.StatusBadRequest, "Slot must be Morning or Evening")
	InvalidStatusError     = NewSimple(http.StatusBadRequest, "Unknown appointment status")
	UserAlreadyExistsError = NewSimple(http.StatusConflict, "Email already registered")
	UsernameTakenError     = NewSimple(http.StatusConflict, "Username already taken")
	DepartmentExistsError  = NewSimple(http.StatusConflict, "Department already exists")
	CredentialsError       = NewSimple(http.StatusUnauthorized, "Incorrect email or password")
	AccountDeactivatedError = NewSimple(http.StatusForbidden, "Your account has been deactivated. Contact admin")
)

func NewSimple(code int, message string) ErrorResponse {
	return &simpleError{StatusCode: code, Message: message}
}

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter %q", name))
}

func NewInvalidParamTypeError(name, expected string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %q must be of type %s", name, expected))
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type validationError struct {
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

func (e *validationError) Code() int { return http.StatusBadRequest }

// FromValidationError converts validator.v10 output into a 400 response with
// one entry per failed field.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	resp := &validationError{Message: "Validation failed"}
	for _, fe := range verrs {
		resp.Fields = append(resp.Fields, fieldError{
			Field:  strings.ToLower(fe.Field()),
			Reason: reasonFor(fe),
		})
	}
	return resp
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "isodate":
		return "must be a YYYY-MM-DD date"
	case "slotlabel":
		return "must be Morning or Evening"
	case "hasupper":
		return "must contain an uppercase letter"
	case "haslower":
		return "must contain a lowercase letter"
	case "hasdigit":
		return "must contain a digit"
	case "hasspecial":
		return "must contain a special character"
	case "nospaces":
		return "must not contain spaces"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
