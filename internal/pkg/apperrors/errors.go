package apperrors

import "errors"

// Error categories. Every error that reaches the HTTP boundary should wrap one of
// these so it can be mapped onto a status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("too many requests")

	// Token errors are reported as 401 with their own message.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Domain errors
var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials")
	ErrStudentNotFound    = NewNotFoundError("Student not found")
	ErrOfficerNotFound    = NewNotFoundError("Officer not found")
	ErrJobNotFound        = NewNotFoundError("Job not found")
	ErrApplicationMissing = NewNotFoundError("Application not found")
	ErrNotificationAbsent = NewNotFoundError("Notification not found")
	ErrStudentExists      = NewConflictError("Email or university roll already exists")
	ErrOfficerExists      = NewConflictError("Email already exists")
	ErrAlreadyApplied     = NewConflictError("Already applied to this job")
	ErrNotEligible        = NewForbiddenError("Not eligible for this job")
	ErrResumeRequired     = NewValidationError("Resume file required")
)

// CustomError carries a user facing message on top of an error category.
type CustomError struct {
	Err     error
	Message string
	Code    string
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode attaches a machine readable code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

func NewValidationError(message string) *CustomError {
	return NewCustomError(ErrValidation, message)
}

func NewUnauthorizedError(message string) *CustomError {
	return NewCustomError(ErrUnauthorized, message)
}

func NewForbiddenError(message string) *CustomError {
	return NewCustomError(ErrForbidden, message)
}

func NewNotFoundError(message string) *CustomError {
	return NewCustomError(ErrNotFound, message)
}

func NewConflictError(message string) *CustomError {
	return NewCustomError(ErrConflict, message)
}

// Message returns the user facing message of err if it carries one.
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
