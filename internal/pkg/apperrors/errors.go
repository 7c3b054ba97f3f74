package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUnauthorized       = errors.New("authentication required")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrPayloadTooLarge  = errors.New("payload too large")

	// Infrastructure errors
	ErrDatabase = errors.New("database error")
	ErrStorage  = errors.New("storage error")
)

// Student errors
var (
	ErrStudentNotFound        = NewResourceNotFoundError("Student not found.")
	ErrStudentIDAlreadyExists = NewConflictError("Student ID already exists!")
	ErrProgramHasStudents     = NewConflictError("Program has students assigned and cannot be deleted.")
)

// College and program errors
var (
	ErrCollegeNotFound       = NewResourceNotFoundError("College not found.")
	ErrCollegeAlreadyExists  = NewConflictError("College code already exists.")
	ErrCollegeHasPrograms    = NewConflictError("College has programs and cannot be deleted.")
	ErrProgramNotFound       = NewResourceNotFoundError("Program not found.")
	ErrProgramAlreadyExists  = NewConflictError("Program code already exists.")
	ErrUnknownProgramCollege = NewValidationError("college", "College does not exist.")
)

// User and login errors
var (
	ErrUserNotFound          = NewResourceNotFoundError("User not found.")
	ErrUsernameAlreadyExists = NewConflictError("Username already exists.")
	ErrCredentialsRequired   = NewValidationError("", "Username and password are required.")
	ErrPasswordTooLong       = NewValidationError("password", "Password must be at most 72 bytes.")
	ErrLoginFailed           = NewCustomError(ErrInvalidCredentials, "Invalid username or password.")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error bound to a request field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewRequiredFieldError reports a missing required field
func NewRequiredFieldError(field string) error {
	return NewValidationError(field, "Field '"+field+"' is required.")
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// AsCustom returns the outermost CustomError in the chain, if any
func AsCustom(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
