package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrAlreadyRegistered is returned when a user holds a registration for the event.
	ErrAlreadyRegistered = errors.New("you are already registered for this event")
	// ErrEventNotFound is returned when the event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventEnded is returned when registering for an ended event.
	ErrEventEnded = errors.New("event has ended")
	// ErrDeadlinePassed is returned when the registration deadline is over.
	ErrDeadlinePassed = errors.New("registration deadline has passed for this event")
	// ErrCapacityExceeded is returned when the event is full.
	ErrCapacityExceeded = errors.New("event reached maximum capacity")
	// ErrScheduleConflict is returned when another event occupies the same location, date and time.
	ErrScheduleConflict = errors.New("another event is scheduled at this location and time")
	// ErrInvalidCredentials is returned on any login failure. Unknown email and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("user already exists")
	// ErrUserNotFound is returned when a user record is missing.
	ErrUserNotFound = errors.New("user not found")
	// ErrRegistrationNotFound is returned when a registration does not exist or
	// is not owned by the caller.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrInvalidResetToken is returned when a password reset token is unknown,
	// expired or already used.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrNoFieldsToUpdate is returned when a profile update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected errors map to
// a generic 500 so internal detail never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_REGISTERED")
	case errors.Is(err, ErrEventNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case errors.Is(err, ErrEventEnded):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EVENT_ENDED")
	case errors.Is(err, ErrDeadlinePassed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DEADLINE_PASSED")
	case errors.Is(err, ErrCapacityExceeded):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CAPACITY_EXCEEDED")
	case errors.Is(err, ErrScheduleConflict):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SCHEDULE_CONFLICT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRegistrationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "REGISTRATION_NOT_FOUND")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RESET_TOKEN")
	case errors.Is(err, ErrNoFieldsToUpdate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_FIELDS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
