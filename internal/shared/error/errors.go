package error

import (
	"errors"
	"net/http"
)

type DomainError interface {
	error // Embed standard error interface
	Info() string
}

type domainSentinel struct {
	errInfo string
}

func (e *domainSentinel) Error() string {
	return e.errInfo
}

func (e *domainSentinel) Info() string {
	return e.errInfo
}

// ErrorResponse is the JSON response structure for errors
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"` // client message
}

const (
	validationFailed = "VALIDATION_FAILED" // errInfo
	conflict         = "CONFLICT"          // errInfo
)

// Common errors
var (
	domainErrorResponses = map[string]ErrorResponse{}

	// ValidationFailed indicates the request payload failed validation
	ValidationFailed = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-001", // METHOD_ARGUMENT_NOT_VALID
		Message: "The request is invalid.",
	}

	// InvalidRequest indicates the request format is invalid (e.g., JSON parsing error)
	InvalidRequest = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-002", // INVALID_REQUEST
		Message: "The request body could not be read.",
	}

	// InternalServerError indicates an unexpected server error
	InternalServerError = ErrorResponse{
		Status:  http.StatusInternalServerError,
		Code:    "ERROR-003", // INTERNAL_SERVER_ERROR
		Message: "An internal server error occurred.",
	}

	// ConflictDetected signals a store invariant check that rejected a write.
	ConflictDetected = ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "ERROR-004",
		Message: "The record was changed by another request.",
	}

	// ErrValidation marks missing or malformed required input. No state is written.
	ErrValidation = NewDomainError(validationFailed)
	// ErrConflict marks a write rejected by a store-level invariant.
	ErrConflict = NewDomainError(conflict)
)

func init() {
	RegisterDomainErrorResponse(validationFailed, ValidationFailed)
	RegisterDomainErrorResponse(conflict, ConflictDetected)
}

// NewDomainError creates a sentinel error that can participate in error chains.
func NewDomainError(errInfo string) DomainError {
	return &domainSentinel{errInfo: errInfo}
}

// RegisterDomainErrorResponse registers a mapping between a domain error errInfo and a shared error response.
func RegisterDomainErrorResponse(errInfo string, resp ErrorResponse) {
	domainErrorResponses[errInfo] = resp
}

// messageError attaches a client-facing message to a domain error.
type messageError struct {
	err     DomainError
	message string
}

func (e *messageError) Error() string {
	return e.message + ": " + e.err.Error()
}

func (e *messageError) Unwrap() error {
	return e.err
}

// WithMessage wraps err so the resolved response carries message instead of
// the registered default.
//
// Usage:
//
//	return sharedError.WithMessage(sharedError.ErrValidation, "name is required")
func WithMessage(err DomainError, message string) error {
	return &messageError{err: err, message: message}
}

// ResolveDomainError converts a domain error into a shared error response if a mapping exists.
func ResolveDomainError(err error) (ErrorResponse, bool) {
	if err == nil {
		return ErrorResponse{}, false
	}

	var domainErr DomainError
	if errors.As(err, &domainErr) {
		if resp, ok := domainErrorResponses[domainErr.Info()]; ok {
			var msgErr *messageError
			if errors.As(err, &msgErr) {
				resp.Message = msgErr.message
			}
			return resp, true
		}
	}
	return ErrorResponse{}, false
}

// ClientMessage returns the message a caller should see for err.
func ClientMessage(err error) string {
	if resp, ok := ResolveDomainError(err); ok {
		return resp.Message
	}
	return InternalServerError.Message
}
