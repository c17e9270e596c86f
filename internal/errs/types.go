package errs

import (
	"net/http"
)

func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewValidationError creates a 400 Bad Request carrying every validation
// message, in the order they were produced.
func NewValidationError(messages []string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusBadRequest),
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Errors:  messages,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusNotFound),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewServiceUnavailableError creates a 503 for a dependency the bridge
// knows, before calling it, that it cannot use.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusServiceUnavailable),
		Message: message,
		Status:  http.StatusServiceUnavailable,
	}
}

// NewBadGatewayError creates a 502 for a failure reported by (or while
// talking to) the remote system. cause is kept for logs.
func NewBadGatewayError(message string, cause error) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusBadGateway),
		Message: message,
		Status:  http.StatusBadGateway,
		cause:   cause,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, not the real internal error.
func NewInternalServerError(cause error) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
		cause:   cause,
	}
}
