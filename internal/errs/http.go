package errs

import (
	"encoding/json"

	"github.com/iancoleman/strcase"
)

// Response is the JSON body written for every failed request.
//
// A validation failure fills Errors; every other failure fills Error.
//
//	{ "success": false, "errors": ["Le champ 'name' est requis."] }
//	{ "success": false, "error": "Bridge prêt mais variables Odoo manquantes." }
type Response struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_GATEWAY"), logged only.
//   - Message: human-friendly message sent as "error".
//   - Status: HTTP status code.
//   - Errors: list of validation messages sent as "errors".
type HTTPError struct {
	Code    string
	Message string
	Status  int
	Errors  []string

	// cause is the underlying error, kept for logging and errors.Is/As.
	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports true for any *HTTPError target.
//
// It does NOT compare Code/Status; it only checks the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
		cause:   e.cause,
	}
}

// Body returns the wire representation of the error.
func (e *HTTPError) Body() Response {
	if len(e.Errors) > 0 {
		return Response{Success: false, Errors: e.Errors}
	}
	return Response{Success: false, Error: e.Message}
}

// MarshalJSON encodes the error in its wire shape.
func (e *HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Body())
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
// Example:
//
//	"Bad Gateway" -> "BAD_GATEWAY"
func MakeUpperCaseWithUnderscores(str string) string {
	return strcase.ToScreamingSnake(str)
}
