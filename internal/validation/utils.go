package validation

import (
	"io"

	"github.com/deppfellow/odoo-bridge/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// RawBodyBinder is implemented by payloads that want the undecoded body
// instead of Echo's struct binding.
type RawBodyBinder interface {
	BindBody(body []byte) error
}

// MessageErrors is a list of human-readable validation messages that satisfies error.
type MessageErrors []string

func (m MessageErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. RawBodyBinder payloads receive the body bytes; others go through c.Bind.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError (400) listing every message if validation fails.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if binder, ok := payload.(RawBodyBinder); ok {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return errs.NewValidationError([]string{msgInvalidPayload})
		}
		if err := binder.BindBody(body); err != nil {
			return errs.NewValidationError([]string{msgInvalidPayload})
		}
	} else if err := c.Bind(payload); err != nil {
		return errs.NewValidationError([]string{msgInvalidPayload})
	}

	if err := payload.Validate(); err != nil {
		if messages, ok := err.(MessageErrors); ok {
			return errs.NewValidationError(messages)
		}
		return errs.NewValidationError([]string{err.Error()})
	}

	return nil
}
