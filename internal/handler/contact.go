package handler

import (
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/deppfellow/odoo-bridge/internal/service"
	"github.com/deppfellow/odoo-bridge/internal/validation"
	"github.com/labstack/echo/v4"
)

// ContactRequest is bound from the raw body so every validation message can
// be reported, whatever the JSON shape.
type ContactRequest struct {
	result validation.Result
}

func NewContactRequest() *ContactRequest {
	return &ContactRequest{}
}

func (r *ContactRequest) BindBody(body []byte) error {
	r.result = validation.ValidateSubmission(body)
	return nil
}

func (r *ContactRequest) Validate() error {
	if !r.result.Valid() {
		return validation.MessageErrors(r.result.Errors)
	}
	return nil
}

// ContactResponse is the 201 body.
type ContactResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type ContactHandler struct {
	Handler
	contacts *service.ContactService
}

func NewContactHandler(s *server.Server, contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler:  NewHandler(s),
		contacts: contacts,
	}
}

func (h *ContactHandler) CreateContact(c echo.Context, req *ContactRequest) (*ContactResponse, error) {
	id, err := h.contacts.Create(c.Request().Context(), req.result.Submission)
	if err != nil {
		return nil, err
	}

	return &ContactResponse{Success: true, ID: id}, nil
}
