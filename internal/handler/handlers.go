// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the..
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler

import (
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/deppfellow/odoo-bridge/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler  // Health reports liveness and whether Odoo is configured.
	Contact *ContactHandler // Contact turns form submissions into Odoo partners.
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Contact: NewContactHandler(s, services.Contact),
	}
}
