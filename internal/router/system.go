package router

import (
	"github.com/deppfellow/odoo-bridge/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the contact
// flow: the health probe and the static contact page served at "/".
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, staticDir string) {
	r.GET("/health", h.Health.CheckHealth)

	r.Static("/", staticDir)
}
