// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/odoo-bridge/internal/handler"
	"github.com/deppfellow/odoo-bridge/internal/middleware"
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware chain and
// every route.
//
// Order matters: the request ID and the New Relic transaction must exist
// before ContextEnhancer builds the request logger, and the logger must
// exist before RequestLogger and Recover use it.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.BodyLimit(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h, s.Config.Server.StaticDir)

	api := router.Group("/api")
	api.POST("/contacts", handler.Handle(
		h.Contact.Handler,
		h.Contact.CreateContact,
		http.StatusCreated,
		handler.NewContactRequest,
	))

	return router
}
