package handler

import (
	"net/http"

	"github.com/deppfellow/odoo-bridge/internal/middleware"
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthResponse is the /health body.
type HealthResponse struct {
	Status         string `json:"status"`
	OdooConfigured bool   `json:"odoo_configured"`
}

// HealthHandler exposes a liveness endpoint for uptime monitors and load
// balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth always answers 200 while the process is up.
//
// odoo_configured only reports whether every ODOO_* setting is present; it
// never contacts Odoo.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	configured := h.server.Config.Odoo.IsComplete()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	if !configured {
		logger.Debug().
			Strs("missing", h.server.Config.Odoo.MissingVars()).
			Msg("health check with incomplete odoo configuration")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckWarning",
				map[string]interface{}{
					"check_type": "odoo_config",
					"operation":  "health_check",
					"missing":    len(h.server.Config.Odoo.MissingVars()),
				},
			)
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:         "ok",
		OdooConfigured: configured,
	})
}
