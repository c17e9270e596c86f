package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/deppfellow/odoo-bridge/internal/errs"
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		},
		Logger: &logger,
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})

	t.Run("reuses the incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()

		require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})
}

func TestGetLogger_FallsBackToNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
}

func TestEnhanceContext_StoresLoggerInRequestContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	s := testServer()
	s.Logger = &base

	e := echo.New()
	h := RequestID()(NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contacts", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"message":"from service"`)
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error lists messages",
			err:        errs.NewValidationError([]string{"Le champ 'name' est requis."}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"errors":["Le champ 'name' est requis."]}`,
		},
		{
			name:       "bad gateway keeps its message",
			err:        errs.NewBadGatewayError("Erreur lors de la création Odoo : boom", errors.New("boom")),
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"success":false,"error":"Erreur lors de la création Odoo : boom"}`,
		},
		{
			name:       "echo 404",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"error":"Route not found"}`,
		},
		{
			name:       "echo 405",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"success":false,"error":"Method Not Allowed"}`,
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("nil pointer somewhere"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"Internal Server Error"}`,
		},
	}

	global := NewGlobalMiddlewares(testServer())
	e := echo.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/contacts", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
