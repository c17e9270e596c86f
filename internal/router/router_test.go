package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/deppfellow/odoo-bridge/internal/handler"
	"github.com/deppfellow/odoo-bridge/internal/middleware"
	"github.com/deppfellow/odoo-bridge/internal/odoo/odootest"
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/deppfellow/odoo-bridge/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const validBody = `{
	"name": "Ada Lovelace",
	"phone": "+33 6 12 34 56 78",
	"country": "France",
	"country_iso": "FR",
	"email": "ada@example.org",
	"comments": "Bonjour",
	"interests": ["jazz", "tennis"]
}`

func newTestRouter(t *testing.T, odooCfg config.OdooConfig) *echo.Echo {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>Contact</h1>"), 0o644))

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			StaticDir:          staticDir,
			CORSAllowedOrigins: []string{"*"},
			BodyLimit:          "1K",
		},
		Odoo: odooCfg,
	}

	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewService(s)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(r *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	fake := odootest.NewServer()
	defer fake.Close()

	t.Run("configured", func(t *testing.T) {
		rec := do(newTestRouter(t, fake.Config()), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","odoo_configured":true}`, rec.Body.String())
	})

	t.Run("not configured", func(t *testing.T) {
		rec := do(newTestRouter(t, config.OdooConfig{}), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","odoo_configured":false}`, rec.Body.String())
	})

	assert.Empty(t, fake.Calls(), "health must not contact odoo")
}

func TestCreateContact_Created(t *testing.T) {
	fake := odootest.NewServer(
		odootest.WithCountry("FR", "France", 75),
		odootest.WithNextPartnerID(314),
	)
	defer fake.Close()

	rec := do(newTestRouter(t, fake.Config()), http.MethodPost, "/api/contacts", validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"id":314}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	require.Len(t, fake.Partners(), 1)
	assert.Equal(t, map[string]interface{}{
		"name":                      "Ada Lovelace",
		"phone":                     "+33 6 12 34 56 78",
		"email":                     "ada@example.org",
		"street":                    false,
		"comment":                   "Bonjour\n\n---\nCentres d'intérêt : jazz, tennis",
		"country_id":                int64(75),
		"x_studio_centre_dinterets": "jazz, tennis",
	}, fake.Partners()[0])
}

func TestCreateContact_ValidationFailsBeforeOdoo(t *testing.T) {
	fake := odootest.NewServer()
	defer fake.Close()

	r := newTestRouter(t, fake.Config())

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing fields",
			body: `{"name":"  ","email":"nope"}`,
			want: `{"success":false,"errors":[
				"Le champ 'name' est requis.",
				"Le champ 'phone' est requis.",
				"Le champ 'country' est requis.",
				"Le champ 'email' doit contenir un '@'."
			]}`,
		},
		{
			name: "non-object payload",
			body: `[1,2,3]`,
			want: `{"success":false,"errors":["Payload JSON invalide."]}`,
		},
		{
			name: "empty body",
			body: "",
			want: `{"success":false,"errors":["Payload JSON invalide."]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/contacts", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}

	assert.Empty(t, fake.Calls())
}

func TestCreateContact_NotConfigured(t *testing.T) {
	rec := do(newTestRouter(t, config.OdooConfig{URL: "http://odoo.invalid"}), http.MethodPost, "/api/contacts", validBody)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Bridge prêt mais variables Odoo manquantes."}`, rec.Body.String())
}

func TestCreateContact_ValidationWinsOverMissingConfig(t *testing.T) {
	rec := do(newTestRouter(t, config.OdooConfig{}), http.MethodPost, "/api/contacts", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateContact_BadGateway(t *testing.T) {
	fake := odootest.NewServer(odootest.WithUID(false))
	defer fake.Close()

	rec := do(newTestRouter(t, fake.Config()), http.MethodPost, "/api/contacts", validBody)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Erreur lors de la création Odoo : Authentification Odoo échouée."}`, rec.Body.String())
}

func TestCreateContact_BodyTooLarge(t *testing.T) {
	fake := odootest.NewServer()
	defer fake.Close()

	body := `{"name":"Ada","phone":"0612","country":"France","comments":"` + strings.Repeat("x", 2048) + `"}`
	rec := do(newTestRouter(t, fake.Config()), http.MethodPost, "/api/contacts", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Request Entity Too Large"}`, rec.Body.String())
	assert.Empty(t, fake.Calls())
}

func TestStaticIndex(t *testing.T) {
	r := newTestRouter(t, config.OdooConfig{})

	rec := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Contact</h1>")

	rec = do(r, http.MethodGet, "/missing.html", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Route not found"}`, rec.Body.String())
}
