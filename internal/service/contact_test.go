package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/deppfellow/odoo-bridge/internal/errs"
	"github.com/deppfellow/odoo-bridge/internal/model"
	"github.com/deppfellow/odoo-bridge/internal/odoo"
	"github.com/deppfellow/odoo-bridge/internal/odoo/odootest"
	"github.com/deppfellow/odoo-bridge/internal/server"
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

func newService(t *testing.T, odooCfg config.OdooConfig, dial odoo.Dialer) *ContactService {
	t.Helper()
	return newServiceWithNotify(t, odooCfg, config.NotifyConfig{}, dial)
}

func newServiceWithNotify(t *testing.T, odooCfg config.OdooConfig, notify config.NotifyConfig, dial odoo.Dialer) *ContactService {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{Odoo: odooCfg, Notify: notify}

	s, err := server.NewWithDialer(cfg, &logger, nil, dial)
	require.NoError(t, err)

	services, err := NewService(s)
	require.NoError(t, err)

	return services.Contact
}

var submission = model.Submission{
	Name:       "Ada Lovelace",
	Phone:      "0612345678",
	Country:    "France",
	CountryISO: "FR",
	Email:      "ada@example.org",
}

func TestCreate_NotConfigured(t *testing.T) {
	dial := func(endpoint string) (odoo.Caller, error) {
		t.Fatalf("unexpected dial to %s", endpoint)
		return nil, nil
	}

	svc := newService(t, config.OdooConfig{URL: "http://odoo.invalid", DB: "bridge"}, dial)

	id, err := svc.Create(context.Background(), submission)
	assert.Zero(t, id)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, "Bridge prêt mais variables Odoo manquantes.", httpErr.Message)
}

func TestCreate_Success(t *testing.T) {
	fake := odootest.NewServer(
		odootest.WithCountry("FR", "France", 75),
		odootest.WithNextPartnerID(901),
	)
	defer fake.Close()

	svc := newService(t, fake.Config(), nil)

	id, err := svc.Create(context.Background(), submission)
	require.NoError(t, err)
	assert.Equal(t, int64(901), id)

	require.Len(t, fake.Partners(), 1)
	assert.Equal(t, int64(75), fake.Partners()[0]["country_id"])
	assert.Len(t, fake.CallsFor("res.country"), 1)
}

func TestCreate_RemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		opts    []odootest.Option
		message string
	}{
		{
			name:    "authentication rejected",
			opts:    []odootest.Option{odootest.WithUID(false)},
			message: "Erreur lors de la création Odoo : Authentification Odoo échouée.",
		},
		{
			name:    "object call fault",
			opts:    []odootest.Option{odootest.WithObjectFault("res.partner: access denied")},
			message: "res.partner: access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := odootest.NewServer(tt.opts...)
			defer fake.Close()

			svc := newService(t, fake.Config(), nil)

			_, err := svc.Create(context.Background(), submission)

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadGateway, httpErr.Status)
			assert.Contains(t, httpErr.Message, "Erreur lors de la création Odoo : ")
			assert.Contains(t, httpErr.Message, tt.message)
			assert.Empty(t, fake.Partners())
		})
	}
}

func TestCreate_Unreachable(t *testing.T) {
	fake := odootest.NewServer()
	cfg := fake.Config()
	fake.Close()

	svc := newService(t, cfg, nil)

	_, err := svc.Create(context.Background(), submission)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
}

// resendStub answers every /emails call with status and counts the calls.
func resendStub(t *testing.T, status int) (config.NotifyConfig, *atomic.Int32) {
	t.Helper()

	var sent atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/emails" {
			sent.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"id":"email_1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	t.Cleanup(srv.Close)

	return config.NotifyConfig{
		ResendAPIKey:  "re_test",
		To:            "owner@example.org",
		From:          "Bridge <bridge@example.org>",
		ResendBaseURL: srv.URL,
	}, &sent
}

func TestCreate_NotifiesOwner(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"email accepted", http.StatusOK},
		{"email rejected does not fail the request", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := odootest.NewServer(
				odootest.WithCountry("FR", "France", 75),
				odootest.WithNextPartnerID(902),
			)
			defer fake.Close()

			notify, sent := resendStub(t, tt.status)
			svc := newServiceWithNotify(t, fake.Config(), notify, nil)
			require.NotNil(t, svc.server.Notifier)

			id, err := svc.Create(context.Background(), submission)
			require.NoError(t, err)
			assert.Equal(t, int64(902), id)
			assert.Equal(t, int32(1), sent.Load())
			assert.Len(t, fake.Partners(), 1)
		})
	}
}

func TestCreate_NoEmailWhenOdooFails(t *testing.T) {
	fake := odootest.NewServer(odootest.WithUID(false))
	defer fake.Close()

	notify, sent := resendStub(t, http.StatusOK)
	svc := newServiceWithNotify(t, fake.Config(), notify, nil)

	_, err := svc.Create(context.Background(), submission)
	require.Error(t, err)
	assert.Zero(t, sent.Load())
}
