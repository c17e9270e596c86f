// Package odoo talks to an Odoo server over its XML-RPC API.
//
// A Connector is built once from configuration. Every request then calls
// Authenticate to obtain a fresh Session, uses it for a few calls and
// closes it; sessions are never pooled or reused.
package odoo

import (
	"net/http"
	"strings"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/kolo/xmlrpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	commonPath = "/xmlrpc/2/common"
	objectPath = "/xmlrpc/2/object"
)

// ErrAuthenticationFailed is returned when Odoo answers authenticate with a
// falsy uid (wrong credentials or unknown database).
var ErrAuthenticationFailed = errors.New("Authentification Odoo échouée.")

// Caller issues XML-RPC calls against a single endpoint.
//
// *xmlrpc.Client satisfies it. A []interface{} args value is sent as
// separate positional params.
type Caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
	Close() error
}

// Dialer opens a Caller for an endpoint URL.
type Dialer func(endpoint string) (Caller, error)

// XMLRPCDialer returns a Dialer backed by kolo/xmlrpc. A nil transport uses
// http.DefaultTransport.
func XMLRPCDialer(transport http.RoundTripper) Dialer {
	return func(endpoint string) (Caller, error) {
		client, err := xmlrpc.NewClient(endpoint, transport)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Connector authenticates against one Odoo database.
type Connector struct {
	cfg    config.OdooConfig
	dial   Dialer
	logger *zerolog.Logger
}

// NewConnector builds a Connector. A nil dial uses XMLRPCDialer(nil).
func NewConnector(cfg config.OdooConfig, dial Dialer, logger *zerolog.Logger) *Connector {
	if dial == nil {
		dial = XMLRPCDialer(nil)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Connector{
		cfg:    cfg,
		dial:   dial,
		logger: logger,
	}
}

// Configured reports whether every connection setting is present.
func (c *Connector) Configured() bool {
	return c.cfg.IsComplete()
}

// Config returns the connection settings.
func (c *Connector) Config() config.OdooConfig {
	return c.cfg
}

// Authenticate logs in through the common endpoint and opens the object
// endpoint for the returned uid. The caller must Close the session.
func (c *Connector) Authenticate() (*Session, error) {
	common, err := c.dial(endpoint(c.cfg.URL, commonPath))
	if err != nil {
		return nil, errors.Wrap(err, "open common endpoint")
	}
	defer common.Close()

	var reply interface{}
	args := []interface{}{c.cfg.DB, c.cfg.User, c.cfg.Password, map[string]interface{}{}}
	if err := common.Call("authenticate", args, &reply); err != nil {
		return nil, err
	}

	uid, ok := asID(reply)
	if !ok || uid == 0 {
		c.logger.Warn().
			Str("db", c.cfg.DB).
			Str("user", c.cfg.User).
			Msg("odoo rejected credentials")
		return nil, ErrAuthenticationFailed
	}

	models, err := c.dial(endpoint(c.cfg.URL, objectPath))
	if err != nil {
		return nil, errors.Wrap(err, "open object endpoint")
	}

	c.logger.Debug().Int64("uid", uid).Msg("odoo session opened")

	return &Session{
		UID:    uid,
		cfg:    c.cfg,
		models: models,
		logger: c.logger,
	}, nil
}

// Session is an authenticated handle on the object endpoint. It lives for
// one request.
type Session struct {
	UID int64

	cfg    config.OdooConfig
	models Caller
	logger *zerolog.Logger
}

// ExecuteKW invokes method on model with positional args and, when non-nil,
// keyword args.
func (s *Session) ExecuteKW(model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}

	params := []interface{}{s.cfg.DB, s.UID, s.cfg.Password, model, method, args}
	if kwargs != nil {
		params = append(params, kwargs)
	}

	var reply interface{}
	if err := s.models.Call("execute_kw", params, &reply); err != nil {
		return nil, err
	}

	return reply, nil
}

// Close releases the object endpoint client.
func (s *Session) Close() error {
	return s.models.Close()
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// asID converts an XML-RPC integer reply. Odoo answers false instead of an
// id when there is nothing to return.
func asID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case int32:
		return int64(id), true
	default:
		return 0, false
	}
}
