// Package odootest provides an in-process Odoo XML-RPC server for tests.
//
// It understands the calls the bridge makes: authenticate on the common
// endpoint, and execute_kw search on res.country and create on res.partner
// on the object endpoint. Every call is recorded.
package odootest

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/deppfellow/odoo-bridge/internal/config"
)

const (
	DB       = "bridge"
	User     = "bot@example.org"
	Password = "secret"
)

// Call is one recorded XML-RPC request.
type Call struct {
	Path   string
	Method string
	Params []interface{}
}

// Model returns the model name of an execute_kw call, "" otherwise.
func (c Call) Model() string {
	if c.Method != "execute_kw" || len(c.Params) < 6 {
		return ""
	}
	s, _ := c.Params[3].(string)
	return s
}

// Operation returns the model method of an execute_kw call, "" otherwise.
func (c Call) Operation() string {
	if c.Method != "execute_kw" || len(c.Params) < 6 {
		return ""
	}
	s, _ := c.Params[4].(string)
	return s
}

// Domain returns the first leaf of a search domain as field, operator, value.
func (c Call) Domain() []interface{} {
	if len(c.Params) < 6 {
		return nil
	}
	args, _ := c.Params[5].([]interface{})
	if len(args) == 0 {
		return nil
	}
	domain, _ := args[0].([]interface{})
	if len(domain) == 0 {
		return nil
	}
	leaf, _ := domain[0].([]interface{})
	return leaf
}

// Kwargs returns the keyword arguments of an execute_kw call, if any.
func (c Call) Kwargs() map[string]interface{} {
	if len(c.Params) < 7 {
		return nil
	}
	kw, _ := c.Params[6].(map[string]interface{})
	return kw
}

// Server is a fake Odoo.
type Server struct {
	*httptest.Server

	uid           interface{}
	countries     map[string]int64
	countryNames  map[string]int64
	nextPartnerID int64
	authFault     string
	objectFault   string

	mu       sync.Mutex
	calls    []Call
	partners []map[string]interface{}
}

// Option configures a Server before it starts.
type Option func(*Server)

// WithUID sets the authenticate reply; pass false to reject every login.
func WithUID(uid interface{}) Option {
	return func(s *Server) { s.uid = uid }
}

// WithCountry registers a res.country searchable by code and by name.
func WithCountry(code, name string, id int64) Option {
	return func(s *Server) {
		if code != "" {
			s.countries[code] = id
		}
		if name != "" {
			s.countryNames[name] = id
		}
	}
}

// WithNextPartnerID sets the id returned by the first create.
func WithNextPartnerID(id int64) Option {
	return func(s *Server) { s.nextPartnerID = id }
}

// WithAuthFault makes authenticate answer with a fault.
func WithAuthFault(message string) Option {
	return func(s *Server) { s.authFault = message }
}

// WithObjectFault makes every execute_kw answer with a fault.
func WithObjectFault(message string) Option {
	return func(s *Server) { s.objectFault = message }
}

// NewServer starts a fake Odoo that accepts the credentials in Config.
func NewServer(opts ...Option) *Server {
	s := &Server{
		uid:           int64(2),
		countries:     map[string]int64{},
		countryNames:  map[string]int64{},
		nextPartnerID: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Config returns connection settings pointing at the fake.
func (s *Server) Config() config.OdooConfig {
	return config.OdooConfig{
		URL:      s.URL,
		DB:       DB,
		User:     User,
		Password: Password,
	}
}

// Calls returns every recorded call in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsFor returns the execute_kw calls made on model.
func (s *Server) CallsFor(model string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Model() == model {
			out = append(out, c)
		}
	}
	return out
}

// Partners returns the values of every created res.partner.
func (s *Server) Partners() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]interface{}, len(s.partners))
	copy(out, s.partners)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req methodCall
	if err := xml.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]interface{}, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, p.native())
	}

	call := Call{Path: r.URL.Path, Method: req.Name, Params: params}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")

	switch {
	case r.URL.Path == "/xmlrpc/2/common" && call.Method == "authenticate":
		s.authenticate(w, call)
	case r.URL.Path == "/xmlrpc/2/object" && call.Method == "execute_kw":
		s.execute(w, call)
	default:
		writeFault(w, 1, fmt.Sprintf("unknown method %s on %s", call.Method, r.URL.Path))
	}
}

func (s *Server) authenticate(w http.ResponseWriter, call Call) {
	if s.authFault != "" {
		writeFault(w, 1, s.authFault)
		return
	}

	if len(call.Params) != 4 || call.Params[0] != DB || call.Params[1] != User || call.Params[2] != Password {
		writeValue(w, "<boolean>0</boolean>")
		return
	}

	switch uid := s.uid.(type) {
	case int64:
		writeValue(w, "<int>"+strconv.FormatInt(uid, 10)+"</int>")
	default:
		writeValue(w, "<boolean>0</boolean>")
	}
}

func (s *Server) execute(w http.ResponseWriter, call Call) {
	if s.objectFault != "" {
		writeFault(w, 2, s.objectFault)
		return
	}

	switch call.Model() + "." + call.Operation() {
	case "res.country.search":
		leaf := call.Domain()
		if len(leaf) != 3 {
			writeFault(w, 2, "invalid domain")
			return
		}
		field, _ := leaf[0].(string)
		op, _ := leaf[1].(string)
		value, _ := leaf[2].(string)

		var ids []int64
		if id, ok := s.searchCountry(field, op, value); ok {
			ids = append(ids, id)
		}
		writeIDs(w, ids)

	case "res.partner.create":
		args, _ := call.Params[5].([]interface{})
		if len(args) != 1 {
			writeFault(w, 2, "create expects one values dict")
			return
		}
		values, _ := args[0].(map[string]interface{})

		s.mu.Lock()
		s.partners = append(s.partners, values)
		id := s.nextPartnerID
		s.nextPartnerID++
		s.mu.Unlock()

		writeValue(w, "<int>"+strconv.FormatInt(id, 10)+"</int>")

	default:
		writeFault(w, 2, "unsupported call "+call.Model()+"."+call.Operation())
	}
}

func (s *Server) searchCountry(field, op, value string) (int64, bool) {
	switch {
	case field == "code" && op == "=":
		id, ok := s.countries[value]
		return id, ok

	case field == "name" && op == "ilike":
		names := make([]string, 0, len(s.countryNames))
		for name := range s.countryNames {
			names = append(names, name)
		}
		sort.Strings(names)

		needle := strings.ToLower(value)
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), needle) {
				return s.countryNames[name], true
			}
		}
	}

	return 0, false
}

func writeIDs(w io.Writer, ids []int64) {
	var b strings.Builder
	b.WriteString("<array><data>")
	for _, id := range ids {
		b.WriteString("<value><int>" + strconv.FormatInt(id, 10) + "</int></value>")
	}
	b.WriteString("</data></array>")
	writeValue(w, b.String())
}

func writeValue(w io.Writer, value string) {
	fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><params><param><value>%s</value></param></params></methodResponse>`, value)
}

func writeFault(w io.Writer, code int, message string) {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(message))

	fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><fault><value><struct>`+
		`<member><name>faultCode</name><value><int>%d</int></value></member>`+
		`<member><name>faultString</name><value><string>%s</string></value></member>`+
		`</struct></value></fault></methodResponse>`, code, escaped.String())
}

type methodCall struct {
	Name   string  `xml:"methodName"`
	Params []value `xml:"params>param>value"`
}

type value struct {
	String  *string    `xml:"string"`
	Int     *string    `xml:"int"`
	I4      *string    `xml:"i4"`
	I8      *string    `xml:"i8"`
	Boolean *string    `xml:"boolean"`
	Double  *string    `xml:"double"`
	Array   *xmlArray  `xml:"array"`
	Struct  *xmlStruct `xml:"struct"`
	Text    string     `xml:",chardata"`
}

type xmlArray struct {
	Values []value `xml:"data>value"`
}

type xmlStruct struct {
	Members []member `xml:"member"`
}

type member struct {
	Name  string `xml:"name"`
	Value value  `xml:"value"`
}

func (v value) native() interface{} {
	switch {
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return parseInt(*v.Int)
	case v.I4 != nil:
		return parseInt(*v.I4)
	case v.I8 != nil:
		return parseInt(*v.I8)
	case v.Boolean != nil:
		return strings.TrimSpace(*v.Boolean) == "1"
	case v.Double != nil:
		f, _ := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		return f
	case v.Array != nil:
		out := make([]interface{}, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			out = append(out, item.native())
		}
		return out
	case v.Struct != nil:
		out := make(map[string]interface{}, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			out[m.Name] = m.Value.native()
		}
		return out
	default:
		return v.Text
	}
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
