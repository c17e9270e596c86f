// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env`
// file when one exists), loads them into structured Go types, and
// validates the blocks the bridge cannot run without.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate server and observability values so the app fails fast.
//   - Keep the Odoo connection settings optional: an incomplete Odoo block
//     is reported per request (HTTP 503), never at startup.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is merged into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	`koanf` reads the environment and unmarshals it into Config.

	The bridge keeps the variable names of the deployment it replaces
	(ODOO_URL, PORT, ...), so there is no common prefix to strip. Instead
	every supported variable is listed in envKeys with the koanf key
	("." delimited) it feeds. Variables that are not in the table are
	ignored.
*/

// envKeys maps environment variable names to koanf key paths.
var envKeys = map[string]string{
	"ODOO_URL":      "odoo.url",
	"ODOO_DB":       "odoo.db",
	"ODOO_USER":     "odoo.user",
	"ODOO_PASSWORD": "odoo.password",

	"PORT":                        "server.port",
	"BRIDGE_STATIC_DIR":           "server.static_dir",
	"BRIDGE_CORS_ALLOWED_ORIGINS": "server.cors_allowed_origins",
	"BRIDGE_READ_TIMEOUT":         "server.read_timeout",
	"BRIDGE_WRITE_TIMEOUT":        "server.write_timeout",
	"BRIDGE_IDLE_TIMEOUT":         "server.idle_timeout",
	"BRIDGE_BODY_LIMIT":           "server.body_limit",

	"BRIDGE_ENV": "primary.env",

	"BRIDGE_LOG_LEVEL":       "observability.logging.level",
	"BRIDGE_LOG_FORMAT":      "observability.logging.format",
	"NEW_RELIC_LICENSE_KEY":  "observability.new_relic.license_key",
	"NEW_RELIC_DEBUG":        "observability.new_relic.debug_logging",
	"NEW_RELIC_LOGS_ENABLED": "observability.new_relic.app_log_forwarding_enabled",

	"RESEND_API_KEY":     "notify.resend_api_key",
	"RESEND_BASE_URL":    "notify.resend_base_url",
	"BRIDGE_NOTIFY_TO":   "notify.to",
	"BRIDGE_NOTIFY_FROM": "notify.from",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
// Odoo carries no validate tags: an incomplete block is answered with 503 per request.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Odoo          OdooConfig           `koanf:"odoo"`
	Notify        NotifyConfig         `koanf:"notify"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	StaticDir          string   `koanf:"static_dir" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// BodyLimit caps request bodies, in Echo's size notation ("64K", "1M").
	BodyLimit string `koanf:"body_limit" validate:"required"`
}

// OdooConfig holds the remote connection settings.
//
// It is immutable after LoadConfig returns and is considered usable only
// when all four values are non-empty (see IsComplete).
type OdooConfig struct {
	URL      string `koanf:"url"`
	DB       string `koanf:"db"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}

// IsComplete reports whether every Odoo setting is present.
func (o OdooConfig) IsComplete() bool {
	return len(o.MissingVars()) == 0
}

// MissingVars lists the environment variables that leave the Odoo block incomplete.
func (o OdooConfig) MissingVars() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"ODOO_URL", o.URL},
		{"ODOO_DB", o.DB},
		{"ODOO_USER", o.User},
		{"ODOO_PASSWORD", o.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (o *OdooConfig) trim() {
	o.URL = strings.TrimSpace(o.URL)
	o.DB = strings.TrimSpace(o.DB)
	o.User = strings.TrimSpace(o.User)
	o.Password = strings.TrimSpace(o.Password)
}

// NotifyConfig configures the optional e-mail sent to the site owner after a
// partner is created.
type NotifyConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	To           string `koanf:"to"`
	From         string `koanf:"from"`

	// ResendBaseURL overrides the Resend API endpoint, e.g. for a relay.
	ResendBaseURL string `koanf:"resend_base_url" validate:"omitempty,url"`
}

// Enabled reports whether owner notifications should be sent.
func (n NotifyConfig) Enabled() bool {
	return n.ResendAPIKey != "" && n.To != ""
}

// defaultConfig returns the values used when a variable is not set.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "5000",
			StaticDir:          "web",
			ReadTimeout:        30,
			WriteTimeout:       90,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			BodyLimit:          "64K",
		},
		Notify: NotifyConfig{
			From: "Odoo Bridge <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// over the defaults, validates it and returns the resulting config.
//
// Behavior summary:
//   - Reads only the variables listed in envKeys
//   - Unmarshals into Config on top of defaultConfig()
//   - Trims the Odoo values (blank counts as missing)
//   - Validates server/primary blocks with struct tags
//   - Overrides observability service name + environment
//   - Validates observability config with its own rules
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// A blank key from the callback makes the env provider skip the variable.
	// Blank values are skipped too, so `PORT=` keeps the default port.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		if envKeys[key] == "server.cors_allowed_origins" {
			origins := splitList(value)
			if len(origins) == 0 {
				return "", nil
			}
			return envKeys[key], origins
		}
		return envKeys[key], value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	mainConfig.Odoo.trim()

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// splitList turns a comma-separated variable into its trimmed, non-empty parts.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
