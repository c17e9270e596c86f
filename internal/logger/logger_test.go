package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_WithoutLicenseKey(t *testing.T) {
	ls := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, ls.GetApplication())
	ls.Shutdown()
}

func TestNilLoggerService(t *testing.T) {
	var ls *LoggerService

	assert.Nil(t, ls.GetApplication())
	ls.Shutdown()
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	log.Debug().Msg("dropped at info level")
	log.Info().Str("partner_id", "7").Msg("partner created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "partner created", entry["message"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, "7", entry["partner_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	log := WithTraceContext(newLogger(cfg, nil, &buf), nil)
	log.Info().Msg("no trace")

	assert.NotContains(t, buf.String(), "trace.id")
}
