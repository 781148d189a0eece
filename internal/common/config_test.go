package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "./receipts.db", cfg.Database.Path)
	assert.Equal(t, "https://us-documentai.googleapis.com/v1", cfg.DocAI.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.DocAI.Timeout)
	assert.Equal(t, "https://graph.facebook.com/v19.0", cfg.WhatsApp.BaseURL)
	assert.InDelta(t, 0.60, cfg.Extract.MinConfidence, 0.0001)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RECEIPTD_SERVER_ADDR", ":9090")
	t.Setenv("RECEIPTD_DOCAI_PROCESSOR_ID", "projects/p/locations/us/processors/x")
	t.Setenv("RECEIPTD_DOCAI_TIMEOUT", "10s")
	t.Setenv("RECEIPTD_EXTRACT_MIN_CONFIDENCE", "0.75")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "projects/p/locations/us/processors/x", cfg.DocAI.ProcessorID)
	assert.Equal(t, 10*time.Second, cfg.DocAI.Timeout)
	assert.InDelta(t, 0.75, cfg.Extract.MinConfidence, 0.0001)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "missing credentials must fail validation")

	cfg.DocAI.ProcessorID = "projects/p/locations/us/processors/x"
	cfg.DocAI.AccessToken = "token"
	cfg.WhatsApp.VerifyToken = "verify"
	assert.NoError(t, cfg.Validate())
}
