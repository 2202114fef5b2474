package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SEARX_HOST", "SEARX_LOG_LEVEL", "MCP_TRANSPORT", "MCP_PORT", "CONFIG_FILE"} {
		t.Setenv(k, "")
	}
	orig := loadDotenv
	loadDotenv = func() {}
	t.Cleanup(func() { loadDotenv = orig })
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSearxHost, cfg.GetSearxHost())
	assert.Equal(t, FormatJSON, cfg.Searx.Format)
	assert.Equal(t, "Result", cfg.Searx.SentinelKey)
	assert.Equal(t, TransportStdio, cfg.GetTransport())
	assert.Equal(t, 3456, cfg.GetPort())
	assert.Equal(t, time.Duration(0), cfg.GetSearxTimeout())
	assert.Equal(t, "search", cfg.GetMCPSearchToolName())
}

func TestLoadFromFile_ParsesYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9000
  transport: http
  cors:
    enabled: true
    origin: https://example.com
searx:
  host: https://searx.example.org/
  format: HTML
  timeout: 12
  sentinel_key: NoResult
browser:
  enabled: true
log:
  level: debug
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.GetPort())
	assert.Equal(t, TransportHTTP, cfg.GetTransport())
	assert.True(t, cfg.IsEnableCORS())
	assert.Equal(t, "https://example.com", cfg.GetCORSOrigin())
	assert.Equal(t, "https://searx.example.org/", cfg.GetSearxHost())
	assert.Equal(t, FormatHTML, cfg.Searx.Format)
	assert.Equal(t, 12*time.Second, cfg.GetSearxTimeout())
	assert.Equal(t, "NoResult", cfg.Searx.SentinelKey)
	assert.True(t, cfg.IsBrowserEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromFile(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "searx:\n  host: http://from-file:8080\n"))
	t.Setenv("SEARX_HOST", "http://from-env:8888")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("MCP_PORT", "4000")

	cfg := Load()
	assert.Equal(t, "http://from-env:8888", cfg.GetSearxHost())
	assert.Equal(t, TransportHTTP, cfg.GetTransport())
	assert.Equal(t, 4000, cfg.GetPort())
}

func TestLoad_CallsLoadDotenv(t *testing.T) {
	clearEnv(t)
	called := false
	loadDotenv = func() { called = true }

	_ = Load()
	assert.True(t, called, "Load() must call loadDotenv()")
}

func TestValidate_RepairsInvalidValues(t *testing.T) {
	cfg := *DefaultConfig
	cfg.Server.Port = 70000
	cfg.Server.Transport = "carrier-pigeon"
	cfg.Searx.Format = "xml"
	cfg.Searx.Timeout = -5
	cfg.Searx.Host = ""
	cfg.Browser.Enabled = true
	cfg.MCP.Tools.SearchName = ""

	cfg.validate()

	assert.Equal(t, DefaultConfig.Server.Port, cfg.Server.Port)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, FormatJSON, cfg.Searx.Format)
	assert.Equal(t, 0, cfg.Searx.Timeout)
	assert.Equal(t, DefaultSearxHost, cfg.Searx.Host)
	assert.False(t, cfg.Browser.Enabled, "browser needs html format")
	assert.Equal(t, "search", cfg.MCP.Tools.SearchName)
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("http://localhost:8888"))
	assert.True(t, IsHTTPURL("https://searx.example.org/searx"))
	assert.False(t, IsHTTPURL("ftp://example.org"))
	assert.False(t, IsHTTPURL("localhost:8888"))
	assert.False(t, IsHTTPURL("::not a url"))
}
