package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "data/protocol_map.txt", cfg.Inputs.ProtocolMap)
	assert.Equal(t, "data/lookup_table.txt", cfg.Inputs.LookupTable)
	assert.Equal(t, "data/logs.txt", cfg.Inputs.FlowLogs)
	assert.Equal(t, "results/report.txt", cfg.Output.Path)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Parser.Extended)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	content := `
inputs:
  protocol_map: /srv/protocols.csv
  flow_logs: /srv/flows.log
parser:
  extended: true
protocols:
  builtin_fallback: true
output:
  path: /srv/out/report.json
  format: json
log:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/protocols.csv", cfg.Inputs.ProtocolMap)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "data/lookup_table.txt", cfg.Inputs.LookupTable)
	assert.Equal(t, "/srv/flows.log", cfg.Inputs.FlowLogs)
	assert.True(t, cfg.Parser.Extended)
	assert.True(t, cfg.Protocols.BuiltinFallback)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inputs: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvFlowLogs, "/tmp/other.log")
	t.Setenv(EnvOutputFormat, "json")
	t.Setenv(EnvExtended, "true")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.log", cfg.Inputs.FlowLogs)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Parser.Extended)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_BadEnvBool(t *testing.T) {
	t.Setenv(EnvBuiltinFallback, "maybe")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no protocol map", func(c *Config) { c.Inputs.ProtocolMap = "" }},
		{"no lookup table", func(c *Config) { c.Inputs.LookupTable = "" }},
		{"no flow logs", func(c *Config) { c.Inputs.FlowLogs = "" }},
		{"no output path", func(c *Config) { c.Output.Path = "" }},
		{"no output format", func(c *Config) { c.Output.Format = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
