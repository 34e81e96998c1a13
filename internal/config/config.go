package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvProtocolMap     = "TAGALOG_PROTOCOL_MAP"
	EnvLookupTable     = "TAGALOG_LOOKUP_TABLE"
	EnvFlowLogs        = "TAGALOG_FLOW_LOGS"
	EnvOutputPath      = "TAGALOG_OUTPUT_PATH"
	EnvOutputFormat    = "TAGALOG_OUTPUT_FORMAT"
	EnvExtended        = "TAGALOG_EXTENDED"
	EnvBuiltinFallback = "TAGALOG_BUILTIN_PROTOCOLS"
	EnvLogLevel        = "TAGALOG_LOG_LEVEL"
	EnvLogFormat       = "TAGALOG_LOG_FORMAT"
)

// InputsConfig names the three input files of a run.
type InputsConfig struct {
	ProtocolMap string `yaml:"protocol_map"`
	LookupTable string `yaml:"lookup_table"`
	FlowLogs    string `yaml:"flow_logs"`
}

// ParserConfig controls how flow log rows are decoded.
type ParserConfig struct {
	// Extended also decodes source and destination addresses.
	Extended bool `yaml:"extended"`
}

// ProtocolsConfig controls protocol number resolution.
type ProtocolsConfig struct {
	// BuiltinFallback resolves numbers missing from the protocol map through
	// the IANA names known to gopacket.
	BuiltinFallback bool `yaml:"builtin_fallback"`
}

// OutputConfig describes the report artifact.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs"`
	Parser    ParserConfig    `yaml:"parser"`
	Protocols ProtocolsConfig `yaml:"protocols"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			ProtocolMap: "data/protocol_map.txt",
			LookupTable: "data/lookup_table.txt",
			FlowLogs:    "data/logs.txt",
		},
		Output: OutputConfig{
			Path:   "results/report.txt",
			Format: "text",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads the configuration from a YAML file on top of the defaults,
// then applies environment overrides. An empty filePath skips the file.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Inputs.ProtocolMap, EnvProtocolMap)
	setString(&c.Inputs.LookupTable, EnvLookupTable)
	setString(&c.Inputs.FlowLogs, EnvFlowLogs)
	setString(&c.Output.Path, EnvOutputPath)
	setString(&c.Output.Format, EnvOutputFormat)
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.Log.Format, EnvLogFormat)

	if err := setBool(&c.Parser.Extended, EnvExtended); err != nil {
		return err
	}
	return setBool(&c.Protocols.BuiltinFallback, EnvBuiltinFallback)
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

func setBool(dst *bool, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate checks that every required setting is present and well formed.
func (c *Config) Validate() error {
	switch {
	case c.Inputs.ProtocolMap == "":
		return fmt.Errorf("inputs.protocol_map is required")
	case c.Inputs.LookupTable == "":
		return fmt.Errorf("inputs.lookup_table is required")
	case c.Inputs.FlowLogs == "":
		return fmt.Errorf("inputs.flow_logs is required")
	case c.Output.Path == "":
		return fmt.Errorf("output.path is required")
	case c.Output.Format == "":
		return fmt.Errorf("output.format is required")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: '%s'", c.Log.Format)
	}
	return nil
}
