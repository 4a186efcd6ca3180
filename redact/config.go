package redact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/autopilot-ai/sdk"
)

// LoadConfig reads a redaction config from a YAML file.
//
// Example file:
//
//	keys:
//	  - password
//	  - api_key
//	value_patterns:
//	  - "^ghp_[A-Za-z0-9]{36}$"
//	replacement: "***"
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, sdk.NewConfigurationError("redact.LoadConfig",
			fmt.Errorf("reading %s: %w", path, err))
	}
	return ParseConfig(data)
}

// ParseConfig parses a redaction config from YAML bytes and checks it has
// at least one key or value pattern.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, sdk.NewConfigurationError("redact.ParseConfig", err)
	}
	if len(cfg.Keys) == 0 && len(cfg.ValuePatterns) == 0 {
		return Config{}, sdk.NewConfigurationError("redact.ParseConfig",
			fmt.Errorf("config must list at least one key or value pattern"))
	}
	return cfg, nil
}
