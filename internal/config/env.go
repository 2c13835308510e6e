package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables that can carry a full configuration document, for
// runners that inject settings instead of mounting a file.
const (
	EnvConfigJSON    = "VOXELPATH_CONFIG_JSON"
	EnvConfigYAMLB64 = "VOXELPATH_CONFIG_YAML_B64"
)

// FromEnvironment decodes a configuration supplied through lookup, layered
// over defaults. The JSON variable wins when both are set. The boolean is
// false when neither variable is present.
func FromEnvironment(lookup func(string) string) (*Config, bool, error) {
	jsonPayload := lookup(EnvConfigJSON)
	yamlPayload := lookup(EnvConfigYAMLB64)
	if jsonPayload == "" && yamlPayload == "" {
		return nil, false, nil
	}

	cfg := Default()
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), cfg); err != nil {
			return nil, true, fmt.Errorf("decode config json: %w", err)
		}
	} else {
		data, err := base64.StdEncoding.DecodeString(yamlPayload)
		if err != nil {
			return nil, true, fmt.Errorf("decode config yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, true, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, true, fmt.Errorf("validate config: %w", err)
	}
	return cfg, true, nil
}

// WriteFile stores cfg as indented JSON, creating the parent directory.
func WriteFile(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
