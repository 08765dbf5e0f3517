package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	AllowAutoCreateNamespaces bool              `json:"allowAutoCreateNamespaces" yaml:"allowAutoCreateNamespaces"`
	DefaultNamespaceName      string            `json:"defaultNamespaceName" yaml:"defaultNamespaceName"`
	NamespaceNameRegex        string            `json:"namespaceNameRegex" yaml:"namespaceNameRegex"`
	NamespaceDefaults         NamespaceDefaults `json:"namespaceDefaults" yaml:"namespaceDefaults"`
	// MaxDataBytes is the storage budget consulted by deny-oom commands. 0 disables the check.
	MaxDataBytes int64       `json:"maxDataBytes" yaml:"maxDataBytes"`
	Replication  Replication `json:"replication" yaml:"replication"`
}

// NamespaceDefaults captures per-namespace baseline limits.
type NamespaceDefaults struct {
	// MaxListLength caps the number of elements a single list may hold (0 = unlimited).
	MaxListLength int64 `json:"maxListLength" yaml:"maxListLength"`
	// MaxElementBytes caps the size of a single element or string value.
	MaxElementBytes int `json:"maxElementBytes" yaml:"maxElementBytes"`
}

// Replication controls verbatim propagation of write commands.
type Replication struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// MaxEntries bounds the replication log; older entries are trimmed (0 = keep all).
	MaxEntries uint64 `json:"maxEntries" yaml:"maxEntries"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		AllowAutoCreateNamespaces: true,
		DefaultNamespaceName:      "default",
		NamespaceNameRegex:        "[a-z0-9-_]{1,64}",
		NamespaceDefaults: NamespaceDefaults{
			MaxListLength:   0,
			MaxElementBytes: 512 << 20,
		},
		Replication: Replication{Enabled: true},
	}
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	if c.DefaultNamespaceName == "" {
		return fmt.Errorf("config: defaultNamespaceName must not be empty")
	}
	re, err := regexp.Compile("^(?:" + c.NamespaceNameRegex + ")$")
	if err != nil {
		return fmt.Errorf("config: namespaceNameRegex: %w", err)
	}
	if !re.MatchString(c.DefaultNamespaceName) {
		return fmt.Errorf("config: default namespace %q does not match %q", c.DefaultNamespaceName, c.NamespaceNameRegex)
	}
	if c.NamespaceDefaults.MaxListLength < 0 || c.NamespaceDefaults.MaxElementBytes < 0 || c.MaxDataBytes < 0 {
		return fmt.Errorf("config: limits must not be negative")
	}
	return nil
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
