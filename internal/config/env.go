package config

import (
	"os"
	"strconv"
)

// FromEnv overlays LISTX_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("LISTX_ALLOW_AUTO_CREATE_NAMESPACES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowAutoCreateNamespaces = b
		}
	}
	if v := os.Getenv("LISTX_DEFAULT_NAMESPACE_NAME"); v != "" {
		cfg.DefaultNamespaceName = v
	}
	if v := os.Getenv("LISTX_NAMESPACE_NAME_REGEX"); v != "" {
		cfg.NamespaceNameRegex = v
	}
	if v := os.Getenv("LISTX_NAMESPACE_DEFAULTS_MAX_LIST_LENGTH"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.NamespaceDefaults.MaxListLength = n
		}
	}
	if v := os.Getenv("LISTX_NAMESPACE_DEFAULTS_MAX_ELEMENT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NamespaceDefaults.MaxElementBytes = n
		}
	}
	if v := os.Getenv("LISTX_MAX_DATA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxDataBytes = n
		}
	}
	if v := os.Getenv("LISTX_REPLICATION_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Replication.Enabled = b
		}
	}
	if v := os.Getenv("LISTX_REPLICATION_MAX_ENTRIES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Replication.MaxEntries = n
		}
	}
}
