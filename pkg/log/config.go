package log

import (
	"fmt"
	"strings"
)

// OutputConfig declares one log destination.
type OutputConfig struct {
	// Type is one of console, file, null.
	Type string `json:"type" yaml:"type"`
	// Path is required for file outputs.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config is the declarative form accepted by ApplyConfig.
type Config struct {
	Level      string         `json:"level" yaml:"level"`
	Format     string         `json:"format" yaml:"format"`
	Outputs    []OutputConfig `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	RedactKeys []string       `json:"redactKeys,omitempty" yaml:"redactKeys,omitempty"`
	// SampleInitial and SampleThereafter enable per-message sampling when
	// SampleThereafter > 0.
	SampleInitial    int `json:"sampleInitial,omitempty" yaml:"sampleInitial,omitempty"`
	SampleThereafter int `json:"sampleThereafter,omitempty" yaml:"sampleThereafter,omitempty"`
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []LoggerOption{WithLevel(level)}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		opts = append(opts, WithFormatter(&TextFormatter{}))
	case "json":
		opts = append(opts, WithFormatter(&JSONFormatter{}))
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	for _, oc := range cfg.Outputs {
		switch strings.ToLower(oc.Type) {
		case "", "console":
			opts = append(opts, WithOutput(NewConsoleOutput()))
		case "file":
			if oc.Path == "" {
				return nil, fmt.Errorf("log: file output requires a path")
			}
			fo, err := NewFileOutput(oc.Path)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithOutput(fo))
		case "null":
			opts = append(opts, WithOutput(NullOutput{}))
		default:
			return nil, fmt.Errorf("log: unknown output type %q", oc.Type)
		}
	}
	if len(cfg.RedactKeys) > 0 {
		opts = append(opts, WithRedactedKeys(cfg.RedactKeys...))
	}
	if cfg.SampleThereafter > 0 {
		opts = append(opts, WithSampling(cfg.SampleInitial, cfg.SampleThereafter))
	}
	return NewLogger(opts...), nil
}
