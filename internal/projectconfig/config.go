// Package projectconfig provides the Config struct and loader for the
// optional grader-exec YAML configuration file.
package projectconfig

import (
	"fmt"
	"os"

	"github.com/spboyer/grader-exec/internal/models"
	"gopkg.in/yaml.v3"
)

// Default values for configuration. New() references them and no other
// code should duplicate them.
const (
	DefaultGraderKind  = models.GraderKindHint
	DefaultGraderName  = "hint"
	DefaultExecTimeout = 30
	DefaultMaxBytes    = 0
)

// GraderConfig selects and parameterizes the grader run by the root command.
type GraderConfig struct {
	Kind    models.GraderKind `yaml:"kind,omitempty"`
	Name    string            `yaml:"name,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Timeout int               `yaml:"timeout,omitempty"`
}

// Params returns the grader parameters in the form accepted by graders.Create.
func (g GraderConfig) Params() map[string]any {
	return map[string]any{
		"command": g.Command,
		"args":    g.Args,
		"timeout": g.Timeout,
	}
}

// InputConfig holds request reading limits.
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Grader GraderConfig `yaml:"grader,omitempty"`
	Input  InputConfig  `yaml:"input,omitempty"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		Grader: GraderConfig{
			Kind:    DefaultGraderKind,
			Name:    DefaultGraderName,
			Timeout: DefaultExecTimeout,
		},
		Input: InputConfig{
			MaxBytes: DefaultMaxBytes,
		},
	}
}

// Load reads the YAML file at path and fills in missing fields with
// defaults. An empty path returns the defaults without touching the
// filesystem.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)

	if cfg.Input.MaxBytes < 0 {
		return nil, fmt.Errorf("config %q: input.max_bytes must not be negative", path)
	}
	return cfg, nil
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	if src.Grader.Kind != "" {
		dst.Grader.Kind = src.Grader.Kind
	}
	if src.Grader.Name != "" {
		dst.Grader.Name = src.Grader.Name
	}
	if src.Grader.Command != "" {
		dst.Grader.Command = src.Grader.Command
	}
	if len(src.Grader.Args) > 0 {
		dst.Grader.Args = src.Grader.Args
	}
	if src.Grader.Timeout != 0 {
		dst.Grader.Timeout = src.Grader.Timeout
	}

	if src.Input.MaxBytes != 0 {
		dst.Input.MaxBytes = src.Input.MaxBytes
	}
}
