package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/tree"
)

// RunConfig is the YAML sampling run configuration.
type RunConfig struct {
	Seed             int64          `yaml:"seed"`
	Creator          string         `yaml:"creator"` // "grow" | "btc" | "ptc2"
	Count            int            `yaml:"count"`
	TargetLength     int            `yaml:"target_length"`
	MinDepth         int            `yaml:"min_depth"`
	MaxDepth         int            `yaml:"max_depth"`
	IrregularityBias float64        `yaml:"irregularity_bias"`
	Dataset          string         `yaml:"dataset"` // optional CSV path
	Target           string         `yaml:"target"`  // optional target column name
	Symbols          map[string]int `yaml:"symbols"` // symbol name -> frequency
}

// ValidCreators lists the accepted creator names.
var ValidCreators = []string{"grow", "btc", "ptc2"}

// ConfigError reports an invalid run configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// LoadRunConfig reads and validates a YAML run configuration. Missing
// fields receive defaults; an empty symbols map enables the default
// arithmetic grammar.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &RunConfig{
		Creator:      "btc",
		Count:        10,
		TargetLength: 15,
		MinDepth:     1,
		MaxDepth:     10,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and symbol names.
func (c *RunConfig) Validate() error {
	valid := false
	for _, name := range ValidCreators {
		if c.Creator == name {
			valid = true
			break
		}
	}
	if !valid {
		return &ConfigError{Field: "creator", Message: fmt.Sprintf("unknown creator %q, must be one of %v", c.Creator, ValidCreators)}
	}
	if c.Count <= 0 {
		return &ConfigError{Field: "count", Message: "must be positive"}
	}
	if c.TargetLength <= 0 {
		return &ConfigError{Field: "target_length", Message: "must be positive"}
	}
	if c.MinDepth < 1 {
		return &ConfigError{Field: "min_depth", Message: "must be at least 1"}
	}
	if c.MaxDepth < c.MinDepth {
		return &ConfigError{Field: "max_depth", Message: "must be at least min_depth"}
	}
	if c.IrregularityBias < 0 || c.IrregularityBias > 1 {
		return &ConfigError{Field: "irregularity_bias", Message: "must be in [0, 1]"}
	}
	for name, freq := range c.Symbols {
		if _, err := tree.ParseSymbol(name); err != nil {
			return &ConfigError{Field: "symbols", Message: err.Error()}
		}
		if freq < 0 {
			return &ConfigError{Field: "symbols", Message: fmt.Sprintf("%s: frequency must be non-negative", name)}
		}
	}
	return nil
}

// PrimitiveSet builds the grammar described by the symbols map. With no
// symbols configured, the default arithmetic set with variables and
// constants is used.
func (c *RunConfig) PrimitiveSet() (*grammar.PrimitiveSet, error) {
	if len(c.Symbols) == 0 {
		return grammar.New(tree.Add | tree.Sub | tree.Mul | tree.Div | tree.Variable | tree.Constant)
	}

	var mask tree.Symbol
	for name := range c.Symbols {
		s, err := tree.ParseSymbol(name)
		if err != nil {
			return nil, err
		}
		mask |= s
	}
	pset, err := grammar.New(mask)
	if err != nil {
		return nil, err
	}
	for name, freq := range c.Symbols {
		s, _ := tree.ParseSymbol(name)
		pset.SetFrequency(s, freq)
	}
	return pset, nil
}
