// Package sweep describes parameterized experiment batches: which external
// simulator command to run, over which parameter grid, how many repeated
// runs per grid point, and how the resulting artifact files are named.
package sweep

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Value is one parameter value, kept in its literal spelling so that file
// names and command lines are reproducible across machines (an int written
// as 10 never becomes "10.0").
type Value string

// UnmarshalYAML accepts any scalar and keeps its source text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("parameter value must be a scalar, got %v node", node.Kind)
	}
	*v = Value(node.Value)
	return nil
}

// MarshalYAML writes the value back as its literal text.
func (v Value) MarshalYAML() (any, error) { return string(v), nil }

// Experiment is one named sweep: a simulator command template crossed with
// a parameter grid, repeated Runs times per grid point.
type Experiment struct {
	Name       string             `yaml:"name"`
	Sim        string             `yaml:"sim"`
	Parameters map[string][]Value `yaml:"parameters"`
	Runs       int                `yaml:"runs,omitempty"`
}

// Config is a batch of experiments plus the analyzer command used for all
// of them.
type Config struct {
	Runs        int          `yaml:"runs"`
	Analyzer    string       `yaml:"analyzer"`
	Experiments []Experiment `yaml:"experiments"`
}

// Load reads and validates a batch config from a YAML file. Experiments
// without their own run count inherit the batch-level one.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	for i := range cfg.Experiments {
		if cfg.Experiments[i].Runs == 0 {
			cfg.Experiments[i].Runs = cfg.Runs
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the batch invariants: every experiment is named, has a
// non-empty parameter mapping and at least one run. An empty value list for
// a single parameter is allowed (it yields zero combinations).
func (c Config) Validate() error {
	seen := make(map[string]bool)
	for _, e := range c.Experiments {
		if e.Name == "" {
			return fmt.Errorf("experiment without a name")
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate experiment name %q", e.Name)
		}
		seen[e.Name] = true
		if len(e.Parameters) == 0 {
			return fmt.Errorf("experiment %q has no parameters", e.Name)
		}
		if e.Runs < 1 {
			return fmt.Errorf("experiment %q has run count %d, need at least 1", e.Name, e.Runs)
		}
	}
	return nil
}

// ParameterNames returns the experiment's parameter names in lexicographic
// order. This ordering is load-bearing: it fixes artifact file names and
// output column order.
func (e Experiment) ParameterNames() []string {
	names := make([]string, 0, len(e.Parameters))
	for name := range e.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterNames returns the union of all experiments' parameter names,
// sorted.
func (c Config) ParameterNames() []string {
	set := make(map[string]bool)
	for _, e := range c.Experiments {
		for name := range e.Parameters {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
