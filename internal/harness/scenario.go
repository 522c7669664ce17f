// Package harness runs declarative conformance scenarios against the
// engine. A scenario is a YAML file describing one engine configuration and
// a list of input/expected-output cases; results can additionally be pinned
// as golden files so that a rule change shows up as a reviewable diff.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/typograf/typograf/rules"
)

// DefaultRunToken seeds the per-case run tokens when a scenario does not
// pin its own. Fixed by default so golden comparisons stay deterministic.
const DefaultRunToken = "test-run"

// Scenario is one conformance scenario: an engine configuration plus the
// cases to run through it.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario pins down.
	Description string `yaml:"description"`

	// Lang and Mode configure the engine. Empty values take the engine
	// defaults.
	Lang string `yaml:"lang,omitempty"`
	Mode string `yaml:"mode,omitempty"`

	// Enable and Disable adjust the rule mask, by name or wildcard.
	Enable  []string `yaml:"enable,omitempty"`
	Disable []string `yaml:"disable,omitempty"`

	// Settings overlays rule settings, keyed by rule name. Values must be
	// strings, integers, or booleans.
	Settings map[string]map[string]any `yaml:"settings,omitempty"`

	// RunToken seeds the per-case run tokens. Defaults to DefaultRunToken.
	RunToken string `yaml:"run_token,omitempty"`

	// Cases are the inputs to process, in order.
	Cases []Case `yaml:"cases"`
}

// Case is one input run through the scenario's engine.
type Case struct {
	// Name identifies the case within the scenario.
	Name string `yaml:"name"`

	// Lang and Mode override the scenario's configuration for this case
	// only.
	Lang string `yaml:"lang,omitempty"`
	Mode string `yaml:"mode,omitempty"`

	// Input is the text to process.
	Input string `yaml:"input"`

	// Want is the expected output. When omitted the case only records its
	// output (golden-only case); no equality check runs.
	Want string `yaml:"want,omitempty"`

	// Assertions are additional checks against the output, evaluated after
	// the Want comparison.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, so a typo like "case:" for "cases:" fails loudly instead of
// silently running nothing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.Mode != "" {
		if _, err := rules.ParseMode(s.Mode); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
		if c.Input == "" {
			return fmt.Errorf("cases[%d]: input is required", i)
		}
		if c.Mode != "" {
			if _, err := rules.ParseMode(c.Mode); err != nil {
				return fmt.Errorf("cases[%d]: %w", i, err)
			}
		}
		for j, a := range c.Assertions {
			if err := validateAssertion(a); err != nil {
				return fmt.Errorf("cases[%d].assertions[%d]: %w", i, j, err)
			}
		}
	}

	for rule, settings := range s.Settings {
		for key, v := range settings {
			if _, err := rules.ValueOf(v); err != nil {
				return fmt.Errorf("settings %s.%s: %w", rule, key, err)
			}
		}
	}
	return nil
}
