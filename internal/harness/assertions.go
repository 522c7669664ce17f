package harness

import (
	"fmt"
	"strings"
)

// AssertionType names one kind of declarative check.
type AssertionType string

const (
	// AssertEquals requires the output to equal Value exactly.
	AssertEquals AssertionType = "equals"

	// AssertContains requires the output to contain Value.
	AssertContains AssertionType = "contains"

	// AssertNotContains requires the output not to contain Value.
	AssertNotContains AssertionType = "not_contains"

	// AssertUnchanged requires the output to equal the case input. Used to
	// pin text the pipeline must leave alone, like shielded spans.
	AssertUnchanged AssertionType = "unchanged"
)

// Assertion is one declarative check against a case's output. "want" covers
// the common exact-match case; assertions express the rest (substring
// presence, absence, identity).
type Assertion struct {
	Type  AssertionType `yaml:"type"`
	Value string        `yaml:"value,omitempty"`
}

// AssertionError reports a failed assertion with the actual output, so a
// scenario failure is diagnosable from the message alone.
type AssertionError struct {
	Case      string
	Assertion Assertion
	Actual    string
}

func (e *AssertionError) Error() string {
	switch e.Assertion.Type {
	case AssertUnchanged:
		return fmt.Sprintf("case %s: expected output unchanged, got %q", e.Case, e.Actual)
	case AssertNotContains:
		return fmt.Sprintf("case %s: output contains forbidden %q: %q", e.Case, e.Assertion.Value, e.Actual)
	default:
		return fmt.Sprintf("case %s: %s %q failed against %q", e.Case, e.Assertion.Type, e.Assertion.Value, e.Actual)
	}
}

// validateAssertion rejects unknown types and missing values at load time,
// before any case runs.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertEquals, AssertContains, AssertNotContains:
		if a.Value == "" {
			return fmt.Errorf("assertion %s requires a value", a.Type)
		}
		return nil
	case AssertUnchanged:
		if a.Value != "" {
			return fmt.Errorf("assertion unchanged takes no value")
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q (want equals, contains, not_contains, or unchanged)", a.Type)
	}
}

// evalAssertion checks one assertion against a case outcome. Nil means the
// assertion held; otherwise the error is an *AssertionError.
func evalAssertion(caseName string, a Assertion, input, output string) error {
	var ok bool
	switch a.Type {
	case AssertEquals:
		ok = output == a.Value
	case AssertContains:
		ok = strings.Contains(output, a.Value)
	case AssertNotContains:
		ok = !strings.Contains(output, a.Value)
	case AssertUnchanged:
		ok = output == input
	}
	if ok {
		return nil
	}
	return &AssertionError{Case: caseName, Assertion: a, Actual: output}
}
