package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/typograf/typograf/rules"
)

// RunSnapshot captures a complete scenario execution for golden comparison.
// It is serialized with canonical JSON so the byte output is deterministic
// across runs and platforms.
type RunSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunToken     string       `json:"run_token"`
	Cases        []CaseResult `json:"cases"`
}

// toCanonicalMap converts the snapshot to a map[string]any because
// rules.MarshalCanonical handles only maps, slices and primitives.
//
// Pass/fail state is deliberately excluded: the golden file pins what the
// engine produced, not what the scenario expected.
func (s *RunSnapshot) toCanonicalMap() map[string]any {
	list := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		list[i] = map[string]any{
			"name":   c.Name,
			"input":  c.Input,
			"output": c.Output,
			"fired":  c.Fired,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"run_token":     s.RunToken,
		"cases":         list,
	}
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error when the scenario itself cannot run; a snapshot that does
// not match its golden file fails the test through goldie instead.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, runToken(scenario), result)
}

// AssertGolden compares an already-obtained result against the golden file
// for scenarioName.
func AssertGolden(t *testing.T, scenarioName, runToken string, result *Result) error {
	t.Helper()

	snapshot := RunSnapshot{
		ScenarioName: scenarioName,
		RunToken:     runToken,
		Cases:        result.Cases,
	}
	data, err := rules.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
