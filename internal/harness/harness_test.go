package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScenarioFromFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "en-basic.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Cases, 2)
	assert.Equal(t, "Wait…", result.Cases[0].Output)
	assert.Equal(t, "He said “go”.", result.Cases[1].Output)
}

func TestRunRecordsFiredRules(t *testing.T) {
	s := &Scenario{
		Name:        "fired",
		Description: "records which rules fired",
		Lang:        "en",
		Cases:       []Case{{Name: "basic", Input: `"x"...`, Want: "“x”…"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Cases, 1)
	assert.Equal(t, []string{
		"common/controls",
		"common/ellipsis",
		"common/quotes",
		"common/dash",
		"common/marks",
		"en/apostrophe",
		"common/blanklines",
	}, result.Cases[0].Fired)
}

func TestRunWantMismatch(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "one bad expectation",
		Lang:        "en",
		Cases: []Case{
			{Name: "bad", Input: "a...", Want: "a..."},
			{Name: "good", Input: "b...", Want: "b…"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "case bad")
	assert.False(t, result.Cases[0].Pass)
	assert.True(t, result.Cases[1].Pass, "one failing case must not poison the rest")
	assert.Equal(t, "a…", result.Cases[0].Output, "output is recorded even on mismatch")
}

func TestRunPerCaseOverrides(t *testing.T) {
	s := &Scenario{
		Name:        "overrides",
		Description: "case-level lang and mode win over scenario-level",
		Lang:        "en",
		Cases: []Case{
			{Name: "ru-name", Lang: "ru", Mode: "name", Input: `"снег"`, Want: "&laquo;снег&raquo;"},
			{Name: "en-default", Input: `"snow"`, Want: "“snow”"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunAppliesSettings(t *testing.T) {
	s := &Scenario{
		Name:        "settings",
		Description: "settings overlay reaches the rules",
		Lang:        "en",
		Settings:    map[string]map[string]any{"common/dash": {"glyph": "—"}},
		Cases:       []Case{{Name: "dash", Input: "We - go", Want: "We — go"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunEnableDisable(t *testing.T) {
	s := &Scenario{
		Name:        "mask",
		Description: "disable wildcard with a narrow enable on top",
		Lang:        "en",
		Disable:     []string{"common/*"},
		Enable:      []string{"common/ellipsis"},
		Cases: []Case{
			{Name: "quotes-off", Input: `"x"... can't`, Want: "\"x\"… can’t"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Cases, 1)
	assert.Equal(t, []string{"common/ellipsis", "en/apostrophe"}, result.Cases[0].Fired)
}

func TestRunBadSettings(t *testing.T) {
	s := &Scenario{
		Name:        "bad-settings",
		Description: "floats are rejected",
		Settings:    map[string]map[string]any{"common/dash": {"glyph": 1.5}},
		Cases:       []Case{{Name: "a", Input: "x"}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestRunEngineBuildError(t *testing.T) {
	s := &Scenario{
		Name:        "boom",
		Description: "invalid mode surfaces as a build error",
		Mode:        "bogus",
		Cases:       []Case{{Name: "a", Input: "x"}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build engine")
}

func TestRunProcessErrorDoesNotAbort(t *testing.T) {
	s := &Scenario{
		Name:        "proc-err",
		Description: "a failing case is reported and the rest still run",
		Lang:        "en",
		Cases: []Case{
			{Name: "bad-mode", Mode: "bogus", Input: "x..."},
			{Name: "ok", Input: "y...", Want: "y…"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "case bad-mode")
	assert.True(t, result.Cases[1].Pass)
	assert.Equal(t, "y…", result.Cases[1].Output)
}
