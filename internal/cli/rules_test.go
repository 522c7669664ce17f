package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typograf/typograf"
)

func rulesReportFromJSON(t *testing.T, buf *bytes.Buffer) RulesReport {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   RulesReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func ruleNames(infos []typograf.RuleInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

func TestRulesTextListing(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "PHASE")
	assert.Contains(t, output, "ENABLED")
	assert.Contains(t, output, "common/controls (inner)")
	assert.Contains(t, output, "common/quotes")
	assert.Contains(t, output, "ru/nbsp")
	assert.Contains(t, output, "en/apostrophe")
}

func TestRulesDisabledByDefaultShown(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	// common/spaces ships disabled; the listing still carries it.
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		if bytes.Contains(line, []byte("common/spaces")) {
			assert.Contains(t, string(line), "no")
			return
		}
	}
	t.Fatal("common/spaces not listed")
}

func TestRulesLangFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--lang", "ru"})

	err := cmd.Execute()
	require.NoError(t, err)

	report := rulesReportFromJSON(t, buf)
	names := ruleNames(report.Rules)
	assert.Contains(t, names, "ru/nbsp")
	assert.Contains(t, names, "ru/plusmn")
	assert.Contains(t, names, "common/quotes")
	assert.NotContains(t, names, "en/apostrophe")
}

func TestRulesLangFilterResolvesRegionTags(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--lang", "en-US"})

	err := cmd.Execute()
	require.NoError(t, err)

	report := rulesReportFromJSON(t, buf)
	names := ruleNames(report.Rules)
	assert.Contains(t, names, "en/apostrophe")
	assert.NotContains(t, names, "ru/nbsp")
}

func TestRulesDisableFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--disable", "common/quotes"})

	err := cmd.Execute()
	require.NoError(t, err)

	report := rulesReportFromJSON(t, buf)
	for _, info := range report.Rules {
		if info.Name == "common/quotes" {
			assert.False(t, info.Enabled)
			return
		}
	}
	t.Fatal("common/quotes not listed")
}

func TestRulesJSONDefaults(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	report := rulesReportFromJSON(t, buf)
	assert.Equal(t, "en", report.Lang)
	assert.Equal(t, "default", report.Mode)
	assert.NotEmpty(t, report.Rules)

	// Evaluation order: the start-phase inner rule precedes every main rule.
	require.Greater(t, len(report.Rules), 2)
	assert.Equal(t, "common/controls", report.Rules[0].Name)
	assert.Equal(t, "start", report.Rules[0].Phase)
	assert.True(t, report.Rules[0].Inner)
}

func TestRulesProfileApplied(t *testing.T) {
	tmpDir := t.TempDir()
	profilePath := filepath.Join(tmpDir, "ru.cue")
	require.NoError(t, os.WriteFile(profilePath, []byte(`profile: {
	lang: "ru"
	mode: "name"
	disable: ["common/marks"]
}
`), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--profile", profilePath})

	err := cmd.Execute()
	require.NoError(t, err)

	report := rulesReportFromJSON(t, buf)
	assert.Equal(t, "ru", report.Lang)
	assert.Equal(t, "name", report.Mode)
	for _, info := range report.Rules {
		if info.Name == "common/marks" {
			assert.False(t, info.Enabled)
		}
	}
}

func TestRulesBadProfilePath(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--profile", "/nonexistent/p.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load profile")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRulesRejectsArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRulesCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	err := cmd.Execute()
	require.Error(t, err)
}
