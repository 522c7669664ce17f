package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typograf/typograf/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Filter string
}

// ScenarioOutcome is one scenario's result in a check run.
type ScenarioOutcome struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// CheckReport is the JSON payload of the check command.
type CheckReport struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <scenario-file-or-dir>...",
		Short: "Run conformance scenarios",
		Long: `Run declarative conformance scenarios against the engine.

Arguments are scenario YAML files or directories to search recursively.
Each scenario builds its own engine, runs its cases, and checks wants and
assertions.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (missing files, unreadable YAML)

Examples:
  typograf check scenarios/
  typograf check scenarios/ --filter 'ru-*'
  typograf check scenarios/quotes.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only scenarios whose file name matches this glob")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	files, err := collectScenarioFiles(args, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "collect scenarios", err)
	}

	w := cmd.OutOrStdout()
	if len(files) == 0 {
		if opts.Format == "json" {
			formatter := &OutputFormatter{Format: opts.Format, Writer: w}
			return formatter.Success(CheckReport{Scenarios: []ScenarioOutcome{}})
		}
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	report := CheckReport{
		Scenarios: make([]ScenarioOutcome, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		outcome := runScenarioFile(file, opts, cmd)
		report.Scenarios = append(report.Scenarios, outcome)
		if outcome.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	if opts.Format == "json" {
		return outputCheckJSON(cmd, report)
	}
	return outputCheckText(cmd, report)
}

// collectScenarioFiles expands file and directory arguments into a list of
// scenario YAML files, in argument then walk order.
func collectScenarioFiles(args []string, filter string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			if ext != ".yaml" && ext != ".yml" {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if filter == "" {
		return files, nil
	}
	var matched []string
	for _, path := range files {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		ok, err := filepath.Match(filter, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if ok {
			matched = append(matched, path)
		}
	}
	return matched, nil
}

// runScenarioFile loads and runs one scenario, reporting load and execution
// problems as failures rather than aborting the batch.
func runScenarioFile(file string, opts *CheckOptions, cmd *cobra.Command) ScenarioOutcome {
	w := cmd.OutOrStdout()

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n  %v\n", filepath.Base(file), err)
		}
		return ScenarioOutcome{
			Name:   filepath.Base(file),
			Errors: []string{err.Error()},
		}
	}

	result, err := harness.Run(scenario)
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n  %v\n", scenario.Name, err)
		}
		return ScenarioOutcome{
			Name:   scenario.Name,
			Errors: []string{err.Error()},
		}
	}

	if !result.Pass {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n", scenario.Name)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		return ScenarioOutcome{
			Name:   scenario.Name,
			Errors: result.Errors,
		}
	}

	if opts.Format != "json" {
		fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	}
	return ScenarioOutcome{Name: scenario.Name, Pass: true}
}

func outputCheckJSON(cmd *cobra.Command, report CheckReport) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}

	resp := Response{Status: "ok", Data: report}
	if report.Failed > 0 {
		resp.Status = "error"
		resp.Error = &ErrorBody{
			Code:    ErrCodeCheck,
			Message: fmt.Sprintf("%d scenario(s) failed", report.Failed),
		}
	}
	if err := formatter.JSON(resp); err != nil {
		return err
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	return nil
}

func outputCheckText(cmd *cobra.Command, report CheckReport) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check summary: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
