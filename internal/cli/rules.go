package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typograf/typograf"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Engine EngineOptions
}

// RulesReport is the JSON payload of the rules command.
type RulesReport struct {
	Lang  string              `json:"lang"`
	Mode  string              `json:"mode"`
	Rules []typograf.RuleInfo `json:"rules"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalogue in evaluation order",
		Long: `List registered rules with phase, sort index, language scope, and
current enablement, after applying --enable/--disable and --profile.

With --lang, the listing is narrowed to rules that would fire for that
language (its own scope plus language-neutral rules).

Examples:
  typograf rules
  typograf rules --lang ru --disable 'ru/*'
  typograf rules --profile ru.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	prof, err := opts.Engine.loadProfile()
	if err != nil {
		return WrapExitError(ExitCommandError, "load profile", err)
	}
	eng, err := opts.Engine.buildEngine(prof)
	if err != nil {
		return WrapExitError(ExitCommandError, "configure engine", err)
	}

	infos := eng.Rules()
	if opts.Engine.Lang != "" {
		scope := eng.ResolveLang(opts.Engine.Lang)
		var scoped []typograf.RuleInfo
		for _, info := range infos {
			if info.Lang == "common" || info.Lang == scope {
				scoped = append(scoped, info)
			}
		}
		infos = scoped
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(RulesReport{
			Lang:  eng.Lang(),
			Mode:  string(eng.Mode()),
			Rules: infos,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-7s %5s  %-22s %-8s %s\n", "PHASE", "SORT", "NAME", "LANG", "ENABLED")
	for _, info := range infos {
		name := info.Name
		if info.Inner {
			name += " (inner)"
		}
		enabled := "yes"
		if !info.Enabled {
			enabled = "no"
		}
		fmt.Fprintf(w, "%-7s %5d  %-22s %-8s %s\n", info.Phase, info.SortIndex, name, info.Lang, enabled)
	}
	return nil
}
