package cli

import (
	"github.com/spf13/cobra"

	"github.com/typograf/typograf"
	"github.com/typograf/typograf/internal/profile"
	"github.com/typograf/typograf/rules"
)

// EngineOptions are the engine-configuration flags shared by the commands
// that build an engine (process, rules, cache verify).
type EngineOptions struct {
	Lang    string
	Mode    string
	Enable  []string
	Disable []string
	Profile string
}

// addEngineFlags registers the shared engine flags on a command.
func addEngineFlags(cmd *cobra.Command, opts *EngineOptions) {
	cmd.Flags().StringVar(&opts.Lang, "lang", "", `language scope (default "en")`)
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "output mode: default, digit, or name")
	cmd.Flags().StringArrayVar(&opts.Enable, "enable", nil, "enable rules by name or wildcard (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Disable, "disable", nil, "disable rules by name or wildcard (repeatable)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "CUE profile file")
}

// loadProfile loads the --profile file and registers its safe tags.
// Returns nil without error when no profile was requested. Called once per
// command so that safe-tag registration does not repeat per worker.
func (o *EngineOptions) loadProfile() (*profile.Profile, error) {
	if o.Profile == "" {
		return nil, nil
	}
	p, err := profile.Load(o.Profile)
	if err != nil {
		return nil, err
	}
	if err := p.RegisterSafeTags(rules.Default); err != nil {
		return nil, err
	}
	return p, nil
}

// buildEngine assembles an engine from the loaded profile and the flags.
// Flag options are applied after profile options, so an explicit flag wins
// over the profile's value.
func (o *EngineOptions) buildEngine(p *profile.Profile, extra ...typograf.Option) (*typograf.Engine, error) {
	var opts []typograf.Option
	if p != nil {
		opts = append(opts, p.Options()...)
	}
	if o.Lang != "" {
		opts = append(opts, typograf.WithLang(o.Lang))
	}
	if o.Mode != "" {
		mode, err := rules.ParseMode(o.Mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, typograf.WithMode(mode))
	}
	if len(o.Disable) > 0 {
		opts = append(opts, typograf.WithDisable(o.Disable...))
	}
	if len(o.Enable) > 0 {
		opts = append(opts, typograf.WithEnable(o.Enable...))
	}
	opts = append(opts, extra...)

	return typograf.New(opts...)
}
