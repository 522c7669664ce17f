package typograf

import (
	"github.com/typograf/typograf/rules"
)

// Mode controls entity re-encoding at the end of the pipeline. See the
// constants for the three recognized values.
type Mode = rules.Mode

// Re-exported so engine users don't have to import package rules for the
// common case.
const (
	ModeDefault = rules.ModeDefault
	ModeDigit   = rules.ModeDigit
	ModeName    = rules.ModeName
)

// config collects construction options before validation. Enable and
// disable patterns are held separately because their evaluation order is
// fixed (disable first, then enable) regardless of the order the options
// were written in.
type config struct {
	reg      *rules.Registry
	lang     string
	mode     Mode
	disable  []string
	enable   []string
	settings map[string]rules.Settings
	hooks    []Hook
	tokens   TokenGenerator
}

// Option configures an Engine at construction.
type Option func(*config)

// WithLang sets the engine's default language scope.
func WithLang(lang string) Option {
	return func(c *config) { c.lang = lang }
}

// WithMode sets the engine's default output mode.
func WithMode(mode Mode) Option {
	return func(c *config) { c.mode = mode }
}

// WithDisable turns rules off by name or wildcard pattern. All disables are
// applied before any enables, so an enable always wins on conflict.
// Patterns that match nothing are silent no-ops.
func WithDisable(patterns ...string) Option {
	return func(c *config) { c.disable = append(c.disable, patterns...) }
}

// WithEnable turns rules on by name or wildcard pattern.
func WithEnable(patterns ...string) Option {
	return func(c *config) { c.enable = append(c.enable, patterns...) }
}

// WithSettings overrides a rule's default settings. Keys not present in the
// override keep their defaults.
func WithSettings(rule string, s rules.Settings) Option {
	return func(c *config) {
		if c.settings == nil {
			c.settings = make(map[string]rules.Settings)
		}
		c.settings[rule] = c.settings[rule].Merge(s)
	}
}

// WithHook adds an observation hook invoked around every firing rule.
// Hooks see what happened; they cannot alter it.
func WithHook(h Hook) Option {
	return func(c *config) { c.hooks = append(c.hooks, h) }
}

// WithTokenGenerator replaces the run-token source. Tests use this to pin
// tokens; production code has no reason to.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(c *config) { c.tokens = g }
}

// WithRegistry builds the engine over a registry other than rules.Default.
// Engines on a custom registry get exactly the rules registered there; the
// builtin catalogue is only installed into the default registry.
func WithRegistry(reg *rules.Registry) Option {
	return func(c *config) { c.reg = reg }
}

// callOpts are the per-invocation overrides.
type callOpts struct {
	lang string
	mode Mode
}

// ProcessOption overrides engine defaults for a single Process call without
// mutating the engine.
type ProcessOption func(*callOpts)

// Lang overrides the language scope for one call.
func Lang(lang string) ProcessOption {
	return func(c *callOpts) { c.lang = lang }
}

// OutputMode overrides the output mode for one call.
func OutputMode(mode Mode) ProcessOption {
	return func(c *callOpts) { c.mode = mode }
}
