package typograf

import (
	"fmt"
	"log/slog"

	"github.com/typograf/typograf/internal/entity"
	"github.com/typograf/typograf/internal/ruleset"
	"github.com/typograf/typograf/rules"
)

// Engine runs the typographic pipeline over one registry.
//
// An engine is cheap: at construction it copies the registry's evaluation
// order, safe-tag specs, and entity table, and seeds its own enabled mask
// from the rule defaults. Rules registered after New are not seen by this
// engine; registration belongs to startup.
//
// Determinism invariant: the snapshot order never changes after New, the
// enabled mask only changes through Enable/Disable, and every rule is pure.
// Same configuration, same input, same output.
type Engine struct {
	reg      *rules.Registry
	lang     string
	mode     Mode
	enabled  map[string]bool
	settings map[string]rules.Settings
	hooks    []Hook
	tokens   TokenGenerator
	resolver *langResolver

	// Registry snapshot, taken at New. Index is the rules.Phase value.
	innerByPhase [3][]rules.Rule
	mainByPhase  [3][]rules.Rule
	names        []string
	tags         []rules.SafeTagSpec
	codec        *entity.Codec
}

// New builds an engine. Without options it reads the default registry
// (installing the builtin rule catalogue on first use), scopes to
// DefaultLang, and leaves entities as literal Unicode.
func New(opts ...Option) (*Engine, error) {
	cfg := config{
		reg:    rules.Default,
		lang:   DefaultLang,
		mode:   ModeDefault,
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := rules.ParseMode(string(cfg.mode)); err != nil {
		return nil, err
	}
	if cfg.lang == "" {
		return nil, fmt.Errorf("empty language scope")
	}
	if cfg.reg == rules.Default {
		ruleset.RegisterDefault()
	}

	e := &Engine{
		reg:      cfg.reg,
		lang:     cfg.lang,
		mode:     cfg.mode,
		enabled:  make(map[string]bool),
		settings: make(map[string]rules.Settings),
		hooks:    cfg.hooks,
		tokens:   cfg.tokens,
		tags:     cfg.reg.SafeTags(),
		codec:    entity.New(cfg.reg.Entities()),
		resolver: newLangResolver(cfg.reg.Langs()),
	}

	for _, r := range cfg.reg.AllInner() {
		e.innerByPhase[r.Phase] = append(e.innerByPhase[r.Phase], r)
		e.enabled[r.Name] = !r.Disabled
		e.names = append(e.names, r.Name)
	}
	for _, r := range cfg.reg.All() {
		e.mainByPhase[r.Phase] = append(e.mainByPhase[r.Phase], r)
		e.enabled[r.Name] = !r.Disabled
		e.names = append(e.names, r.Name)
	}

	// Disable before enable: an explicit enable wins on conflict no matter
	// how the options were ordered.
	e.setEnabled(cfg.disable, false)
	e.setEnabled(cfg.enable, true)
	for rule, s := range cfg.settings {
		e.settings[rule] = e.settings[rule].Merge(s)
	}

	return e, nil
}

// Enable turns rules on by exact name or wildcard pattern. Patterns that
// match no registered rule are silent no-ops, because a rule may
// legitimately not exist in a given build. Not synchronized against
// Process: configure first, then share.
func (e *Engine) Enable(patterns ...string) {
	e.setEnabled(patterns, true)
}

// Disable turns rules off by exact name or wildcard pattern.
func (e *Engine) Disable(patterns ...string) {
	e.setEnabled(patterns, false)
}

func (e *Engine) setEnabled(patterns []string, on bool) {
	for _, raw := range patterns {
		p := rules.NewPattern(raw)
		matched := 0
		for _, name := range e.names {
			if p.Match(name) {
				e.enabled[name] = on
				matched++
			}
		}
		if matched == 0 {
			slog.Debug("rule pattern matched nothing", "pattern", raw, "enable", on)
		}
	}
}

// Enabled reports whether a rule is currently on.
func (e *Engine) Enabled(name string) bool {
	return e.enabled[name]
}

// SetSettings overlays settings for one rule. Keys absent from the overlay
// keep the rule's defaults. Like Enable, not synchronized against Process.
func (e *Engine) SetSettings(rule string, s rules.Settings) {
	e.settings[rule] = e.settings[rule].Merge(s)
}

// RuleInfo describes one rule from this engine's perspective.
type RuleInfo struct {
	Name      string `json:"name"`
	Lang      string `json:"lang"`
	Phase     string `json:"phase"`
	SortIndex int    `json:"sort_index"`
	Inner     bool   `json:"inner,omitempty"`
	Enabled   bool   `json:"enabled"`
}

// Rules returns the engine's snapshot in evaluation order (inner rules of
// each phase before transformation rules, phases in pipeline order) with
// current enablement.
func (e *Engine) Rules() []RuleInfo {
	var out []RuleInfo
	for _, phase := range []rules.Phase{rules.PhaseStart, rules.PhaseMain, rules.PhaseEnd} {
		for _, r := range e.innerByPhase[phase] {
			out = append(out, e.ruleInfo(r, true))
		}
		for _, r := range e.mainByPhase[phase] {
			out = append(out, e.ruleInfo(r, false))
		}
	}
	return out
}

func (e *Engine) ruleInfo(r rules.Rule, inner bool) RuleInfo {
	return RuleInfo{
		Name:      r.Name,
		Lang:      r.Lang(),
		Phase:     r.Phase.String(),
		SortIndex: r.SortIndex,
		Inner:     inner,
		Enabled:   e.enabled[r.Name],
	}
}

// Lang returns the engine's default language scope.
func (e *Engine) Lang() string { return e.lang }

// Mode returns the engine's default output mode.
func (e *Engine) Mode() Mode { return e.mode }

// ResolveLang reports the rule scope a requested language tag maps to:
// "en-US" resolves to "en" when only "en" rules are registered. Tags that
// match no registered scope resolve to themselves.
func (e *Engine) ResolveLang(lang string) string {
	return e.resolver.resolve(lang)
}

// QuoteConfig returns the quote glyphs the engine would use for lang, after
// language resolution.
func (e *Engine) QuoteConfig(lang string) (rules.QuoteConfig, bool) {
	return e.reg.Quotes(e.resolver.resolve(lang))
}
