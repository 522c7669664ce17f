package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Phase places a rule in one of the three pipeline stages.
//
// The zero value is PhaseMain, where almost every rule runs: protected spans
// are hidden and entities are decoded to literal characters, so rules see
// plain text.
type Phase uint8

const (
	// PhaseMain runs between entity decoding and re-encoding, with protected
	// spans hidden. Rules with no explicit phase run here.
	PhaseMain Phase = iota

	// PhaseStart runs on raw input, before markup detection and hiding.
	PhaseStart

	// PhaseEnd runs on the final text, after protected spans are restored.
	PhaseEnd
)

// String returns the phase name used in profiles and scenario files.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseEnd:
		return "end"
	default:
		return "main"
	}
}

// ParsePhase converts a phase name to a Phase. The empty string parses to
// PhaseMain, matching the zero value.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "", "main":
		return PhaseMain, nil
	case "start":
		return PhaseStart, nil
	case "end":
		return PhaseEnd, nil
	default:
		return PhaseMain, fmt.Errorf("unknown phase %q (want start, main, or end)", s)
	}
}

// ApplyFunc is a rule's transformation. It receives the current text and
// the invocation context (active language, effective settings, quote
// config, shared data) and returns the rewritten text.
//
// Apply functions must be pure: same text and context, same result. They
// must not retain the context or mutate its settings map.
type ApplyFunc func(text string, c Context) (string, error)

// Rule is a named, language-scoped, priority-ordered text transformation.
//
// Name is "<lang>/<id>" where lang is a language code or "common". The
// language scope is carried by the name: a rule fires only when its language
// segment is "common" or equals the invocation's active language.
//
// Rules are immutable once registered. The zero values are chosen so that a
// minimal literal is a valid main-phase, enabled rule.
type Rule struct {
	// Name uniquely identifies the rule, "<lang-or-common>/<id>".
	Name string

	// Phase selects the pipeline stage. Zero value is PhaseMain.
	Phase Phase

	// SortIndex orders rules within a phase, ascending. Rules with equal
	// SortIndex run in registration order.
	SortIndex int

	// Disabled marks the rule off by default. Engines copy the inverse into
	// their enabled mask at construction; Enable/Disable adjust from there.
	Disabled bool

	// Settings are the rule's default settings, merged under any per-engine
	// override before each apply.
	Settings Settings

	// Apply performs the transformation. Required.
	Apply ApplyFunc
}

// Lang returns the rule's language scope, the segment of Name before the
// first slash ("common" for language-neutral rules).
func (r Rule) Lang() string {
	if i := strings.IndexByte(r.Name, '/'); i >= 0 {
		return r.Name[:i]
	}
	return r.Name
}

// ID returns the rule's identifier, the part of Name after the language
// segment.
func (r Rule) ID() string {
	if i := strings.IndexByte(r.Name, '/'); i >= 0 {
		return r.Name[i+1:]
	}
	return ""
}

// ruleNameRE constrains rule names to slash-separated lowercase segments.
// The first segment is the language scope.
var ruleNameRE = regexp.MustCompile(`^[a-z][a-z0-9-]*(/[a-z][a-z0-9-]*)+$`)

// validate checks the structural requirements on a rule at registration.
func (r Rule) validate() error {
	if !ruleNameRE.MatchString(r.Name) {
		return fmt.Errorf("invalid rule name %q (want \"<lang>/<id>\" in lowercase)", r.Name)
	}
	if r.Apply == nil {
		return fmt.Errorf("rule %s: nil Apply", r.Name)
	}
	if r.Phase > PhaseEnd {
		return fmt.Errorf("rule %s: unknown phase %d", r.Name, r.Phase)
	}
	return nil
}
