package rules

import (
	"fmt"
	"regexp"
)

// Mode controls entity re-encoding at the end of the pipeline.
type Mode string

const (
	// ModeDefault leaves literal Unicode characters as-is.
	ModeDefault Mode = "default"

	// ModeDigit re-encodes every character present in the entity table to
	// its numeric form, "&#171;".
	ModeDigit Mode = "digit"

	// ModeName re-encodes to the named form, "&laquo;", falling back to the
	// numeric form for table rows without a name.
	ModeName Mode = "name"
)

// ParseMode converts a mode name to a Mode. The empty string parses to
// ModeDefault.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeDefault:
		return ModeDefault, nil
	case ModeDigit:
		return ModeDigit, nil
	case ModeName:
		return ModeName, nil
	default:
		return ModeDefault, fmt.Errorf("unknown mode %q (want default, digit, or name)", s)
	}
}

// SafeTagSpec identifies a protected span by its open and close delimiters.
// Open and Close are regular expression fragments; the shield matches from
// an Open match to the nearest following Close, case-insensitively, across
// the whole text.
//
// Specs are compiled at registration, so a malformed pattern is a
// registration error, not a runtime one.
type SafeTagSpec struct {
	Open  string
	Close string

	re *regexp.Regexp
}

// compile builds the span regexp. (?s) lets the span cross newlines, which
// comments and script bodies routinely do.
func (s SafeTagSpec) compile() (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?is)" + s.Open + ".*?" + s.Close)
	if err != nil {
		return nil, fmt.Errorf("safe tag %q..%q: %w", s.Open, s.Close, err)
	}
	return re, nil
}

// Regexp returns the compiled span pattern. It is non-nil for every spec
// obtained from a registry.
func (s SafeTagSpec) Regexp() *regexp.Regexp {
	return s.re
}

// QuoteConfig holds a language's quotation glyphs. Outer glyphs wrap
// top-level quotations; inner glyphs wrap quotations nested inside them.
//
// If the outer and inner pairs are identical the language uses a
// single-level style with no visual nesting distinction.
type QuoteConfig struct {
	OuterLeft  string
	OuterRight string
	InnerLeft  string
	InnerRight string
}

// SingleLevel reports whether the config draws no distinction between
// nesting depths.
func (q QuoteConfig) SingleLevel() bool {
	return q.OuterLeft == q.InnerLeft && q.OuterRight == q.InnerRight
}

// EntityEntry maps one markup entity to its literal character. Name is the
// bare entity name ("laquo"); it may be empty for characters that only have
// a numeric form. The numeric form is derived from Char.
type EntityEntry struct {
	Name string
	Char rune
}

// NameForm returns "&laquo;", or "" when the entry has no name.
func (e EntityEntry) NameForm() string {
	if e.Name == "" {
		return ""
	}
	return "&" + e.Name + ";"
}

// DigitForm returns the decimal numeric form, "&#171;".
func (e EntityEntry) DigitForm() string {
	return fmt.Sprintf("&#%d;", e.Char)
}
