// Package quotes rewrites arbitrary raw quotation glyphs into a language's
// configured outer and inner pairs, correctly nested.
//
// Classification is a local-context heuristic over the previous and next
// rune, not a real nesting stack. Balanced everyday text classifies
// correctly; pathological input (unbalanced or deeply irregular quoting) can
// misclassify, and that is accepted behavior rather than something to guess
// a stricter algorithm for.
package quotes

import (
	"strings"
	"unicode"

	"github.com/typograf/typograf/rules"
)

// neutral is the collapsed marker every raw glyph becomes before
// classification.
const neutral = '"'

// rawMarks are the glyph variants authors reach for; all of them collapse
// to the neutral marker. Single guillemets and curly single quotes stay
// untouched: they are either inner glyphs this package itself emitted or
// apostrophes, and re-collapsing them would break idempotence.
const rawMarks = "«»„“”\""

func isRawMark(r rune) bool {
	switch r {
	case '«', '»', '„', '“', '”', neutral:
		return true
	}
	return false
}

// isWordish reports whether a rune binds a quote to its side the way letters
// do. Shield placeholder tokens are private-use runes, neither letters nor
// digits, so a hidden tag next to a quote never influences classification.
func isWordish(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// openerContext classifies a marker by its neighbors: a marker whose next
// rune starts word-like content (letter, digit, combining mark, ellipsis) is
// an opener, unless the previous rune already binds it to a preceding word,
// in which case it closes that word's quotation.
func openerContext(prev, next rune) bool {
	if isWordish(prev) {
		return false
	}
	return isWordish(next) || next == '…' || unicode.Is(unicode.Mn, next)
}

// Normalize rewrites every recognized quote glyph in text into cfg's glyphs.
//
// The passes are: collapse raw variants to the neutral marker, classify each
// marker as opener or closer from local context, then assign glyphs with a
// depth counter (outer at depth zero, inner below). A marker inside the
// text's leading whitespace is always an opener, which is what turns a
// "»«Title" opening into a double opener instead of a closer/opener pair.
//
// Single-level styles, and dual-level runs that never actually used the
// inner pair, additionally collapse doubled identical glyphs at a boundary:
// those are normalization artifacts, not intended nesting.
func Normalize(text string, cfg rules.QuoteConfig) string {
	if !strings.ContainsAny(text, rawMarks) {
		return text
	}

	runes := []rune(text)
	for i, r := range runes {
		if isRawMark(r) {
			runes[i] = neutral
		}
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	depth := 0
	innerUsed := false
	leading := true

	for i, r := range runes {
		wasLeading := leading
		if !unicode.IsSpace(r) {
			leading = false
		}
		if r != neutral {
			b.WriteRune(r)
			continue
		}

		var prev, next rune
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		if wasLeading || openerContext(prev, next) {
			if depth == 0 {
				b.WriteString(cfg.OuterLeft)
			} else {
				b.WriteString(cfg.InnerLeft)
				innerUsed = true
			}
			depth++
			continue
		}

		// Closer: close the innermost open level. Unbalanced closers at
		// depth zero stay outer and leave the depth clamped.
		if depth > 1 {
			b.WriteString(cfg.InnerRight)
			innerUsed = true
			depth--
		} else {
			b.WriteString(cfg.OuterRight)
			depth = 0
		}
	}

	out := b.String()
	if cfg.SingleLevel() || !innerUsed {
		out = collapseDoubled(out, cfg.OuterLeft)
		out = collapseDoubled(out, cfg.OuterRight)
	}
	return out
}

// collapseDoubled reduces immediately repeated glyphs to one occurrence,
// repeating so that longer runs also collapse.
func collapseDoubled(s, glyph string) string {
	if glyph == "" {
		return s
	}
	doubled := glyph + glyph
	for strings.Contains(s, doubled) {
		s = strings.ReplaceAll(s, doubled, glyph)
	}
	return s
}
