// Package shield hides protected markup spans behind placeholder tokens and
// restores the originals byte-for-byte after the pipeline has run.
//
// Tokens are single code points allocated sequentially from the Unicode
// private-use areas, so they survive any rule that does not deliberately
// target them: they are not letters, not digits, not punctuation, and never
// look like markup. Runes already in the reserved ranges are stripped from
// the input before hiding; that sacrifice is what makes token uniqueness a
// guarantee instead of a probability.
//
// State is explicit: Hide returns a Hidden table that the caller threads to
// Restore. Nothing is captured in closures, so one table belongs to exactly
// one invocation.
package shield

import (
	"regexp"
	"strings"

	"github.com/typograf/typograf/rules"
)

// genericTagRE hides any remaining markup-tag-shaped span after the named
// specs have run: "<" followed by a letter or slash, up to the next ">".
var genericTagRE = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

// Token allocation walks the three private-use areas in order.
const (
	bmpPUAStart = 0xE000
	bmpPUAEnd   = 0xF8FF
	planeAStart = 0xF0000
	planeAEnd   = 0xFFFFD
	planeBStart = 0x100000
	planeBEnd   = 0x10FFFD
)

// Hidden maps placeholder tokens back to the original spans of one
// invocation. It is created by Hide, consumed by Restore, and must not be
// shared across invocations.
type Hidden struct {
	spans      map[rune]string
	next       rune
	categories int
}

// Len returns the number of spans currently hidden.
func (h *Hidden) Len() int {
	if h == nil {
		return 0
	}
	return len(h.spans)
}

// isReserved reports whether a rune lies in the private-use ranges tokens
// are drawn from.
func isReserved(r rune) bool {
	return (r >= bmpPUAStart && r <= bmpPUAEnd) ||
		(r >= planeAStart && r <= planeAEnd) ||
		(r >= planeBStart && r <= planeBEnd)
}

// alloc returns the next free token.
func (h *Hidden) alloc() rune {
	tok := h.next
	switch {
	case tok == bmpPUAEnd:
		h.next = planeAStart
	case tok == planeAEnd:
		h.next = planeBStart
	default:
		h.next = tok + 1
	}
	return tok
}

// Hide replaces every protected span with a fresh placeholder token and
// records the original. Named specs run first, in registration order, then
// one generic pass catches ordinary tags not covered by a spec.
//
// Specs must come from a registry, so their patterns are compiled; a spec
// with a nil pattern is skipped.
func Hide(text string, specs []rules.SafeTagSpec) (string, *Hidden) {
	h := &Hidden{
		spans:      make(map[rune]string),
		next:       bmpPUAStart,
		categories: len(specs) + 1,
	}

	// Input runes inside the reserved ranges would be indistinguishable
	// from tokens on restore. Drop them up front.
	if strings.ContainsFunc(text, isReserved) {
		text = strings.Map(func(r rune) rune {
			if isReserved(r) {
				return -1
			}
			return r
		}, text)
	}

	for _, spec := range specs {
		re := spec.Regexp()
		if re == nil {
			continue
		}
		text = re.ReplaceAllStringFunc(text, h.hideSpan)
	}
	text = genericTagRE.ReplaceAllStringFunc(text, h.hideSpan)
	return text, h
}

func (h *Hidden) hideSpan(match string) string {
	tok := h.alloc()
	h.spans[tok] = match
	return string(tok)
}

// Restore substitutes every token with its recorded span. Restoring one
// span can reveal tokens that were hidden inside it on an earlier hide
// pass, so restoration repeats up to the number of span categories and
// stops early once a pass finds no token.
//
// Tokens that a rule destroyed or fabricated cannot be restored faithfully;
// unknown tokens are left in place for the caller to observe rather than
// silently dropped.
func Restore(text string, h *Hidden) string {
	if h.Len() == 0 {
		return text
	}
	for pass := 0; pass < h.categories; pass++ {
		replaced, again := h.restoreOnce(text)
		text = replaced
		if !again {
			break
		}
	}
	return text
}

// restoreOnce performs a single substitution scan. It reports whether any
// token was found, meaning another pass may be needed.
func (h *Hidden) restoreOnce(text string) (string, bool) {
	if !strings.ContainsFunc(text, isReserved) {
		return text, false
	}
	var b strings.Builder
	b.Grow(len(text))
	found := false
	for _, r := range text {
		if orig, ok := h.spans[r]; ok {
			b.WriteString(orig)
			found = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), found
}
