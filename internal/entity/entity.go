// Package entity converts markup entities to literal Unicode before the
// pipeline runs and re-encodes them afterwards per the output mode.
//
// Decoding is table-independent for numeric forms and table-driven for
// named forms; encoding is always table-driven. The same table row serves
// both directions, so decode(encode(text)) is the identity for any text
// whose characters the table covers.
package entity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/typograf/typograf/rules"
)

var (
	// numericRE matches decimal and hexadecimal numeric entities.
	numericRE = regexp.MustCompile(`&#(?:[xX][0-9a-fA-F]+|[0-9]+);`)

	// namedRE matches alphabetic entity markers. Names may carry trailing
	// digits ("frac12").
	namedRE = regexp.MustCompile(`&[a-zA-Z][a-zA-Z0-9]*;`)
)

// Codec performs entity decoding and encoding over one entity table.
// Build it once per engine; it is read-only and safe to share.
type Codec struct {
	byName map[string]rune
	byChar map[rune]rules.EntityEntry
}

// New indexes the table in both directions. Later rows win on collision,
// mirroring the registry's append semantics.
func New(table []rules.EntityEntry) *Codec {
	c := &Codec{
		byName: make(map[string]rune, len(table)),
		byChar: make(map[rune]rules.EntityEntry, len(table)),
	}
	for _, e := range table {
		if e.Name != "" {
			c.byName[e.Name] = e.Char
		}
		c.byChar[e.Char] = e
	}
	return c
}

// Decode replaces numeric entities, then named ones, with their literal
// characters. A numeric value that is not a valid Unicode scalar (surrogate,
// out of range, overflow) decodes to U+FFFD. Unknown names stay untouched;
// they are ordinary text as far as this package can tell.
func (c *Codec) Decode(text string) string {
	if strings.Contains(text, "&#") {
		text = numericRE.ReplaceAllStringFunc(text, decodeNumeric)
	}
	if strings.ContainsRune(text, '&') {
		text = namedRE.ReplaceAllStringFunc(text, func(match string) string {
			r, ok := c.byName[match[1:len(match)-1]]
			if !ok {
				return match
			}
			return string(r)
		})
	}
	return text
}

// decodeNumeric converts one numeric entity match to its literal character.
func decodeNumeric(match string) string {
	body := match[2 : len(match)-1]
	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		base = 16
		body = body[1:]
	}
	n, err := strconv.ParseUint(body, base, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return string(utf8.RuneError)
	}
	return string(rune(n))
}

// Encode rewrites every literal character that has a table row into its
// entity form: the numeric form for ModeDigit, the named form for ModeName
// (numeric when the row has no name). ModeDefault returns the text as-is.
//
// The scan is a single pass over the input runes writing straight to the
// output, so an emitted "&amp;" is never re-encoded.
func (c *Codec) Encode(text string, mode rules.Mode) string {
	if mode == rules.ModeDefault || mode == "" {
		return text
	}
	var b *strings.Builder
	for i, r := range text {
		e, ok := c.byChar[r]
		if !ok {
			if b != nil {
				b.WriteRune(r)
			}
			continue
		}
		if b == nil {
			b = &strings.Builder{}
			b.Grow(len(text) + 16)
			b.WriteString(text[:i])
		}
		if mode == rules.ModeName && e.Name != "" {
			b.WriteString(e.NameForm())
		} else {
			b.WriteString(e.DigitForm())
		}
	}
	if b == nil {
		return text
	}
	return b.String()
}
