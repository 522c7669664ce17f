package rules

import (
	"regexp"
	"strings"
)

// Pattern selects rules by name. A pattern is either an exact rule name or a
// wildcard expression over the slash-segmented name space, where "*" matches
// any run of characters: "ru/*" selects every ru rule, "*/quotes" selects
// the quotes rule of every language.
//
// Wildcards compile to anchored regular expressions once, at construction.
type Pattern struct {
	raw string
	re  *regexp.Regexp // nil for exact-name patterns
}

// NewPattern compiles a pattern. Compilation cannot fail: everything except
// "*" is quoted literally.
func NewPattern(p string) Pattern {
	if !strings.ContainsRune(p, '*') {
		return Pattern{raw: p}
	}
	var b strings.Builder
	b.WriteByte('^')
	for i, part := range strings.Split(p, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteByte('$')
	return Pattern{raw: p, re: regexp.MustCompile(b.String())}
}

// Match reports whether a rule name is selected by the pattern.
func (p Pattern) Match(name string) bool {
	if p.re == nil {
		return p.raw == name
	}
	return p.re.MatchString(name)
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }
