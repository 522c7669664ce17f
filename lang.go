package typograf

import (
	"strings"

	"golang.org/x/text/language"
)

// langResolver maps a requested language to one the registry actually has
// rules or quote configs for. Exact registered codes pass through; anything
// else goes through BCP 47 matching, so "en-US" and "en_GB" land on "en".
// A language the registry has never heard of resolves to itself: the rule
// filter then simply runs common rules only.
type langResolver struct {
	exact map[string]bool
	langs []string
	match language.Matcher
}

func newLangResolver(registered []string) *langResolver {
	r := &langResolver{exact: make(map[string]bool, len(registered))}
	var tags []language.Tag
	for _, l := range registered {
		r.exact[l] = true
		tag, err := language.Parse(l)
		if err != nil {
			// Not a BCP 47 code; still matchable exactly.
			continue
		}
		tags = append(tags, tag)
		r.langs = append(r.langs, l)
	}
	if len(tags) > 0 {
		r.match = language.NewMatcher(tags)
	}
	return r
}

func (r *langResolver) resolve(requested string) string {
	if requested == "" || r.exact[requested] {
		return requested
	}
	if r.match == nil {
		return requested
	}
	// POSIX-style codes ("en_GB") are common in caller environments; BCP 47
	// parsing wants hyphens.
	tag, err := language.Parse(strings.ReplaceAll(requested, "_", "-"))
	if err != nil {
		return requested
	}
	if _, idx, conf := r.match.Match(tag); conf > language.No {
		return r.langs[idx]
	}
	return requested
}
