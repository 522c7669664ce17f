package ruleset

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/typograf/typograf/rules"
)

const nbsp = " "

func registerRu(reg *rules.Registry) error {
	for _, r := range []rules.Rule{
		{Name: "ru/nbsp", SortIndex: 50, Apply: applyNbsp},
		{Name: "ru/plusmn", SortIndex: 55, Apply: applyPlusMinus},
	} {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// nbspREs caches compiled patterns keyed by letter class and word length,
// so the common path compiles exactly once per process.
var nbspREs sync.Map

func nbspRE(letters string, maxLen int64) (*regexp.Regexp, error) {
	key := fmt.Sprintf("%s|%d", letters, maxLen)
	if v, ok := nbspREs.Load(key); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(fmt.Sprintf(`(?i)(^|[^%[1]s])([%[1]s]{1,%[2]d}) `, letters, maxLen))
	if err != nil {
		return nil, err
	}
	nbspREs.Store(key, re)
	return re, nil
}

// applyNbsp glues short Cyrillic words to the word that follows with a
// no-break space, keeping prepositions and conjunctions off line ends.
// The letter class comes from the registry's "ru/letters" data; the
// "maxlen" setting bounds the word length and defaults to two runes.
func applyNbsp(text string, c rules.Context) (string, error) {
	letters := c.Data("ru/letters")
	if letters == "" {
		return text, nil
	}
	re, err := nbspRE(letters, c.Settings.Int("maxlen", 2))
	if err != nil {
		return text, fmt.Errorf("nbsp pattern for %q: %w", letters, err)
	}
	// A match consumes the space that bounds the next candidate, so chains
	// like "в и на" need a second pass to bind every short word.
	for i := 0; i < 2; i++ {
		text = re.ReplaceAllString(text, "${1}${2}"+nbsp)
	}
	return text, nil
}

func applyPlusMinus(text string, _ rules.Context) (string, error) {
	return strings.ReplaceAll(text, "+-", "±"), nil
}
