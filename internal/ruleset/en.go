package ruleset

import (
	"regexp"

	"github.com/typograf/typograf/rules"
)

func registerEn(reg *rules.Registry) error {
	return reg.Register(rules.Rule{
		Name:      "en/apostrophe",
		SortIndex: 60,
		Apply:     applyApostrophe,
	})
}

var apostropheRE = regexp.MustCompile(`([a-zA-Z])'([a-zA-Z])`)

// applyApostrophe curls straight apostrophes between letters. Contractions
// with two apostrophes ("can't've") need a second pass because the first
// match consumes the letter bounding the next one.
func applyApostrophe(text string, _ rules.Context) (string, error) {
	for i := 0; i < 2; i++ {
		text = apostropheRE.ReplaceAllString(text, "${1}’${2}")
	}
	return text, nil
}
