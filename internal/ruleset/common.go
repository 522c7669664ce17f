package ruleset

import (
	"regexp"
	"strings"

	"github.com/typograf/typograf/internal/quotes"
	"github.com/typograf/typograf/rules"
)

func registerCommon(reg *rules.Registry) error {
	if err := reg.RegisterInner(rules.Rule{
		Name:  "common/controls",
		Phase: rules.PhaseStart,
		Apply: applyControls,
	}); err != nil {
		return err
	}
	for _, r := range []rules.Rule{
		{Name: "common/ellipsis", SortIndex: 8, Apply: applyEllipsis},
		{Name: "common/quotes", SortIndex: 10, Apply: applyQuotes},
		{Name: "common/dash", SortIndex: 20, Apply: applyDash},
		{Name: "common/marks", SortIndex: 40, Apply: applyMarks},
		{Name: "common/spaces", SortIndex: 90, Disabled: true, Apply: applySpaces},
		{Name: "common/blanklines", Phase: rules.PhaseEnd, SortIndex: 10, Apply: applyBlankLines},
	} {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// applyControls strips C0 control characters other than newline and tab,
// along with the BOM. Line endings are already normalized by the time any
// phase runs, so stray carriage returns are gone before this fires.
func applyControls(text string, _ rules.Context) (string, error) {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r == '﻿':
			return -1
		}
		return r
	}, text), nil
}

var ellipsisReplacer = strings.NewReplacer("...", "…")

// applyEllipsis runs before common/quotes so that a freshly made ellipsis
// counts as quotable content when the quote classifier looks at the rune
// after a candidate mark.
func applyEllipsis(text string, _ rules.Context) (string, error) {
	return ellipsisReplacer.Replace(text), nil
}

// applyQuotes converts quotation marks to the nested pairs configured for
// the active language. Languages without a quote config pass through.
func applyQuotes(text string, c rules.Context) (string, error) {
	cfg, ok := c.Quotes()
	if !ok {
		return text, nil
	}
	return quotes.Normalize(text, cfg), nil
}

// applyDash converts dash runs and spaced hyphens. Triple hyphen is always
// an em dash and double always an en dash; a spaced hyphen becomes the
// language's text dash with a no-break space before it so the dash never
// starts a line. The text dash is an en dash for English and an em dash
// everywhere else; the "glyph" setting overrides the language choice.
func applyDash(text string, c rules.Context) (string, error) {
	dash := "—"
	if c.Lang == "en" {
		dash = "–"
	}
	dash = c.Settings.Str("glyph", dash)
	text = strings.ReplaceAll(text, "---", "—")
	text = strings.ReplaceAll(text, "--", "–")
	return strings.ReplaceAll(text, " - ", nbsp+dash+" "), nil
}

var markReplacements = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\((?i:c)\)`), "©"},
	{regexp.MustCompile(`\((?i:r)\)`), "®"},
	{regexp.MustCompile(`\((?i:tm)\)`), "™"},
}

func applyMarks(text string, _ rules.Context) (string, error) {
	for _, m := range markReplacements {
		text = m.re.ReplaceAllString(text, m.repl)
	}
	return text, nil
}

var multiSpaceRE = regexp.MustCompile(` {2,}`)

// applySpaces collapses runs of ordinary spaces. Disabled by default
// because column-aligned plain text is common in input; no-break spaces
// inserted by other rules are never touched.
func applySpaces(text string, _ rules.Context) (string, error) {
	return multiSpaceRE.ReplaceAllString(text, " "), nil
}

var blankLinesRE = regexp.MustCompile(`\n{3,}`)

func applyBlankLines(text string, _ rules.Context) (string, error) {
	return blankLinesRE.ReplaceAllString(text, "\n\n"), nil
}
