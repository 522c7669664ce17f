package ruleset

import "github.com/typograf/typograf/rules"

// contentTags are elements whose body is never typographic text. Their
// whole span, tags included, is hidden before any rule runs.
var contentTags = []string{"pre", "code", "kbd", "samp", "var", "script", "style", "textarea"}

func registerSafeTags(reg *rules.Registry) error {
	specs := []rules.SafeTagSpec{
		{Open: `<!--`, Close: `-->`},
		{Open: `<!\[CDATA\[`, Close: `\]\]>`},
		{Open: `<!doctype`, Close: `>`},
		{Open: `<!entity`, Close: `>`},
		{Open: `<\?xml`, Close: `\?>`},
	}
	for _, tag := range contentTags {
		// The optional attribute group starts with whitespace so that
		// "pre" does not swallow tags like <present>.
		specs = append(specs, rules.SafeTagSpec{
			Open:  `<` + tag + `(?:\s[^>]*)?>`,
			Close: `</` + tag + `>`,
		})
	}
	for _, spec := range specs {
		if err := reg.RegisterSafeTag(spec); err != nil {
			return err
		}
	}
	return nil
}
