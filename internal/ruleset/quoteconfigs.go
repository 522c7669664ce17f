package ruleset

import "github.com/typograf/typograf/rules"

// Builtin quote pairs. Russian reuses the outer pair for nesting, so its
// doubled marks collapse; the other languages carry a distinct inner pair.
func registerQuoteConfigs(reg *rules.Registry) {
	reg.RegisterQuotes("ru", rules.QuoteConfig{
		OuterLeft: "«", OuterRight: "»",
		InnerLeft: "«", InnerRight: "»",
	})
	reg.RegisterQuotes("en", rules.QuoteConfig{
		OuterLeft: "“", OuterRight: "”",
		InnerLeft: "‘", InnerRight: "’",
	})
	reg.RegisterQuotes("de", rules.QuoteConfig{
		OuterLeft: "„", OuterRight: "“",
		InnerLeft: "‚", InnerRight: "‘",
	})
	reg.RegisterQuotes("fr", rules.QuoteConfig{
		OuterLeft: "«", OuterRight: "»",
		InnerLeft: "‹", InnerRight: "›",
	})
	reg.RegisterQuotes("pl", rules.QuoteConfig{
		OuterLeft: "„", OuterRight: "”",
		InnerLeft: "«", InnerRight: "»",
	})
}
