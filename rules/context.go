package rules

// Context is the per-invocation view a rule gets alongside the text. It
// replaces any notion of rules reaching into engine state: everything a
// rule may consult is threaded in explicitly, which is also what makes
// concurrent invocations on one engine safe.
type Context struct {
	// Lang is the invocation's resolved language scope.
	Lang string

	// Settings are the rule's defaults merged with the engine's overlay
	// for this rule.
	Settings Settings

	quotes    QuoteConfig
	hasQuotes bool
	data      func(string) string
}

// NewContext assembles a context. Engines call this; tests may too.
func NewContext(lang string, s Settings, q QuoteConfig, hasQuotes bool, data func(string) string) Context {
	return Context{Lang: lang, Settings: s, quotes: q, hasQuotes: hasQuotes, data: data}
}

// Quotes returns the quote config for the invocation's language, if the
// registry has one.
func (c Context) Quotes() (QuoteConfig, bool) {
	return c.quotes, c.hasQuotes
}

// Data reads a shared lookup string, "" when absent or when the context
// was built without a data source.
func (c Context) Data(key string) string {
	if c.data == nil {
		return ""
	}
	return c.data(key)
}
