package ruleset

import "github.com/typograf/typograf/rules"

// entityTable lists the characters the codec round-trips. Decoding also
// accepts any numeric reference; this table governs which characters get
// re-encoded on output and which named forms are recognized. An entry
// with an empty name is numeric-only in both directions.
var entityTable = []rules.EntityEntry{
	{Name: "nbsp", Char: ' '},
	{Name: "shy", Char: '­'},
	{Name: "amp", Char: '&'},
	{Name: "lt", Char: '<'},
	{Name: "gt", Char: '>'},
	{Name: "quot", Char: '"'},
	{Name: "laquo", Char: '«'},
	{Name: "raquo", Char: '»'},
	{Name: "lsaquo", Char: '‹'},
	{Name: "rsaquo", Char: '›'},
	{Name: "bdquo", Char: '„'},
	{Name: "ldquo", Char: '“'},
	{Name: "rdquo", Char: '”'},
	{Name: "lsquo", Char: '‘'},
	{Name: "rsquo", Char: '’'},
	{Name: "sbquo", Char: '‚'},
	{Name: "ndash", Char: '–'},
	{Name: "mdash", Char: '—'},
	{Name: "hellip", Char: '…'},
	{Name: "copy", Char: '©'},
	{Name: "reg", Char: '®'},
	{Name: "trade", Char: '™'},
	{Name: "deg", Char: '°'},
	{Name: "plusmn", Char: '±'},
	{Name: "middot", Char: '·'},
	{Name: "sect", Char: '§'},
	{Name: "para", Char: '¶'},
	{Name: "times", Char: '×'},
	{Name: "minus", Char: '−'},
	{Name: "frac12", Char: '½'},
	{Name: "frac14", Char: '¼'},
	{Name: "frac34", Char: '¾'},
	{Name: "dagger", Char: '†'},
	{Name: "Dagger", Char: '‡'},
	{Name: "permil", Char: '‰'},
	{Name: "euro", Char: '€'},
	{Char: '№'},
}

func registerEntities(reg *rules.Registry) {
	reg.RegisterEntities(entityTable...)
}
