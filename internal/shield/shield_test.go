package shield

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typograf/typograf/rules"
)

// testSpecs registers span patterns and returns them compiled.
func testSpecs(t *testing.T, pairs ...[2]string) []rules.SafeTagSpec {
	t.Helper()
	reg := rules.NewRegistry()
	for _, p := range pairs {
		require.NoError(t, reg.RegisterSafeTag(rules.SafeTagSpec{Open: p[0], Close: p[1]}))
	}
	return reg.SafeTags()
}

func TestHideRestoreRoundTrip(t *testing.T) {
	specs := testSpecs(t, [2]string{`<!--`, `-->`})
	input := `before <!-- "raw quotes" stay --> after`

	hidden, h := Hide(input, specs)
	assert.NotContains(t, hidden, "raw quotes")
	assert.Equal(t, 1, h.Len())

	assert.Equal(t, input, Restore(hidden, h))
}

func TestHiddenSpanSurvivesRuleRewrites(t *testing.T) {
	specs := testSpecs(t, [2]string{`<pre[^>]*>`, `</pre>`})
	input := `say "hi" <pre>keep "this" verbatim</pre>`

	hidden, h := Hide(input, specs)

	// A rule rewriting every straight quote must not touch the span.
	mutated := strings.ReplaceAll(hidden, `"`, "“")
	restored := Restore(mutated, h)

	assert.Contains(t, restored, `keep "this" verbatim`)
	assert.NotContains(t, restored, `say "hi"`)
}

func TestGenericTagPass(t *testing.T) {
	// No named specs at all: ordinary tags still get hidden.
	hidden, h := Hide(`a <b class="x">bold</b> z`, nil)

	assert.Equal(t, 2, h.Len())
	assert.NotContains(t, hidden, "<b")
	assert.NotContains(t, hidden, "</b>")
	assert.Contains(t, hidden, "bold")

	assert.Equal(t, `a <b class="x">bold</b> z`, Restore(hidden, h))
}

func TestNamedSpecsRunBeforeGenericPass(t *testing.T) {
	specs := testSpecs(t, [2]string{`<pre[^>]*>`, `</pre>`})
	input := `<pre><i>inside</i></pre><i>outside</i>`

	hidden, h := Hide(input, specs)

	// The pre span swallowed its inner tags; only the outside <i> pair fed
	// the generic pass.
	assert.Equal(t, 3, h.Len())
	assert.Contains(t, hidden, "outside")
	assert.NotContains(t, hidden, "inside")

	assert.Equal(t, input, Restore(hidden, h))
}

func TestNestedRevealNeedsSecondPass(t *testing.T) {
	specs := testSpecs(t,
		[2]string{`<!--`, `-->`},
		[2]string{`<pre[^>]*>`, `</pre>`},
	)
	// The comment is hidden first; the pre span then hides the comment's
	// token inside itself. Restore must run until both reappear.
	input := `<pre><!-- nested --></pre>`

	hidden, h := Hide(input, specs)
	require.Equal(t, 2, h.Len())
	assert.Equal(t, 1, utf8.RuneCountInString(hidden))

	assert.Equal(t, input, Restore(hidden, h))
}

func TestCaseInsensitiveMatching(t *testing.T) {
	specs := testSpecs(t, [2]string{`<pre[^>]*>`, `</pre>`})

	hidden, h := Hide(`<PRE>x</Pre>`, specs)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, `<PRE>x</Pre>`, Restore(hidden, h))
}

func TestSpansCrossNewlines(t *testing.T) {
	specs := testSpecs(t, [2]string{`<script[^>]*>`, `</script>`})
	input := "<script>\nvar a = 1;\n</script>"

	hidden, h := Hide(input, specs)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, input, Restore(hidden, h))
}

func TestReservedInputRunesAreStripped(t *testing.T) {
	// A private-use rune in the input could collide with a token; Hide
	// drops it before allocating anything.
	hidden, h := Hide("xy <b>q</b>", nil)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "xy <b>q</b>", Restore(hidden, h))
}

func TestTokensAreSingleRunes(t *testing.T) {
	hidden, h := Hide(`<a href="u">t</a>`, nil)

	require.Equal(t, 2, h.Len())
	// "t" plus two placeholder runes.
	assert.Equal(t, 3, utf8.RuneCountInString(hidden))
	for _, r := range hidden {
		if r != 't' {
			assert.True(t, isReserved(r))
		}
	}
}

func TestRestoreWithoutTokensIsIdentity(t *testing.T) {
	hidden, h := Hide("no markup here", nil)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, "no markup here", Restore(hidden, h))
	assert.Equal(t, "anything", Restore("anything", nil))
}
