package typograf

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typograf/typograf/rules"
)

func mustEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestProcessEmptyInput(t *testing.T) {
	// An exhausted-from-the-start token source proves the short circuit:
	// generating a token for empty input would panic.
	e := mustEngine(t, WithTokenGenerator(NewFixedGenerator()))
	out, err := e.Process("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestProcessRussian(t *testing.T) {
	e := mustEngine(t, WithLang("ru"))
	out, err := e.Process(`Снег - это "вода"...`)
	require.NoError(t, err)
	assert.Equal(t, "Снег — это «вода»…", out)
}

func TestProcessEnglishNesting(t *testing.T) {
	e := mustEngine(t, WithLang("en"))
	out, err := e.Process(`He said "Go to the "store"" today...`)
	require.NoError(t, err)
	assert.Equal(t, "He said “Go to the ‘store’” today…", out)
}

func TestProcessMarkup(t *testing.T) {
	e := mustEngine(t, WithLang("en"))
	in := `<p>The "word"</p><pre>keep "this" -- raw</pre>`
	out, err := e.Process(in)
	require.NoError(t, err)
	assert.Equal(t, `<p>The “word”</p><pre>keep "this" -- raw</pre>`, out)
}

func TestShieldRoundTrip(t *testing.T) {
	// With every rule off and default output mode, text built from protected
	// spans comes back byte for byte.
	e := mustEngine(t, WithLang("ru"), WithDisable("*"))
	in := `<!-- "с" & «к» --><pre>a &amp; "b"</pre>plain "x" here`
	out, err := e.Process(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProcessDigitMode(t *testing.T) {
	e := mustEngine(t, WithLang("en"))
	out, err := e.Process(`&laquo;x&raquo; -- y`, OutputMode(ModeDigit))
	require.NoError(t, err)
	assert.Equal(t, `&#8220;x&#8221; &#8211; y`, out)
}

func TestProcessNameMode(t *testing.T) {
	e := mustEngine(t, WithLang("ru"), WithMode(ModeName))
	out, err := e.Process(`"снег" и точка...`)
	require.NoError(t, err)
	assert.Equal(t, `&laquo;снег&raquo; и&nbsp;точка&hellip;`, out)
}

func TestProcessModeFromEngine(t *testing.T) {
	e := mustEngine(t, WithLang("ru"), WithMode(ModeDigit))
	out, err := e.Process("ёлка…")
	require.NoError(t, err)
	assert.Equal(t, "ёлка&#8230;", out, "table characters encode, everything else stays literal")
}

func TestProcessPerCallOverrides(t *testing.T) {
	e := mustEngine(t, WithLang("en"))

	out, err := e.Process(`"снег"`, Lang("ru"))
	require.NoError(t, err)
	assert.Equal(t, "«снег»", out)

	// The override is per call; the engine default is untouched.
	out, err = e.Process(`"snow"`)
	require.NoError(t, err)
	assert.Equal(t, "“snow”", out)
}

func TestProcessInvalidMode(t *testing.T) {
	e := mustEngine(t)
	_, err := e.Process("x", OutputMode(Mode("bogus")))
	assert.Error(t, err)
}

func TestProcessCRLF(t *testing.T) {
	e := mustEngine(t)
	out, err := e.Process("a\r\nb\rc\nd")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nd", out)
}

func TestProcessDeterminism(t *testing.T) {
	in := `Он сказал - "Привет"... и ушёл <b>тихо</b>`
	e := mustEngine(t, WithLang("ru"))

	first, err := e.Process(in)
	require.NoError(t, err)
	second, err := e.Process(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := mustEngine(t, WithLang("ru"))
	third, err := other.Process(in)
	require.NoError(t, err)
	assert.Equal(t, first, third, "equal configuration must mean equal output")
}

func TestProcessConcurrent(t *testing.T) {
	e := mustEngine(t, WithLang("ru"))
	in := `"Первый" тест - коротко... <pre>и "сырой" кусок</pre>`
	want, err := e.Process(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	outs := make([]string, 16)
	errs := make([]error, 16)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = e.Process(in)
		}(i)
	}
	wg.Wait()

	for i := range outs {
		require.NoError(t, errs[i])
		assert.Equal(t, want, outs[i])
	}
}

func markerRule(name string, phase rules.Phase, sort int, mark string) rules.Rule {
	return rules.Rule{
		Name:      name,
		Phase:     phase,
		SortIndex: sort,
		Apply: func(text string, _ rules.Context) (string, error) {
			return text + mark, nil
		},
	}
}

func TestPhaseAndBucketOrder(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(markerRule("common/end", rules.PhaseEnd, 0, "[e]")))
	require.NoError(t, reg.Register(markerRule("common/main", rules.PhaseMain, 0, "[m]")))
	require.NoError(t, reg.Register(markerRule("common/start", rules.PhaseStart, 0, "[s]")))
	require.NoError(t, reg.RegisterInner(markerRule("common/pre", rules.PhaseMain, 99, "[i]")))

	e := mustEngine(t, WithRegistry(reg))
	out, err := e.Process("x")
	require.NoError(t, err)
	// Phases run start, main, end; inner rules lead their phase even with a
	// higher sort priority than the transformation rules.
	assert.Equal(t, "x[s][i][m][e]", out)
}

func TestRegistrationOrderBreaksTies(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(markerRule("common/first", rules.PhaseMain, 5, "[a]")))
	require.NoError(t, reg.Register(markerRule("common/second", rules.PhaseMain, 5, "[b]")))

	e := mustEngine(t, WithRegistry(reg))
	out, err := e.Process("x")
	require.NoError(t, err)
	assert.Equal(t, "x[a][b]", out)
}

func TestLanguageScopeFilters(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(markerRule("ru/only", rules.PhaseMain, 0, "[ru]")))
	require.NoError(t, reg.Register(markerRule("en/only", rules.PhaseMain, 0, "[en]")))
	require.NoError(t, reg.Register(markerRule("common/always", rules.PhaseMain, 1, "[c]")))

	e := mustEngine(t, WithRegistry(reg), WithLang("ru"))
	out, err := e.Process("x")
	require.NoError(t, err)
	assert.Equal(t, "x[ru][c]", out)

	out, err = e.Process("x", Lang("en"))
	require.NoError(t, err)
	assert.Equal(t, "x[en][c]", out)
}

func TestWildcardDisable(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(markerRule("ru/quotes", rules.PhaseMain, 0, "[rq]")))
	require.NoError(t, reg.Register(markerRule("ru/dash", rules.PhaseMain, 1, "[rd]")))
	require.NoError(t, reg.Register(markerRule("en/quotes", rules.PhaseMain, 2, "[eq]")))

	e := mustEngine(t, WithRegistry(reg), WithLang("ru"), WithDisable("ru/*"))
	assert.False(t, e.Enabled("ru/quotes"))
	assert.False(t, e.Enabled("ru/dash"))
	assert.True(t, e.Enabled("en/quotes"))

	out, err := e.Process("x")
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	out, err = e.Process("x", Lang("en"))
	require.NoError(t, err)
	assert.Equal(t, "x[eq]", out)
}

func TestRuleErrorAborts(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register(markerRule("common/grow", rules.PhaseMain, 0, "[a]")))
	require.NoError(t, reg.Register(rules.Rule{
		Name:      "common/boom",
		SortIndex: 1,
		Apply: func(string, rules.Context) (string, error) {
			return "", errors.New("boom")
		},
	}))

	e := mustEngine(t, WithRegistry(reg))
	out, err := e.Process("x")
	assert.ErrorContains(t, err, "rule common/boom: boom")
	assert.Equal(t, "", out, "failed invocations return no partial result")
}

func TestSettingsReachRules(t *testing.T) {
	e := mustEngine(t, WithLang("ru"), WithSettings("common/dash", rules.Settings{
		"glyph": rules.Str("–"),
	}))
	out, err := e.Process("Мы - друзья")
	require.NoError(t, err)
	assert.Equal(t, "Мы – друзья", out)

	// A later overlay merges over the earlier one.
	e.SetSettings("common/dash", rules.Settings{"glyph": rules.Str("—")})
	out, err = e.Process("Мы - друзья")
	require.NoError(t, err)
	assert.Equal(t, "Мы — друзья", out)
}

func TestPackageLevelProcess(t *testing.T) {
	out, err := Process(`"снег"`, WithLang("ru"))
	require.NoError(t, err)
	assert.Equal(t, "«снег»", out)
}
