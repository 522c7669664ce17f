package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typograf/typograf"
	"github.com/typograf/typograf/internal/ruleset"
	"github.com/typograf/typograf/rules"
)

func TestParseFull(t *testing.T) {
	src := `
lang: "ru"
mode: "name"
enable: ["common/spaces"]
disable: ["ru/nbsp", "common/marks"]
settings: {
	"common/dash": glyph: "–"
	"ru/nbsp": maxlen:   3
	"x/flag": on:        true
}
safe_tags: [
	{open: "<nobr>", close: "</nobr>"},
]
`
	p, err := Parse([]byte(src), "test.cue")
	require.NoError(t, err)

	assert.Equal(t, "ru", p.Lang)
	assert.Equal(t, "name", p.Mode)
	assert.Equal(t, []string{"common/spaces"}, p.Enable)
	assert.Equal(t, []string{"ru/nbsp", "common/marks"}, p.Disable)
	assert.Equal(t, rules.Str("–"), p.Settings["common/dash"]["glyph"])
	assert.Equal(t, rules.Int(3), p.Settings["ru/nbsp"]["maxlen"])
	assert.Equal(t, rules.Bool(true), p.Settings["x/flag"]["on"])
	require.Len(t, p.SafeTags, 1)
	assert.Equal(t, "<nobr>", p.SafeTags[0].Open)
}

func TestParseWrapped(t *testing.T) {
	p, err := Parse([]byte(`profile: lang: "de"`), "test.cue")
	require.NoError(t, err)
	assert.Equal(t, "de", p.Lang)
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse([]byte(`{}`), "test.cue")
	require.NoError(t, err)
	assert.Empty(t, p.Lang)
	assert.Empty(t, p.Mode)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`langg: "ru"`), "test.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.cue:", "errors carry the file position")
}

func TestParseRejectsBadMode(t *testing.T) {
	_, err := Parse([]byte(`mode: "loud"`), "test.cue")
	assert.Error(t, err)
}

func TestParseRejectsFloatSetting(t *testing.T) {
	_, err := Parse([]byte(`settings: "ru/nbsp": maxlen: 2.5`), "test.cue")
	assert.Error(t, err)
}

func TestParseRejectsMalformedSource(t *testing.T) {
	_, err := Parse([]byte(`lang: `), "test.cue")
	assert.Error(t, err)
}

func TestOptionsBuildEngine(t *testing.T) {
	p, err := Parse([]byte(`
lang: "ru"
mode: "digit"
disable: ["ru/*"]
settings: "common/dash": glyph: "–"
`), "test.cue")
	require.NoError(t, err)

	e, err := typograf.New(p.Options()...)
	require.NoError(t, err)
	assert.Equal(t, "ru", e.Lang())
	assert.Equal(t, typograf.ModeDigit, e.Mode())
	assert.False(t, e.Enabled("ru/nbsp"))
	assert.True(t, e.Enabled("common/dash"))

	out, err := e.Process("Мы - друзья")
	require.NoError(t, err)
	assert.Equal(t, "Мы&#160;&#8211; друзья", out)
}

func TestRegisterSafeTags(t *testing.T) {
	p, err := Parse([]byte(`safe_tags: [{open: "<nobr>", close: "</nobr>"}]`), "test.cue")
	require.NoError(t, err)

	reg := rules.NewRegistry()
	require.NoError(t, ruleset.Register(reg))
	require.NoError(t, p.RegisterSafeTags(reg))

	e, err := typograf.New(typograf.WithRegistry(reg), typograf.WithLang("en"))
	require.NoError(t, err)

	out, err := e.Process(`x "y" <nobr>keep "raw"</nobr>`)
	require.NoError(t, err)
	assert.Equal(t, `x “y” <nobr>keep "raw"</nobr>`, out)
}

func TestRegisterSafeTagsRejectsBadPattern(t *testing.T) {
	p := &Profile{SafeTags: []rules.SafeTagSpec{{Open: `<(`, Close: `>`}}}
	assert.Error(t, p.RegisterSafeTags(rules.NewRegistry()))
}

func TestLoadFile(t *testing.T) {
	p, err := Load("testdata/ru.cue")
	require.NoError(t, err)
	assert.Equal(t, "ru", p.Lang)
	assert.Equal(t, "name", p.Mode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.cue")
	assert.ErrorContains(t, err, "read profile")
}
