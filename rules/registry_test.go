package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identity is a minimal valid Apply for registration tests.
func identity(text string, _ Context) (string, error) { return text, nil }

func TestRegisterSortsBySortIndex(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(Rule{Name: "common/late", SortIndex: 90, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/early", SortIndex: 10, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/middle", SortIndex: 50, Apply: identity}))

	names := ruleNames(reg.All())
	assert.Equal(t, []string{"common/early", "common/middle", "common/late"}, names)
}

func TestRegisterEqualSortIndexKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()

	// Same SortIndex: the tie-break is registration order, and it must be
	// stable across the re-sorts triggered by later registrations.
	require.NoError(t, reg.Register(Rule{Name: "common/first", SortIndex: 20, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/second", SortIndex: 20, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/zeroth", SortIndex: 10, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/third", SortIndex: 20, Apply: identity}))

	names := ruleNames(reg.All())
	assert.Equal(t, []string{"common/zeroth", "common/first", "common/second", "common/third"}, names)
}

func TestRegisterDuplicateName(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(Rule{Name: "ru/nbsp", Apply: identity}))

	err := reg.Register(Rule{Name: "ru/nbsp", Apply: identity})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule name")

	// Inner and transformation rules share one namespace: the enabled mask
	// is keyed by name alone.
	err = reg.RegisterInner(Rule{Name: "ru/nbsp", Apply: identity})
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		rule Rule
	}{
		{"missing lang segment", Rule{Name: "quotes", Apply: identity}},
		{"uppercase", Rule{Name: "RU/nbsp", Apply: identity}},
		{"empty name", Rule{Apply: identity}},
		{"nil apply", Rule{Name: "common/quotes"}},
		{"bad phase", Rule{Name: "common/quotes", Phase: Phase(9), Apply: identity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, reg.Register(tt.rule))
		})
	}
}

func TestInnerRulesAreSeparateList(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.RegisterInner(Rule{Name: "common/controls", Phase: PhaseStart, Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/quotes", Apply: identity}))

	assert.Equal(t, []string{"common/controls"}, ruleNames(reg.AllInner()))
	assert.Equal(t, []string{"common/quotes"}, ruleNames(reg.All()))
}

func TestAllReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Rule{Name: "common/a", Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/b", SortIndex: 5, Apply: identity}))

	got := reg.All()
	got[0], got[1] = got[1], got[0]

	// Mutating the returned slice must not disturb registry order.
	assert.Equal(t, []string{"common/a", "common/b"}, ruleNames(reg.All()))
}

func TestRegisterSafeTagCompilesNow(t *testing.T) {
	reg := NewRegistry()

	err := reg.RegisterSafeTag(SafeTagSpec{Open: `<nocorrect[^>]*>`, Close: `</nocorrect>`})
	require.NoError(t, err)

	tags := reg.SafeTags()
	require.Len(t, tags, 1)
	require.NotNil(t, tags[0].Regexp())
	assert.True(t, tags[0].Regexp().MatchString(`<NoCorrect class="x">"raw"</nocorrect>`))
}

func TestRegisterSafeTagMalformedPattern(t *testing.T) {
	reg := NewRegistry()

	// A provider registering a broken pattern must hear about it at
	// registration, not inside some later Process call.
	err := reg.RegisterSafeTag(SafeTagSpec{Open: `<bad[`, Close: `</bad>`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safe tag")
}

func TestQuotesRegistration(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterQuotes("ru", QuoteConfig{OuterLeft: "«", OuterRight: "»", InnerLeft: "«", InnerRight: "»"})
	reg.RegisterQuotes("en", QuoteConfig{OuterLeft: "“", OuterRight: "”", InnerLeft: "‘", InnerRight: "’"})

	ru, ok := reg.Quotes("ru")
	require.True(t, ok)
	assert.True(t, ru.SingleLevel())

	en, ok := reg.Quotes("en")
	require.True(t, ok)
	assert.False(t, en.SingleLevel())

	_, ok = reg.Quotes("xx")
	assert.False(t, ok)
}

func TestDataStore(t *testing.T) {
	reg := NewRegistry()

	reg.SetData("ru/letters", "а-яё")
	assert.Equal(t, "а-яё", reg.Data("ru/letters"))
	assert.Equal(t, "", reg.Data("absent"))
}

func TestLangs(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(Rule{Name: "ru/nbsp", Apply: identity}))
	require.NoError(t, reg.Register(Rule{Name: "common/quotes", Apply: identity}))
	reg.RegisterQuotes("de", QuoteConfig{OuterLeft: "„", OuterRight: "“", InnerLeft: "‚", InnerRight: "‘"})

	// Sorted, deduplicated, and "common" is not a language.
	assert.Equal(t, []string{"de", "ru"}, reg.Langs())
}

func TestEntityTable(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterEntities(
		EntityEntry{Name: "laquo", Char: '«'},
		EntityEntry{Char: '№'},
	)

	entries := reg.Entities()
	require.Len(t, entries, 2)
	assert.Equal(t, "&laquo;", entries[0].NameForm())
	assert.Equal(t, "&#171;", entries[0].DigitForm())
	assert.Equal(t, "", entries[1].NameForm())
	assert.Equal(t, "&#8470;", entries[1].DigitForm())
}

func ruleNames(list []Rule) []string {
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	return names
}
