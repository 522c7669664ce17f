package rules

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry is an append-only catalogue of rules and their supporting data:
// safe-tag specs, per-language quote configs, the entity table, and a shared
// string lookup store.
//
// A registry is written during startup by rule providers and read-only
// afterwards; engines built on it only ever read. Writes and reads are
// guarded, so late registration is not a data race, but an engine snapshots
// the registry at construction and will not observe rules registered after
// it was built.
//
// Ordering invariant: both rule lists stay sorted by (SortIndex ascending,
// registration order ascending). The sort is stable, so equal SortIndex
// preserves registration order. This order never changes after
// registration, which is what makes pipeline output reproducible.
type Registry struct {
	mu       sync.RWMutex
	rules    []Rule
	inner    []Rule
	names    map[string]bool
	safeTags []SafeTagSpec
	quotes   map[string]QuoteConfig
	entities []EntityEntry
	data     map[string]string
}

// NewRegistry returns an empty registry. Most callers use the package-level
// Default registry; separate registries exist for tests that need isolation.
func NewRegistry() *Registry {
	return &Registry{
		names:  make(map[string]bool),
		quotes: make(map[string]QuoteConfig),
		data:   make(map[string]string),
	}
}

// Default is the process-wide registry. Rule providers register into it at
// startup; engines read it unless constructed with an explicit registry.
var Default = NewRegistry()

// Register appends a transformation rule and re-sorts the list.
// Registering a name that already exists in either list is an error: it
// indicates a provider bug, not user input.
func (reg *Registry) Register(r Rule) error {
	return reg.register(&reg.rules, r)
}

// RegisterInner appends an inner (pre-pass) rule. Within every phase, inner
// rules run before transformation rules.
func (reg *Registry) RegisterInner(r Rule) error {
	return reg.register(&reg.inner, r)
}

func (reg *Registry) register(list *[]Rule, r Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.names[r.Name] {
		return fmt.Errorf("duplicate rule name: %s", r.Name)
	}
	reg.names[r.Name] = true
	*list = append(*list, r)
	slices.SortStableFunc(*list, func(a, b Rule) int {
		return cmp.Compare(a.SortIndex, b.SortIndex)
	})
	return nil
}

// All returns the transformation rules in evaluation order. The slice is a
// copy; the registry's own order never changes once built.
func (reg *Registry) All() []Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Clone(reg.rules)
}

// AllInner returns the inner rules in evaluation order, as a copy.
func (reg *Registry) AllInner() []Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Clone(reg.inner)
}

// RegisterSafeTag appends a protected-span spec. The pattern is compiled
// here, so a malformed one surfaces to the registering provider immediately
// instead of failing inside some later invocation.
func (reg *Registry) RegisterSafeTag(spec SafeTagSpec) error {
	re, err := spec.compile()
	if err != nil {
		return err
	}
	spec.re = re
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.safeTags = append(reg.safeTags, spec)
	return nil
}

// SafeTags returns the registered specs in registration order, compiled.
func (reg *Registry) SafeTags() []SafeTagSpec {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Clone(reg.safeTags)
}

// RegisterQuotes sets the quote glyphs for a language. Registering the same
// language again overwrites, which lets applications restyle a builtin
// language before building engines.
func (reg *Registry) RegisterQuotes(lang string, cfg QuoteConfig) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.quotes[lang] = cfg
}

// Quotes returns the quote config for a language.
func (reg *Registry) Quotes(lang string) (QuoteConfig, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	cfg, ok := reg.quotes[lang]
	return cfg, ok
}

// RegisterEntities appends rows to the entity table.
func (reg *Registry) RegisterEntities(entries ...EntityEntry) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entities = append(reg.entities, entries...)
}

// Entities returns the entity table in registration order, as a copy.
func (reg *Registry) Entities() []EntityEntry {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Clone(reg.entities)
}

// SetData stores a shared lookup string, e.g. a per-language letter class
// under "ru/letters". Providers write these once at startup.
func (reg *Registry) SetData(key, value string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.data[key] = value
}

// Data returns a shared lookup string, or "" when the key is absent.
func (reg *Registry) Data(key string) string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.data[key]
}

// Langs returns every language the registry knows about, from rule name
// scopes and quote configs, sorted and without "common". Used to build the
// language matcher.
func (reg *Registry) Langs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	seen := make(map[string]bool)
	for _, r := range reg.rules {
		seen[r.Lang()] = true
	}
	for _, r := range reg.inner {
		seen[r.Lang()] = true
	}
	for lang := range reg.quotes {
		seen[lang] = true
	}
	delete(seen, "common")
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Register adds a transformation rule to the Default registry.
func Register(r Rule) error { return Default.Register(r) }

// RegisterInner adds an inner rule to the Default registry.
func RegisterInner(r Rule) error { return Default.RegisterInner(r) }

// RegisterSafeTag adds a protected-span spec to the Default registry.
func RegisterSafeTag(spec SafeTagSpec) error { return Default.RegisterSafeTag(spec) }

// RegisterQuotes sets a language's quote glyphs on the Default registry.
func RegisterQuotes(lang string, cfg QuoteConfig) { Default.RegisterQuotes(lang, cfg) }

// RegisterEntities appends entity rows to the Default registry.
func RegisterEntities(entries ...EntityEntry) { Default.RegisterEntities(entries...) }

// SetData stores a shared lookup string on the Default registry.
func SetData(key, value string) { Default.SetData(key, value) }

// Data reads a shared lookup string from the Default registry.
func Data(key string) string { return Default.Data(key) }

// MustRegister is like Register but panics on error. Use only for static
// builtin catalogues, where a failure is a programming error.
func MustRegister(reg *Registry, r Rule) {
	if err := reg.Register(r); err != nil {
		panic(err)
	}
}

// MustRegisterInner is like RegisterInner but panics on error.
func MustRegisterInner(reg *Registry, r Rule) {
	if err := reg.RegisterInner(r); err != nil {
		panic(err)
	}
}

// MustRegisterSafeTag is like RegisterSafeTag but panics on error.
func MustRegisterSafeTag(reg *Registry, spec SafeTagSpec) {
	if err := reg.RegisterSafeTag(spec); err != nil {
		panic(err)
	}
}
