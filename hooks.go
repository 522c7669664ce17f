package typograf

import (
	"sync"

	"github.com/google/uuid"

	"github.com/typograf/typograf/rules"
)

// RuleEvent describes one rule firing inside one Process call. RunToken
// correlates all events of a single invocation; Seq orders them within it.
type RuleEvent struct {
	RunToken string
	Seq      int64
	Rule     string
	Phase    rules.Phase
	Lang     string
}

// Hook observes rule firings. Before runs just before a rule's Apply, After
// just after a successful one. Hooks must not alter control flow: they get
// the event, not the text, and their panics are not recovered.
type Hook struct {
	Before func(RuleEvent)
	After  func(RuleEvent)
}

// TokenGenerator produces the per-invocation run tokens hooks and batch
// records correlate on. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens. The embedded
// timestamp makes tokens sort by creation time, which keeps batch records
// and hook traces readable.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7 string. Panics only if the
// system entropy source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens, for deterministic tests and
// golden comparisons.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that hands out tokens in order and
// panics when they run out. The panic is deliberate: a test consuming more
// tokens than it declared is misconfigured.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
