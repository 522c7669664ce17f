// Package typograf applies ordered, language-scoped typographic
// transformations to text: quote nesting, dash and ellipsis fixes,
// non-breaking spaces, entity conversion, and whatever else rule providers
// register.
//
// # Pipeline
//
// One Process call runs a fixed sequence: line endings are normalized,
// start-phase rules run on the raw input, markup-like spans (comments,
// CDATA, <pre>, <script>, ordinary tags) are hidden behind placeholder
// tokens, entities are decoded to literal Unicode, the main-phase rules run,
// entities are re-encoded per the output mode, hidden spans are restored
// byte-for-byte, and end-phase rules finish on the final text.
//
// Rules live in a process-wide append-only registry (package rules), sorted
// by priority with a stable registration-order tie-break. An Engine holds
// only its own enabled mask and settings overlay, so a fixed registry, a
// fixed configuration, and the same input always produce the same output.
//
// # Concurrency
//
// Process threads all per-invocation state through explicit values, so
// concurrent Process calls on one configured Engine are safe. Configuration
// calls (Enable, Disable, SetSettings) are not synchronized against Process:
// configure first, then share.
//
// # Usage
//
//	tp, err := typograf.New(typograf.WithLang("ru"))
//	if err != nil { ... }
//	out, err := tp.Process(`"Снег" — это хорошо...`)
package typograf

// Version identifies the engine build. It participates in configuration
// fingerprints, so cached results are invalidated across releases.
const Version = "1.0.0"

// DefaultLang is the language scope used when neither the engine nor the
// call specifies one.
const DefaultLang = "en"

// Process is a one-shot convenience: build an engine from opts, run text
// through it, and discard the engine.
func Process(text string, opts ...Option) (string, error) {
	e, err := New(opts...)
	if err != nil {
		return "", err
	}
	return e.Process(text)
}
