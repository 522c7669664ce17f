package typograf

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/typograf/typograf/internal/shield"
	"github.com/typograf/typograf/rules"
)

// execState carries one invocation's transient state. It lives on the
// Process stack and is discarded on return, which is why invocations never
// see each other: nothing transient is stored on the Engine.
type execState struct {
	lang   string
	mode   Mode
	markup bool
	hidden *shield.Hidden
	token  string
	seq    int64
}

// Process runs text through the pipeline and returns the transformed text.
// Empty input short-circuits to empty output with no rules run.
//
// A failing rule aborts the invocation: the error wraps the rule name and
// no partial result is returned, because a half-applied pipeline is not a
// meaningful state.
func (e *Engine) Process(text string, opts ...ProcessOption) (string, error) {
	if text == "" {
		return "", nil
	}

	call := callOpts{lang: e.lang, mode: e.mode}
	for _, opt := range opts {
		opt(&call)
	}
	if _, err := rules.ParseMode(string(call.mode)); err != nil {
		return "", err
	}

	st := &execState{
		lang:  e.resolver.resolve(call.lang),
		mode:  call.mode,
		token: e.tokens.Generate(),
	}
	slog.Debug("process start",
		"run", st.token,
		"lang", st.lang,
		"mode", string(st.mode),
		"bytes", len(text),
	)

	out, err := e.run(st, text)
	if err != nil {
		slog.Debug("process failed", "run", st.token, "error", err)
		return "", err
	}
	slog.Debug("process done", "run", st.token, "rules_fired", st.seq, "bytes", len(out))
	return out, nil
}

// run is the pipeline spine. Order is load-bearing: hiding must precede
// decoding so entities inside protected spans are restored untouched, and
// re-encoding must precede restoring so span content is never re-encoded.
func (e *Engine) run(st *execState, text string) (string, error) {
	text = normalizeLineEndings(text)

	text, err := e.runPhase(st, rules.PhaseStart, text)
	if err != nil {
		return "", err
	}

	st.markup = detectMarkup(text)
	if st.markup {
		text, st.hidden = shield.Hide(text, e.tags)
		slog.Debug("markup hidden", "run", st.token, "spans", st.hidden.Len())
	}

	text = e.codec.Decode(text)

	text, err = e.runPhase(st, rules.PhaseMain, text)
	if err != nil {
		return "", err
	}

	if st.mode != ModeDefault {
		text = e.codec.Encode(text, st.mode)
	}

	if st.markup {
		text = shield.Restore(text, st.hidden)
		st.hidden = nil
	}

	return e.runPhase(st, rules.PhaseEnd, text)
}

// runPhase fires one phase's bucket: inner rules first, then transformation
// rules, each filtered by language scope and the enabled mask.
func (e *Engine) runPhase(st *execState, phase rules.Phase, text string) (string, error) {
	for _, list := range [2][]rules.Rule{e.innerByPhase[phase], e.mainByPhase[phase]} {
		for i := range list {
			r := list[i]
			if !e.fires(st, r) {
				continue
			}

			ev := RuleEvent{
				RunToken: st.token,
				Seq:      st.seq,
				Rule:     r.Name,
				Phase:    phase,
				Lang:     st.lang,
			}
			for _, h := range e.hooks {
				if h.Before != nil {
					h.Before(ev)
				}
			}

			out, err := r.Apply(text, e.ruleContext(st, r))
			if err != nil {
				return "", fmt.Errorf("rule %s: %w", r.Name, err)
			}
			text = out

			for _, h := range e.hooks {
				if h.After != nil {
					h.After(ev)
				}
			}
			st.seq++
		}
	}
	return text, nil
}

// fires applies the per-rule filter: language scope, then enablement.
func (e *Engine) fires(st *execState, r rules.Rule) bool {
	if lang := r.Lang(); lang != "common" && lang != st.lang {
		return false
	}
	return e.enabled[r.Name]
}

// ruleContext assembles the explicit per-firing view handed to Apply.
func (e *Engine) ruleContext(st *execState, r rules.Rule) rules.Context {
	q, ok := e.reg.Quotes(st.lang)
	return rules.NewContext(
		st.lang,
		r.Settings.Merge(e.settings[r.Name]),
		q, ok,
		e.reg.Data,
	)
}

// crlfOrCR matches Windows and bare-CR line endings.
var crlfOrCR = regexp.MustCompile("\r\n?")

// normalizeLineEndings canonicalizes every line terminator to "\n".
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return crlfOrCR.ReplaceAllString(s, "\n")
}

// detectMarkup reports whether the text looks like it carries markup: a "<"
// followed by an ASCII letter or "!". The flag only gates the shield pass;
// the shield decides what actually gets hidden.
func detectMarkup(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '<' || i+1 >= len(s) {
			continue
		}
		c := s[i+1]
		if c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
