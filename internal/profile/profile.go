// Package profile loads engine configuration profiles written in CUE.
//
// A profile is a plain data file, optionally wrapped in a top-level
// "profile" field:
//
//	profile: {
//		lang: "ru"
//		mode: "name"
//		disable: ["common/spaces"]
//		settings: "common/dash": glyph: "–"
//		safe_tags: [{open: "<nobr>", close: "</nobr>"}]
//	}
//
// Files are validated against a closed CUE schema before decoding, so a
// misspelled field or a wrong value type fails with the file position
// instead of being silently ignored.
package profile

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/typograf/typograf"
	"github.com/typograf/typograf/rules"
)

// schema is the closed definition every profile must satisfy. Settings are
// string, int, or bool; there is no float form.
const schema = `
#Profile: {
	lang?:    string
	mode?:    "default" | "digit" | "name"
	enable?:  [...string]
	disable?: [...string]
	settings?: {[string]: {[string]: string | int | bool}}
	safe_tags?: [...{open: string, close: string}]
}
`

// Profile is a decoded engine configuration.
type Profile struct {
	Lang     string
	Mode     string
	Enable   []string
	Disable  []string
	Settings map[string]rules.Settings
	SafeTags []rules.SafeTagSpec
}

// Load reads and compiles a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data, path)
}

// Parse compiles profile source. The filename only feeds error positions.
func Parse(src []byte, filename string) (*Profile, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if pv := v.LookupPath(cue.ParsePath("profile")); pv.Exists() {
		v = pv
	}
	return Compile(v)
}

// Compile validates a CUE value against the profile schema and decodes it.
func Compile(v cue.Value) (*Profile, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	ctx := v.Context()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Profile"))
	if err := def.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Profile{}
	var err error

	if fv := v.LookupPath(cue.ParsePath("lang")); fv.Exists() {
		if p.Lang, err = fv.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if fv := v.LookupPath(cue.ParsePath("mode")); fv.Exists() {
		if p.Mode, err = fv.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if p.Enable, err = stringList(v, "enable"); err != nil {
		return nil, err
	}
	if p.Disable, err = stringList(v, "disable"); err != nil {
		return nil, err
	}
	if err = decodeSettings(v, p); err != nil {
		return nil, err
	}
	if err = decodeSafeTags(v, p); err != nil {
		return nil, err
	}
	return p, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeSettings(v cue.Value, p *Profile) error {
	sv := v.LookupPath(cue.ParsePath("settings"))
	if !sv.Exists() {
		return nil
	}
	iter, err := sv.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	p.Settings = make(map[string]rules.Settings)
	for iter.Next() {
		rule := iter.Selector().Unquoted()
		fields, err := iter.Value().Fields()
		if err != nil {
			return formatCUEError(err)
		}
		s := rules.Settings{}
		for fields.Next() {
			val, err := settingValue(fields.Value())
			if err != nil {
				return err
			}
			s[fields.Selector().Unquoted()] = val
		}
		p.Settings[rule] = s
	}
	return nil
}

func settingValue(v cue.Value) (rules.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.Str(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.Int(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.Bool(b), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "settings",
			Message: "float settings are not supported, use int",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "settings",
			Message: fmt.Sprintf("unsupported setting kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func decodeSafeTags(v cue.Value, p *Profile) error {
	tv := v.LookupPath(cue.ParsePath("safe_tags"))
	if !tv.Exists() {
		return nil
	}
	iter, err := tv.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		item := iter.Value()
		open, err := item.LookupPath(cue.ParsePath("open")).String()
		if err != nil {
			return formatCUEError(err)
		}
		closing, err := item.LookupPath(cue.ParsePath("close")).String()
		if err != nil {
			return formatCUEError(err)
		}
		p.SafeTags = append(p.SafeTags, rules.SafeTagSpec{Open: open, Close: closing})
	}
	return nil
}

// Options maps the profile onto engine construction options. Safe tags are
// not included; they belong to the registry, see RegisterSafeTags.
func (p *Profile) Options() []typograf.Option {
	var opts []typograf.Option
	if p.Lang != "" {
		opts = append(opts, typograf.WithLang(p.Lang))
	}
	if p.Mode != "" {
		opts = append(opts, typograf.WithMode(typograf.Mode(p.Mode)))
	}
	if len(p.Disable) > 0 {
		opts = append(opts, typograf.WithDisable(p.Disable...))
	}
	if len(p.Enable) > 0 {
		opts = append(opts, typograf.WithEnable(p.Enable...))
	}
	for rule, s := range p.Settings {
		opts = append(opts, typograf.WithSettings(rule, s))
	}
	return opts
}

// RegisterSafeTags installs the profile's protected-span specs. A malformed
// pattern surfaces here, before any engine is built.
func (p *Profile) RegisterSafeTags(reg *rules.Registry) error {
	for _, spec := range p.SafeTags {
		if err := reg.RegisterSafeTag(spec); err != nil {
			return fmt.Errorf("profile safe tag %q: %w", spec.Open, err)
		}
	}
	return nil
}

// CompileError is a profile error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError lifts position info out of CUE's error lists.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "profile",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
