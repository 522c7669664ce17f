package rules

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the types allowed in rule settings.
// Only Str, Int, and Bool implement it. Floats are excluded so that
// configuration fingerprints never depend on float formatting.
type Value interface {
	settingsValue()
}

// Str is a string setting value.
type Str string

func (Str) settingsValue() {}

// Int is an integer setting value. Always int64.
type Int int64

func (Int) settingsValue() {}

// Bool is a boolean setting value.
type Bool bool

func (Bool) settingsValue() {}

// ValueOf converts a plain Go scalar to a Value. Used by the profile and
// scenario loaders, which decode into any. Floats and everything non-scalar
// are rejected.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return Str(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case float32, float64:
		return nil, fmt.Errorf("float setting values are not allowed: %v", val)
	default:
		return nil, fmt.Errorf("unsupported setting value type %T", v)
	}
}

// Settings is a rule's configuration: setting name to scalar value.
type Settings map[string]Value

// Str returns the string value for key, or def when the key is absent or
// holds a different type.
func (s Settings) Str(key, def string) string {
	if v, ok := s[key].(Str); ok {
		return string(v)
	}
	return def
}

// Int returns the integer value for key, or def.
func (s Settings) Int(key string, def int64) int64 {
	if v, ok := s[key].(Int); ok {
		return int64(v)
	}
	return def
}

// Bool returns the boolean value for key, or def.
func (s Settings) Bool(key string, def bool) bool {
	if v, ok := s[key].(Bool); ok {
		return bool(v)
	}
	return def
}

// Merge returns a copy of s with over's entries written on top. Either map
// may be nil. The receiver is never mutated.
func (s Settings) Merge(over Settings) Settings {
	if len(over) == 0 {
		if len(s) == 0 {
			return nil
		}
		out := make(Settings, len(s))
		for k, v := range s {
			out[k] = v
		}
		return out
	}
	out := make(Settings, len(s)+len(over))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// SortedKeys returns the setting names in RFC 8785 canonical order (UTF-16
// code units). Go's sort order over strings is UTF-8 byte order, which
// differs for characters outside the BMP, so the comparison goes through
// utf16.Encode.
func (s Settings) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 compares strings by UTF-16 code units, the key order RFC 8785
// requires for canonical JSON objects.
func compareUTF16(a, b string) int {
	if !strings.ContainsFunc(a, isAstral) && !strings.ContainsFunc(b, isAstral) {
		// Identical to byte order when no surrogate pairs are involved.
		return strings.Compare(a, b)
	}
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

func isAstral(r rune) bool { return r > 0xFFFF }
