package typograf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/typograf/typograf/rules"
)

// fingerprintDomain separates configuration hashes from every other hash in
// the system. The version suffix allows a future payload change without
// colliding with old cache entries.
const fingerprintDomain = "typograf/config/v1"

// Fingerprint returns a stable hash of everything that determines this
// engine's output: language, mode, the enabled rule set, the settings
// overlay, the safe-tag set, and the engine version. Two engines with equal
// fingerprints produce identical output for identical input, which is what
// the batch cache keys on.
func (e *Engine) Fingerprint() (string, error) {
	enabled := make([]string, 0, len(e.enabled))
	for name, on := range e.enabled {
		if on {
			enabled = append(enabled, name)
		}
	}
	slices.Sort(enabled)

	overlay := make(map[string]any, len(e.settings))
	for rule, s := range e.settings {
		overlay[rule] = s
	}

	// Registration order, not sorted: tag order decides span-matching
	// precedence, so two engines with reordered tags are distinct.
	tags := make([]any, 0, len(e.tags))
	for _, t := range e.tags {
		tags = append(tags, map[string]any{"open": t.Open, "close": t.Close})
	}

	canonical, err := rules.MarshalCanonical(map[string]any{
		"version":   Version,
		"lang":      e.lang,
		"mode":      string(e.mode),
		"enabled":   enabled,
		"settings":  overlay,
		"safe_tags": tags,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return HashWithDomain(fingerprintDomain, canonical), nil
}

// HashWithDomain computes SHA-256 with domain separation:
// SHA256(domain || 0x00 || data), hex-encoded. The null byte prevents
// domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
