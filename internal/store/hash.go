package store

import "github.com/typograf/typograf"

// inputDomain separates document-content hashes from configuration
// fingerprints and anything else SHA-256 is used for.
const inputDomain = "typograf/input/v1"

// InputHash returns the cache key component for a document's text.
func InputHash(text string) string {
	return typograf.HashWithDomain(inputDomain, []byte(text))
}
