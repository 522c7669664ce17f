// Package store provides the SQLite-backed result cache for batch
// processing.
//
// One table, documents, keyed by (input_hash, config_hash):
//   - input_hash: SHA-256 of the document text, domain-separated
//   - config_hash: the engine's configuration fingerprint
//
// Identity is content-addressed, so the cache never serves stale output: any
// change to the text or to the engine configuration changes the key. Writes
// are idempotent via ON CONFLICT DO NOTHING, which is what lets a batch be
// re-run over an existing cache. Ordering uses the seq column (the
// document's logical batch position), never timestamps, so listings and
// verification runs are reproducible.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
