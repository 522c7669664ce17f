// Package rules holds the process-wide typographic rule registry and the
// contracts rule providers implement against.
//
// This package contains registration surfaces and data types only. All other
// packages in this module import rules; rules imports nothing from the
// module. This keeps the registry the foundational layer with no circular
// dependencies.
//
// Registration model:
//   - Append-only: rules, safe-tag specs, quote configs, entity tables, and
//     shared lookup data are registered during startup and never removed.
//   - Deterministic order: both rule lists are kept sorted by
//     (SortIndex ascending, registration order ascending). The tie-break is
//     stable: two rules with equal SortIndex run in registration order.
//   - Settings values are restricted to strings, int64s, and bools so that
//     configuration fingerprints are reproducible. No floats.
//
// Engines read the registry; they never write it. Per-engine enablement and
// settings overrides live on the engine, not here.
package rules
