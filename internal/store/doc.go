// Package store provides a SQLite-backed catalog of scenes.
//
// Each imported scene is keyed by its content fingerprint (see
// scene.Fingerprint), so importing the same scene twice is a no-op that
// returns the original record. A scene row keeps the canonical document;
// frames, nodes and diagnostics are indexed in side tables for queries that
// should not need to reparse the document.
//
// # Ordering
//
//   - Imports are numbered by seq INTEGER (logical clock), never timestamps
//   - Listing queries use ORDER BY seq ASC; per-scene rows use their index
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
