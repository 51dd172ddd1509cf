// Package store provides SQLite-backed history for hailcross count runs.
//
// Each completed count is recorded once with:
//   - id: a UUIDv7 run identifier
//   - seq: a logical clock assigned at write time
//   - run_key: content hash of the input digest and bounds (internal/digest)
//
// The run key lets a caller reuse an earlier count for the same input and
// region instead of recomputing all pairs.
//
// # Deterministic Reads
//
// All list queries order by seq, then id COLLATE BINARY. Wall-clock time is
// never stored or used for ordering.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
