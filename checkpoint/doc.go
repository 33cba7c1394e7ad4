// Package checkpoint defines the durable, append-only checkpoint log that
// backs conversation sessions.
//
// A checkpoint is an immutable snapshot of one session's state, keyed by
// (session id, sequence number). Sequence numbers for a session strictly
// increase and are assigned by the store under per-session serialization,
// so Latest is always well-defined and checkpoints are never observed out
// of order.
//
// The Store interface is satisfied by any ordered durable backend. This
// module ships three implementations:
//
//   - MemoryStore (this package): process-local, for development and tests.
//   - pgxstore: PostgreSQL via jackc/pgx/v5.
//   - sqlstore: database/sql with a small dialect layer, tested against
//     modernc.org/sqlite and usable with lib/pq.
//
// Failure semantics follow the session core's contract: write-path failures
// are fatal to the turn and wrapped in ErrUnavailable, read-path failures
// used for listings degrade to empty results at the caller, and records
// that fail to decode surface ErrCorrupt for that session only.
package checkpoint
