// Package sync implements the table convergence engine: pre-mutation
// backup, snapshot reconciliation, and chunked bulk loading.
//
// # Reconciliation
//
// Reconcile applies each snapshot row with an update-then-insert probe
// (one UPDATE filtered by the natural key; an INSERT when the key is
// absent), then runs a single delete pass removing table rows whose
// keys are not in the snapshot. The delete pass is strictly ordered
// after all row applications, which is the one hard ordering guarantee:
// a key present in the snapshot can never be deleted, even if it was
// absent from the table at the start of the run.
//
// # Failure Semantics
//
// Every statement commits independently; there is no enclosing
// transaction. A statement failure aborts the remainder of the run and
// surfaces as a typed error (BackupError, ReconciliationError,
// InsertError) carrying enough context to diagnose without re-running.
// A failed run leaves the target table partially converged; the backup
// table holds the recovery point.
package sync
