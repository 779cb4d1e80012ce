package sync

import "fmt"

// BackupError reports that clearing or copying the backup table failed.
type BackupError struct {
	// Stage is "clear" or "copy".
	Stage string
	// Table is the table the failing statement ran against.
	Table string
	Err   error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s on table %s failed: %v", e.Stage, e.Table, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// Reconciliation phases reported by ReconciliationError.
const (
	PhaseApply  = "apply"
	PhaseDelete = "delete"
)

// ReconciliationError reports a failed statement during reconciliation.
// It carries the offending key (empty for the delete pass) and the
// counts of rows processed before the failure. Rows applied before the
// failure stay applied; there is no rollback.
type ReconciliationError struct {
	Phase    string
	Key      string
	Inserted int
	Updated  int
	// Unchanged counts rows that were already converged when visited.
	Unchanged int
	Err       error
}

func (e *ReconciliationError) Error() string {
	if e.Phase == PhaseDelete {
		return fmt.Sprintf("reconciliation delete pass failed after %d inserts and %d updates: %v",
			e.Inserted, e.Updated, e.Err)
	}
	return fmt.Sprintf("reconciliation failed at key %q after %d inserts and %d updates: %v",
		e.Key, e.Inserted, e.Updated, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// Applied returns the number of snapshot rows that mutated the table
// before the failure. Rows counted in Unchanged were visited but not
// touched, so they are excluded here; Processed includes them.
func (e *ReconciliationError) Applied() int { return e.Inserted + e.Updated }

// Processed returns the number of snapshot rows visited before the failure.
func (e *ReconciliationError) Processed() int { return e.Inserted + e.Updated + e.Unchanged }

// InsertError reports a failed bulk-load chunk. Rows committed by
// earlier chunks stay committed; the failed chunk is not retried.
type InsertError struct {
	// Chunk is the zero-based index of the failing chunk.
	Chunk int
	// RowsCommitted counts rows committed by prior chunks.
	RowsCommitted int
	Err           error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("bulk load failed at chunk %d after %d committed rows: %v",
		e.Chunk, e.RowsCommitted, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }
