package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tablesync/core/database"
	"tablesync/core/dataset"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptySnapshot indicates reconciliation was asked to converge a
// table to an empty snapshot. That would delete every row of the
// target; an empty authoritative file is far more likely an upstream
// failure than a real request, so the reconciler refuses.
var ErrEmptySnapshot = errors.New("refusing to reconcile against an empty snapshot")

// Result summarizes one reconciliation run. Key slices preserve
// processing order for audit logging by the caller.
type Result struct {
	Inserted  int
	Updated   int
	Unchanged int
	Deleted   int

	InsertedKeys  []string
	UpdatedKeys   []string
	UnchangedKeys []string
	DeletedKeys   []string
}

// RowOutcome is the result of applying a single snapshot row.
type RowOutcome int

const (
	// RowUpdated means the row existed and at least one value changed.
	RowUpdated RowOutcome = iota
	// RowInserted means the row was absent and has been inserted.
	RowInserted
	// RowUnchanged means the row existed and already matched the snapshot.
	RowUnchanged
)

// RowApplier applies one snapshot row to the target table. updates
// holds the non-key columns, full the complete row including the key.
// The default applier emulates an upsert by probing with an UPDATE and
// inserting on a miss; a set-based upsert can replace it without
// changing call sites.
type RowApplier func(ctx context.Context, db *gorm.DB, table, keyColumn, key string, updates, full map[string]any) (RowOutcome, error)

// Reconciler converges a live table to an authoritative snapshot by
// applying inserts and updates row by row, then deleting stale rows in
// a single final pass.
type Reconciler struct {
	logger *zap.Logger
	apply  RowApplier
}

// NewReconciler creates a reconciler with the default update-then-insert
// row applier.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger, apply: applyByProbe}
}

// NewReconcilerWithApplier creates a reconciler with a custom row applier.
func NewReconcilerWithApplier(logger *zap.Logger, apply RowApplier) *Reconciler {
	return &Reconciler{logger: logger, apply: apply}
}

// Reconcile makes targetTable contain exactly the rows of snap, keyed
// by the snapshot's key column. Snapshot rows are applied in snapshot
// order; the delete pass runs strictly after every row has been
// applied, so a key present in the snapshot can never be deleted. Each
// statement commits independently; a failure aborts the run and leaves
// prior mutations in place.
func (r *Reconciler) Reconcile(ctx context.Context, db *gorm.DB, snap *dataset.Snapshot, targetTable string) (*Result, error) {
	if snap.Len() == 0 {
		return nil, ErrEmptySnapshot
	}

	valueCols := snap.ValueColumns()
	res := &Result{}

	for _, row := range snap.Rows {
		key := snap.Key(row)

		updates := make(map[string]any, len(valueCols))
		for _, c := range valueCols {
			updates[c] = row[c]
		}
		full := make(map[string]any, len(snap.Columns))
		for _, c := range snap.Columns {
			full[c] = row[c]
		}

		outcome, err := r.apply(ctx, db, targetTable, snap.KeyColumn, key, updates, full)
		if err != nil {
			return nil, &ReconciliationError{
				Phase:     PhaseApply,
				Key:       key,
				Inserted:  res.Inserted,
				Updated:   res.Updated,
				Unchanged: res.Unchanged,
				Err:       err,
			}
		}

		switch outcome {
		case RowInserted:
			res.Inserted++
			res.InsertedKeys = append(res.InsertedKeys, key)
			r.logger.Debug("inserted row", zap.String("key", key))
		case RowUpdated:
			res.Updated++
			res.UpdatedKeys = append(res.UpdatedKeys, key)
			r.logger.Debug("updated row", zap.String("key", key))
		default:
			res.Unchanged++
			res.UnchangedKeys = append(res.UnchangedKeys, key)
		}
	}

	// Delete pass. This runs last so rows inserted or updated above are
	// already members of the key set and can never be removed here.
	deleted, err := deleteStale(ctx, db, targetTable, snap.KeyColumn, snap.Keys())
	if err != nil {
		return nil, &ReconciliationError{
			Phase:     PhaseDelete,
			Inserted:  res.Inserted,
			Updated:   res.Updated,
			Unchanged: res.Unchanged,
			Err:       err,
		}
	}
	res.Deleted = len(deleted)
	res.DeletedKeys = deleted

	r.logger.Info("reconciliation complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("deleted", res.Deleted))

	return res, nil
}

// applyByProbe is the default RowApplier: update the non-key columns
// guarded by a value-change predicate, and insert the full row when the
// key turns out to be absent. One extra round trip per new or unchanged
// row buys portability across backends that lack a native upsert.
func applyByProbe(ctx context.Context, db *gorm.DB, table, keyColumn, key string, updates, full map[string]any) (RowOutcome, error) {
	keyExpr := database.QuoteColumn(db, keyColumn)

	if len(updates) > 0 {
		// Only touch rows whose values actually differ, so an unchanged
		// row is not reported as updated on repeat runs.
		var conds []string
		var args []any
		eq := nullSafeEq(db)
		for _, c := range orderedColumns(updates) {
			conds = append(conds, fmt.Sprintf("%s %s ?", database.QuoteColumn(db, c), eq))
			args = append(args, updates[c])
		}
		guard := "NOT (" + strings.Join(conds, " AND ") + ")"

		tx := db.WithContext(ctx).Table(table).
			Where(keyExpr+" = ?", key).
			Where(guard, args...).
			Updates(updates)
		if tx.Error != nil {
			return RowUnchanged, tx.Error
		}
		if tx.RowsAffected > 0 {
			return RowUpdated, nil
		}
	}

	// Either the row is absent or its values already match.
	var count int64
	if err := db.WithContext(ctx).Table(table).Where(keyExpr+" = ?", key).Count(&count).Error; err != nil {
		return RowUnchanged, err
	}
	if count > 0 {
		return RowUnchanged, nil
	}

	if err := db.WithContext(ctx).Table(table).Create(full).Error; err != nil {
		return RowUnchanged, err
	}
	return RowInserted, nil
}

// deleteStale removes every row whose key is not in keys and returns
// the removed keys in table order.
func deleteStale(ctx context.Context, db *gorm.DB, table, keyColumn string, keys []string) ([]string, error) {
	keyExpr := database.QuoteColumn(db, keyColumn)

	// Select through a clause.Column: Pluck's own select would emit a
	// spaced column name unquoted.
	var stale []string
	err := db.WithContext(ctx).Table(table).
		Select("?", clause.Column{Name: keyColumn}).
		Where(keyExpr+" NOT IN ?", keys).
		Pluck(keyColumn, &stale).Error
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	tx := db.WithContext(ctx).Table(table).
		Where(keyExpr+" IN ?", stale).
		Delete(nil)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return stale, nil
}

// nullSafeEq returns the dialect's null-safe equality operator. A plain
// "=" would make the change guard evaluate to NULL for rows holding
// NULL, and those rows would never be updated.
func nullSafeEq(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "IS"
	}
	return "<=>"
}

// orderedColumns returns map keys sorted so generated SQL is
// deterministic.
func orderedColumns(m map[string]any) []string {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
