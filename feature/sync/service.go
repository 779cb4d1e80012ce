package sync

import (
	"context"
	"strings"

	"tablesync/core/database"
	"tablesync/core/dataset"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncReport is the outcome of one sync run. BackupErr is non-nil when
// the pre-mutation backup failed but reconciliation proceeded anyway.
type SyncReport struct {
	BackupErr error
	Result    *Result
}

// Service orchestrates backup, reconciliation, and bulk loading over a
// resolved connection.
type Service struct {
	db         *gorm.DB
	logger     *zap.Logger
	reconciler *Reconciler
	loader     *Loader
}

// NewService creates a sync service bound to one connection.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		logger:     logger,
		reconciler: NewReconciler(logger),
		loader:     NewLoader(logger),
	}
}

// Sync backs up the target table and reconciles it against the
// snapshot. A backup failure is logged and reported but does not stop
// reconciliation; the most recent successful backup stays in place as
// the recovery point. Pass an empty backupTable to skip the backup.
func (s *Service) Sync(ctx context.Context, snap *dataset.Snapshot, targetTable, backupTable string) (*SyncReport, error) {
	s.warnOnMissingColumns(snap, targetTable)

	report := &SyncReport{}

	if backupTable != "" {
		if err := Backup(ctx, s.db, targetTable, backupTable); err != nil {
			// Known risk, preserved deliberately: the run continues with
			// a stale (or empty) backup generation.
			s.logger.Warn("backup failed, continuing with reconciliation",
				zap.String("backup_table", backupTable),
				zap.Error(err))
			report.BackupErr = err
		} else {
			s.logger.Info("backup completed",
				zap.String("source_table", targetTable),
				zap.String("backup_table", backupTable))
		}
	}

	result, err := s.reconciler.Reconcile(ctx, s.db, snap, targetTable)
	if err != nil {
		return report, err
	}
	report.Result = result
	return report, nil
}

// Load bulk-inserts the snapshot's rows into the table in chunks.
func (s *Service) Load(ctx context.Context, snap *dataset.Snapshot, table string, batchSize int) (*LoadResult, error) {
	s.warnOnMissingColumns(snap, table)
	return s.loader.Load(ctx, s.db, snap, table, batchSize)
}

// warnOnMissingColumns checks the snapshot's columns against the target
// table and logs any that are absent. Inspection is best effort; a
// qualified table name or an inspection failure only skips the check.
func (s *Service) warnOnMissingColumns(snap *dataset.Snapshot, table string) {
	if strings.Contains(table, ".") {
		return
	}
	missing, err := database.MissingColumns(s.db, table, snap.Columns)
	if err != nil {
		s.logger.Debug("column inspection skipped", zap.String("table", table), zap.Error(err))
		return
	}
	if len(missing) > 0 {
		s.logger.Warn("snapshot columns missing on target table",
			zap.String("table", table),
			zap.Strings("columns", missing))
	}
}
