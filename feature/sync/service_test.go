package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSyncBackupFailureContinues(t *testing.T) {
	db := setupSyncDB(t, "svc_backup_failure")

	snap := supervisorSnapshot(t, []string{"A", "Alice", "Boss"})

	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(db, zap.New(core))

	report, err := svc.Sync(context.Background(), snap, "supervisors", "no_such_backup")
	assert.NoError(t, err)

	// Backup failed but reconciliation still converged the table.
	var backupErr *BackupError
	assert.ErrorAs(t, report.BackupErr, &backupErr)
	assert.NotNil(t, report.Result)
	assert.Equal(t, 1, report.Result.Inserted)
	assert.Equal(t, []string{"A"}, tableKeys(t, db))

	assert.Equal(t, 1, logs.FilterMessage("backup failed, continuing with reconciliation").Len())
}

func TestSyncWithBackup(t *testing.T) {
	db := setupBackupDB(t, "svc_with_backup")
	db.Exec(`INSERT INTO supervisors VALUES ('A', 'Alice', 'Old Boss')`)

	s := supervisorSnapshot(t, []string{"A", "Alice", "New Boss"})

	svc := NewService(db, zap.NewNop())
	report, errSync := svc.Sync(context.Background(), s, "supervisors", "supervisors_backup")
	assert.NoError(t, errSync)
	assert.NoError(t, report.BackupErr)
	assert.Equal(t, []string{"A"}, report.Result.UpdatedKeys)

	// The backup captured the pre-mutation state.
	var boss string
	db.Table("supervisors_backup").Where("domain_id = ?", "A").Pluck("supervisor_name", &boss)
	assert.Equal(t, "Old Boss", boss)
}

func TestSyncSkipsBackupWhenUnset(t *testing.T) {
	db := setupSyncDB(t, "svc_no_backup")

	snap := supervisorSnapshot(t, []string{"A", "Alice", "Boss"})

	svc := NewService(db, zap.NewNop())
	report, err := svc.Sync(context.Background(), snap, "supervisors", "")
	assert.NoError(t, err)
	assert.NoError(t, report.BackupErr)
	assert.Equal(t, 1, report.Result.Inserted)
}

func TestServiceLoad(t *testing.T) {
	db := setupSyncDB(t, "svc_load")

	snap := supervisorSnapshot(t,
		[]string{"A", "Alice", "Boss"},
		[]string{"B", "Bob", "Boss"},
	)

	svc := NewService(db, zap.NewNop())
	res, err := svc.Load(context.Background(), snap, "supervisors", 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.RowsInserted)
	assert.Equal(t, 2, res.Chunks)
}
