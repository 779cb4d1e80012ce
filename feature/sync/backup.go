package sync

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Backup copies the current contents of sourceTable into backupTable.
// The backup table is fully cleared first, so it holds exactly one
// generation at a time. The clear and the copy are separate statements;
// this is not transactional with any reconciliation that follows.
func Backup(ctx context.Context, db *gorm.DB, sourceTable, backupTable string) error {
	if err := db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", backupTable)).Error; err != nil {
		return &BackupError{Stage: "clear", Table: backupTable, Err: err}
	}

	copySQL := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", backupTable, sourceTable)
	if err := db.WithContext(ctx).Exec(copySQL).Error; err != nil {
		return &BackupError{Stage: "copy", Table: sourceTable, Err: err}
	}

	return nil
}
