package cmd

import (
	"context"
	"fmt"

	"tablesync/core/config"
	"tablesync/core/database"
	"tablesync/core/logger"
	"tablesync/core/storage"
	"tablesync/feature/snapshot"
	"tablesync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipBackup bool

// syncCmd reconciles the target table against the configured snapshot.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the target table against the authoritative snapshot",
	Long: `Fetches the configured snapshot file from the document store, backs up
the target table, and converges the table to the snapshot: rows missing
from the table are inserted, changed rows are updated, and rows absent
from the snapshot are deleted.

A backup failure is logged and the run continues; check the logs and the
backup table before relying on it for recovery.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&skipBackup, "skip-backup", false, "Skip the pre-mutation backup copy")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = logger.WithRunID(l)

	l.Info("starting table sync",
		zap.String("target_table", cfg.Sync.TargetTable),
		zap.String("object", cfg.Sync.Object))

	client, err := storage.NewClient(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to document store: %w", err)
	}

	provider := snapshot.NewProvider(client, cfg.Source.Bucket, l)
	snap, err := provider.Fetch(ctx, cfg.Sync.Object, cfg.Sync.Format, cfg.Sync.Sheet, cfg.Sync.KeyColumn)
	if err != nil {
		return err
	}

	db, method, err := database.NewResolver(l).Resolve(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)
	l.Info("database connection resolved", zap.String("method", method))

	backupTable := cfg.Sync.BackupTable
	if skipBackup {
		backupTable = ""
	}

	report, err := sync.NewService(db, l).Sync(ctx, snap, cfg.Sync.TargetTable, backupTable)
	if err != nil {
		return err
	}

	res := report.Result
	l.Info("sync complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("deleted", res.Deleted),
		zap.Strings("deleted_keys", res.DeletedKeys))
	return nil
}
