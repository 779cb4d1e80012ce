package cmd

import (
	"context"
	"fmt"

	"tablesync/core/config"
	"tablesync/core/database"
	"tablesync/core/logger"
	"tablesync/feature/snapshot"
	"tablesync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadFile string

// loadCmd bulk inserts the newest dropped report file into a table.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk load the newest report file into the configured table",
	Long: `Finds the most recently modified report file in the configured drop
folder (or takes an explicit file via --file), reads it with every
column as text, and inserts the rows in batches.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "Load this file instead of the newest match in the drop folder")
	RootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
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

	path := loadFile
	if path == "" {
		path, err = snapshot.LatestFile(cfg.Load.FolderPath, cfg.Load.FilePattern)
		if err != nil {
			return err
		}
	}
	l.Info("loading report file", zap.String("file", path), zap.String("table", cfg.Load.Table))

	snap, err := snapshot.FromFile(path, cfg.Load.KeyColumn)
	if err != nil {
		return err
	}

	db, method, err := database.NewResolver(l).Resolve(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)
	l.Info("database connection resolved", zap.String("method", method))

	res, err := sync.NewService(db, l).Load(ctx, snap, cfg.Load.Table, cfg.Load.BatchSize)
	if err != nil {
		return err
	}

	l.Info("load complete",
		zap.String("file", path),
		zap.Int("rows", res.RowsInserted),
		zap.Int("chunks", res.Chunks))
	return nil
}
