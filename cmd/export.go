package cmd

import (
	"context"
	"fmt"

	"tablesync/core/config"
	"tablesync/core/database"
	"tablesync/core/logger"
	"tablesync/core/storage"
	"tablesync/feature/export"
	"tablesync/feature/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd queries rows by a key-list file and uploads the extract.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export table rows matching a key list back to the document store",
	Long: `Fetches the configured key-list file from the document store, selects
the matching rows from the configured table, and uploads the result as
a date-stamped spreadsheet.`,
	RunE: runExport,
}

func init() {
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	client, err := storage.NewClient(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to document store: %w", err)
	}

	provider := snapshot.NewProvider(client, cfg.Source.Bucket, l)
	keyList, err := provider.Fetch(ctx, cfg.Export.Object, cfg.Export.Format, cfg.Export.Sheet, cfg.Export.KeyColumn)
	if err != nil {
		return err
	}

	db, method, err := database.NewResolver(l).Resolve(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)
	l.Info("database connection resolved", zap.String("method", method))

	svc := export.NewService(db, client, cfg.Source.Bucket, l)
	object, err := svc.Export(ctx, cfg.Export.Table, cfg.Export.KeyColumn, keyList.Keys(), cfg.Export.ReportPrefix)
	if err != nil {
		return err
	}
	if object == "" {
		l.Info("nothing exported")
		return nil
	}

	l.Info("export complete", zap.String("object", object))
	return nil
}
