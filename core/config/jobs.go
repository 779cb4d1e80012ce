package config

// SyncJob configures the incremental table sync: which object holds the
// authoritative snapshot and which tables it converges.
type SyncJob struct {
	// Object is the snapshot file's object name in the source bucket.
	Object string `mapstructure:"object" default:""`
	// Format is the snapshot file format (csv or xlsx).
	Format string `mapstructure:"format" default:"csv"`
	// Sheet is the worksheet name for xlsx snapshots; empty means the first sheet.
	Sheet string `mapstructure:"sheet" default:""`
	// KeyColumn is the natural-key column shared by snapshot and table.
	KeyColumn string `mapstructure:"key_column" default:""`
	// TargetTable is the fully qualified table being converged.
	TargetTable string `mapstructure:"target_table" default:""`
	// BackupTable receives a copy of TargetTable before mutation.
	BackupTable string `mapstructure:"backup_table" default:""`
}

// LoadJob configures the bulk load of a dropped report file.
type LoadJob struct {
	// FolderPath is the local drop folder searched for report files.
	FolderPath string `mapstructure:"folder_path" default:""`
	// FilePattern is the glob pattern selecting candidate files (e.g. *.csv).
	FilePattern string `mapstructure:"file_pattern" default:"*.csv"`
	// KeyColumn is the natural-key column of the report.
	KeyColumn string `mapstructure:"key_column" default:""`
	// Table is the fully qualified table receiving the rows.
	Table string `mapstructure:"table" default:""`
	// BatchSize is the number of rows per insert chunk.
	BatchSize int `mapstructure:"batch_size" default:"50000"`
}

// ExportJob configures the report export: a key-list object selects
// rows from a table, and the result is written back to the bucket.
type ExportJob struct {
	// Object is the key-list file's object name in the source bucket.
	Object string `mapstructure:"object" default:""`
	// Format is the key-list file format (csv or xlsx).
	Format string `mapstructure:"format" default:"csv"`
	// Sheet is the worksheet name for xlsx key lists; empty means the first sheet.
	Sheet string `mapstructure:"sheet" default:""`
	// KeyColumn is the column in both the key list and the table.
	KeyColumn string `mapstructure:"key_column" default:""`
	// Table is the fully qualified table queried for matching rows.
	Table string `mapstructure:"table" default:""`
	// ReportPrefix is the object-name prefix for uploaded reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"exports"`
}
