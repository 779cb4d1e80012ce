// Package config provides configuration management for tablesync.
//
// It utilizes Viper for loading configuration from environment
// variables and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided
// into subsections:
//   - Database: connection profile for the relational store
//   - Source: document-store (S3/MinIO) credentials and bucket
//   - Log: logging level and format
//   - Sync / Load / Export: per-job settings (tables, key columns,
//     object names, batch size)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.TargetTable)
package config
