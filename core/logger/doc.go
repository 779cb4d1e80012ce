// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). Components receive their logger explicitly;
// there is no package-level global.
//
// # Run Correlation
//
// Batch runs are one-shot processes, so instead of request IDs the package
// offers WithRunID, which tags a logger with a generated run identifier.
// All log entries produced during one sync/load run share the same run_id.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRunID(log)
//	log.Info("sync started")
package logger
