// Package database handles database connections, connection resolution,
// and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure MySQL connections from a connection profile.
//
// # Connection Resolution
//
// A profile (Config) can describe several authentication methods: an
// explicit driver DSN, a trusted credential-less connection, and a
// username/password fallback, in that precedence order. The Resolver
// probes each method with a connect-then-close liveness check and
// returns a fresh connection from the first descriptor that works. If
// every method fails, the error lists each attempted method and its
// failure reason.
//
// # Schema Inspection
//
// TableColumns retrieves a table's column definitions, which the sync
// service uses to warn about snapshot columns absent from the target
// table before any mutation runs.
//
// # Usage
//
//	resolver := database.NewResolver(log)
//	db, method, err := resolver.Resolve(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal("connection resolution failed", zap.Error(err))
//	}
package database
