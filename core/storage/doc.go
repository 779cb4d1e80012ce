// Package storage provides the document-store client used by the
// snapshot provider and the export service.
//
// It wraps the Minio S3 client behind a small interface so tests can
// substitute a mock (see the mocks subpackage). Only the operations
// the system actually performs are exposed: bucket existence checks,
// object download/upload, and listing.
package storage
