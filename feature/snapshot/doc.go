// Package snapshot retrieves authoritative report files and
// materializes them as dataset snapshots.
//
// The provider downloads a CSV or XLSX object from the document store,
// parses it with every cell kept as a string, and validates the key
// column once at this boundary. Credential rejections from the store
// surface as AuthenticationError; format negotiation and parsing stay
// entirely inside this package, so the sync engine only ever sees a
// finished Snapshot.
//
// For locally dropped report files there are LatestFile (newest match
// in a folder) and FromFile (CSV from disk).
package snapshot
