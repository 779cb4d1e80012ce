// Package export writes table extracts back to the document store.
//
// Given a key list (typically fetched by the snapshot provider), the
// service selects the matching rows from a table and uploads them as a
// date-stamped XLSX workbook. Empty result sets skip the upload.
package export
