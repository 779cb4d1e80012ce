package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"tablesync/core/dataset"
	"tablesync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// AuthenticationError reports that the document store rejected the
// provider's credentials while retrieving an object.
type AuthenticationError struct {
	Object string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed fetching %s: %v", e.Object, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Provider fetches report files from the document store and
// materializes them as snapshots.
type Provider struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewProvider creates a snapshot provider for one bucket.
func NewProvider(client storage.Client, bucket string, logger *zap.Logger) *Provider {
	return &Provider{client: client, bucket: bucket, logger: logger}
}

// Fetch downloads an object and parses it into a snapshot. format is
// "csv" or "xlsx"; sheet selects the worksheet for xlsx files (empty
// means the first sheet). An object name ending in "/" is treated as a
// prefix and the most recently modified object under it is fetched.
// The whole file is read into memory; the snapshot is fully
// materialized before any consumer sees it.
func (p *Provider) Fetch(ctx context.Context, object, format, sheet, keyColumn string) (*dataset.Snapshot, error) {
	if strings.HasSuffix(object, "/") {
		resolved, err := p.latestObject(ctx, object)
		if err != nil {
			return nil, err
		}
		object = resolved
	}

	rc, err := p.client.GetObject(ctx, p.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, classify(object, err)
	}

	var snap *dataset.Snapshot
	switch strings.ToLower(format) {
	case "csv":
		snap, err = parseCSV(bytes.NewReader(data), keyColumn)
	case "xlsx":
		snap, err = parseXLSX(bytes.NewReader(data), sheet, keyColumn)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", object, format, err)
	}

	p.logger.Info("snapshot fetched",
		zap.String("object", object),
		zap.String("format", format),
		zap.Int("rows", snap.Len()))
	return snap, nil
}

// latestObject returns the most recently modified object under prefix.
func (p *Provider) latestObject(ctx context.Context, prefix string) (string, error) {
	var newest minio.ObjectInfo
	found := false

	for info := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return "", classify(prefix, info.Err)
		}
		if !found || info.LastModified.After(newest.LastModified) {
			newest = info
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("no objects found under prefix %s", prefix)
	}

	p.logger.Info("latest object resolved",
		zap.String("prefix", prefix),
		zap.String("object", newest.Key))
	return newest.Key, nil
}

// classify turns document-store credential rejections into
// AuthenticationError and wraps everything else.
func classify(object string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &AuthenticationError{Object: object, Err: err}
	}
	return fmt.Errorf("failed to fetch object %s: %w", object, err)
}
