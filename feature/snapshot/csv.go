package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"tablesync/core/dataset"
)

// parseCSV reads delimited text into a snapshot. The first record is
// the header; every cell stays a string.
func parseCSV(r io.Reader, keyColumn string) (*dataset.Snapshot, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file has no header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	snap, err := dataset.New(header, keyColumn)
	if err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if err := snap.Append(record); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// FromFile reads a local CSV file into a snapshot. The bulk-load path
// uses this for report files dropped into a local folder.
func FromFile(path, keyColumn string) (*dataset.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := parseCSV(f, keyColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return snap, nil
}
