package snapshot

import (
	"errors"
	"fmt"
	"io"

	"tablesync/core/dataset"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads a spreadsheet into a snapshot. The first row of the
// selected sheet is the header. Excelize trims trailing empty cells,
// so short rows are padded back to the header width.
func parseXLSX(r io.Reader, sheet, keyColumn string) (*dataset.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet has no header row")
	}

	header := rows[0]
	snap, err := dataset.New(header, keyColumn)
	if err != nil {
		return nil, err
	}

	for _, record := range rows[1:] {
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		if err := snap.Append(record); err != nil {
			return nil, err
		}
	}

	return snap, nil
}
