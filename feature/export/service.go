package export

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"tablesync/core/database"
	"tablesync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service exports table rows selected by a key list as a date-stamped
// spreadsheet uploaded back to the document store.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates an export service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{db: db, client: client, bucket: bucket, logger: logger}
}

// Export queries table for rows whose keyColumn value is in keys and
// uploads the result as an XLSX report under reportPrefix. It returns
// the uploaded object name, or "" when no rows matched (nothing is
// uploaded in that case).
func (s *Service) Export(ctx context.Context, table, keyColumn string, keys []string, reportPrefix string) (string, error) {
	if len(keys) == 0 {
		s.logger.Info("no keys to export", zap.String("table", table))
		return "", nil
	}

	var rows []map[string]any
	err := s.db.WithContext(ctx).Table(table).
		Where(database.QuoteColumn(s.db, keyColumn)+" IN ?", keys).
		Order(clause.OrderByColumn{Column: clause.Column{Name: keyColumn}}).
		Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", table, err)
	}
	if len(rows) == 0 {
		s.logger.Info("no rows matched the key list",
			zap.String("table", table),
			zap.Int("keys", len(keys)))
		return "", nil
	}

	columns := orderedColumns(rows[0], keyColumn)
	data, err := buildWorkbook(columns, rows)
	if err != nil {
		return "", err
	}

	object := fmt.Sprintf("%s/%s_%s.xlsx", reportPrefix, time.Now().Format("20060102"), table)
	_, err = s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: xlsxContentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", object, err)
	}

	s.logger.Info("report exported",
		zap.String("object", object),
		zap.Int("rows", len(rows)))
	return object, nil
}

// buildWorkbook renders rows into a single-sheet workbook.
func buildWorkbook(columns []string, rows []map[string]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]any, len(columns))
		for j, c := range columns {
			cells[j] = cellString(row[c])
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// orderedColumns puts the key column first and the rest alphabetically
// so report layout is stable across runs.
func orderedColumns(row map[string]any, keyColumn string) []string {
	var rest []string
	for c := range row {
		if c != keyColumn {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append([]string{keyColumn}, rest...)
}

// cellString normalizes driver-returned values for spreadsheet cells.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
