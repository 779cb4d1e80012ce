package sync

import (
	"context"
	"time"

	"tablesync/core/dataset"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultBatchSize is the chunk size used when the caller passes zero.
const DefaultBatchSize = 50000

// LoadResult summarizes one bulk load.
type LoadResult struct {
	// RowsInserted is the total number of rows committed.
	RowsInserted int
	// Chunks is the number of insert statements executed.
	Chunks int
}

// Loader performs chunked bulk insertion of a row set.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a bulk loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load splits the snapshot's rows into consecutive chunks of at most
// batchSize and executes one multi-row insert per chunk, in order. The
// last chunk may be smaller. A chunk failure aborts immediately; rows
// committed by earlier chunks stay committed and the error reports the
// failing chunk index and the committed count.
func (l *Loader) Load(ctx context.Context, db *gorm.DB, snap *dataset.Snapshot, table string, batchSize int) (*LoadResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	total := snap.Len()
	res := &LoadResult{}

	for begin := 0; begin < total; begin += batchSize {
		end := begin + batchSize
		if end > total {
			end = total
		}

		batch := make([]map[string]any, 0, end-begin)
		for _, row := range snap.Rows[begin:end] {
			values := make(map[string]any, len(snap.Columns))
			for _, c := range snap.Columns {
				values[c] = row[c]
			}
			batch = append(batch, values)
		}

		if err := db.WithContext(ctx).Table(table).Create(batch).Error; err != nil {
			return nil, &InsertError{Chunk: res.Chunks, RowsCommitted: res.RowsInserted, Err: err}
		}

		res.Chunks++
		res.RowsInserted += len(batch)
		l.logger.Info("inserted batch",
			zap.Int("rows", len(batch)),
			zap.Int("total_inserted", res.RowsInserted),
			zap.Int("total_rows", total))
	}

	l.logger.Info("bulk load complete",
		zap.Int("rows", res.RowsInserted),
		zap.Int("chunks", res.Chunks),
		zap.Duration("elapsed", time.Since(start)))

	return res, nil
}
