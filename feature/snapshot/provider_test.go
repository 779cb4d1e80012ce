package snapshot

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"tablesync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const supervisorCSV = "domain_id,associate_name,supervisor_name\nA,Alice,Boss\nB,Bob,Boss\n"

func TestFetchCSV(t *testing.T) {
	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "reports", "supervisors.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader(supervisorCSV)), nil)

	p := NewProvider(client, "reports", zap.NewNop())
	snap, err := p.Fetch(context.Background(), "supervisors.csv", "csv", "", "domain_id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"domain_id", "associate_name", "supervisor_name"}, snap.Columns)
	assert.Equal(t, []string{"A", "B"}, snap.Keys())
	assert.Equal(t, "Alice", snap.Rows[0]["associate_name"])

	client.AssertExpectations(t)
}

func TestFetchXLSX(t *testing.T) {
	// Build a small workbook in memory.
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	assert.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"domain_id", "associate_name", "supervisor_name"}))
	assert.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"A", "Alice", "Boss"}))
	// Trailing empty cell: excelize will trim it on read.
	assert.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"B", "Bob"}))

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))

	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "reports", "supervisors.xlsx", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(buf.Bytes())), nil)

	p := NewProvider(client, "reports", zap.NewNop())
	snap, err := p.Fetch(context.Background(), "supervisors.xlsx", "xlsx", "", "domain_id")
	assert.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "", snap.Rows[1]["supervisor_name"], "short rows are padded")
}

func TestFetchAuthenticationError(t *testing.T) {
	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "reports", "supervisors.csv", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."})

	p := NewProvider(client, "reports", zap.NewNop())
	_, err := p.Fetch(context.Background(), "supervisors.csv", "csv", "", "domain_id")

	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "supervisors.csv", authErr.Object)
}

func TestFetchUnsupportedFormat(t *testing.T) {
	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "reports", "supervisors.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader("{}")), nil)

	p := NewProvider(client, "reports", zap.NewNop())
	_, err := p.Fetch(context.Background(), "supervisors.json", "json", "", "domain_id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestFetchMissingKeyColumn(t *testing.T) {
	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "reports", "supervisors.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader(supervisorCSV)), nil)

	p := NewProvider(client, "reports", zap.NewNop())
	_, err := p.Fetch(context.Background(), "supervisors.csv", "csv", "", "employee_id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "key column")
}

func TestFetchLatestUnderPrefix(t *testing.T) {
	older := minio.ObjectInfo{Key: "drops/2024-01.csv", LastModified: time.Now().Add(-time.Hour)}
	newer := minio.ObjectInfo{Key: "drops/2024-02.csv", LastModified: time.Now()}

	ch := make(chan minio.ObjectInfo, 2)
	ch <- older
	ch <- newer
	close(ch)

	client := &mocks.Client{}
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))
	client.On("GetObject", mock.Anything, "reports", "drops/2024-02.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader(supervisorCSV)), nil)

	p := NewProvider(client, "reports", zap.NewNop())
	snap, err := p.Fetch(context.Background(), "drops/", "csv", "", "domain_id")
	assert.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	client.AssertExpectations(t)
}
