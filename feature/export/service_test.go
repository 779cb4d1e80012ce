package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"tablesync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExportDB(t *testing.T, dbName string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.Exec(`CREATE TABLE providers (
		tin VARCHAR(20) PRIMARY KEY,
		name VARCHAR(120),
		state VARCHAR(2)
	)`).Error
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	db.Exec(`INSERT INTO providers VALUES ('111', 'Clinic A', 'OH')`)
	db.Exec(`INSERT INTO providers VALUES ('222', 'Clinic B', 'OH')`)
	db.Exec(`INSERT INTO providers VALUES ('333', 'Clinic C', 'KY')`)
	return db
}

func TestExportUploadsMatchingRows(t *testing.T) {
	db := setupExportDB(t, "export_match")

	var uploaded []byte
	client := &mocks.Client{}
	client.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			uploaded = data
		}).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(db, client, "reports", zap.NewNop())
	object, err := svc.Export(context.Background(), "providers", "tin", []string{"111", "222"}, "exports")
	assert.NoError(t, err)
	assert.Contains(t, object, "exports/")
	assert.Contains(t, object, "providers.xlsx")

	// The uploaded workbook holds exactly the matched rows.
	f, err := excelize.OpenReader(bytes.NewReader(uploaded))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"tin", "name", "state"}, rows[0])
	assert.Equal(t, "111", rows[1][0])
	assert.Equal(t, "222", rows[2][0])

	client.AssertExpectations(t)
}

func TestExportSpacedColumnNames(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:export_spaced?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.Exec("CREATE TABLE providers (`Provider TIN` VARCHAR(20) PRIMARY KEY, `Provider Name` VARCHAR(120))").Error
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Exec("INSERT INTO providers VALUES ('222', 'Clinic B')")
	db.Exec("INSERT INTO providers VALUES ('111', 'Clinic A')")

	var uploaded []byte
	client := &mocks.Client{}
	client.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			uploaded = data
		}).
		Return(minio.UploadInfo{}, nil)

	svc := NewService(db, client, "reports", zap.NewNop())
	_, err = svc.Export(context.Background(), "providers", "Provider TIN", []string{"111", "222"}, "exports")
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(uploaded))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	assert.NoError(t, err)
	assert.Equal(t, []string{"Provider TIN", "Provider Name"}, rows[0])
	assert.Equal(t, "111", rows[1][0])
	assert.Equal(t, "222", rows[2][0])
}

func TestExportNoMatches(t *testing.T) {
	db := setupExportDB(t, "export_nomatch")

	client := &mocks.Client{}

	svc := NewService(db, client, "reports", zap.NewNop())
	object, err := svc.Export(context.Background(), "providers", "tin", []string{"999"}, "exports")
	assert.NoError(t, err)
	assert.Empty(t, object)

	client.AssertNotCalled(t, "PutObject")
}

func TestExportEmptyKeyList(t *testing.T) {
	db := setupExportDB(t, "export_nokeys")

	client := &mocks.Client{}

	svc := NewService(db, client, "reports", zap.NewNop())
	object, err := svc.Export(context.Background(), "providers", "tin", nil, "exports")
	assert.NoError(t, err)
	assert.Empty(t, object)
}
