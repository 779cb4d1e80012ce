package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "report_jan.csv")
	newer := filepath.Join(dir, "report_feb.csv")
	other := filepath.Join(dir, "notes.txt")

	for _, path := range []string{older, newer, other} {
		assert.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	assert.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))
	assert.NoError(t, os.Chtimes(newer, time.Now(), time.Now()))

	latest, err := LatestFile(dir, "*.csv")
	assert.NoError(t, err)
	assert.Equal(t, newer, latest)
}

func TestLatestFileNoMatches(t *testing.T) {
	_, err := LatestFile(t.TempDir(), "*.csv")
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	assert.NoError(t, os.WriteFile(path, []byte(supervisorCSV), 0o644))

	snap, err := FromFile(path, "domain_id")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, snap.Keys())
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "absent.csv"), "domain_id")
	assert.Error(t, err)
}
