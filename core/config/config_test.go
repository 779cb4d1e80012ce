package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "csv", cfg.Sync.Format)
	assert.Equal(t, 50000, cfg.Load.BatchSize)
	assert.Equal(t, "exports", cfg.Export.ReportPrefix)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("SYNC_KEY_COLUMN", "domain_id")
	t.Setenv("LOAD_BATCH_SIZE", "500")
	t.Setenv("EXPORT_SHEET", "Keys")

	cfg, err := LoadConfig(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "domain_id", cfg.Sync.KeyColumn)
	assert.Equal(t, 500, cfg.Load.BatchSize)
	assert.Equal(t, "Keys", cfg.Export.Sheet)
}
