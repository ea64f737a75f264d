package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("SALES_DATASET", "reporting.sales_summary_view")
	t.Setenv("FETCH_PAGE_SIZE", "500")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("EXPORT_BUCKET", "reports")

	cfg := Load()

	assert.Same(t, cfg, Load())
	assert.Equal(t, "reporting.sales_summary_view", cfg.Fetch.Dataset)
	assert.Equal(t, 500, cfg.Fetch.PageSize)
	assert.Equal(t, 1, cfg.Fetch.Concurrency)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 8*60*60, cfg.Session.TTLSeconds)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "reports", cfg.Export.Bucket)
	assert.False(t, cfg.Export.Enabled())
}
