package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "data/Stand_2025_10_DE.xlsx", cfg.WorkbookPath)
	require.Equal(t, "127.0.0.1:8050", cfg.Addr())
	require.Equal(t, 16, cfg.MaxConcurrentRequests)
	require.Equal(t, 4, cfg.MaxConcurrentLoads)
	require.Equal(t, 30*time.Second, cfg.OperationTimeout)
	require.Equal(t, 10*time.Minute, cfg.SheetCacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AERODASH_WORKBOOK_PATH", "/tmp/registry.xlsx")
	t.Setenv("AERODASH_PORT", "9000")
	t.Setenv("AERODASH_SHEET_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/tmp/registry.xlsx", cfg.WorkbookPath)
	require.Equal(t, "127.0.0.1:9000", cfg.Addr())
	require.Equal(t, 90*time.Second, cfg.SheetCacheTTL)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("AERODASH_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
