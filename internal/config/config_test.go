package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, cfg.RowDelay)
	require.Equal(t, 30*time.Second, cfg.LeaderLockTTL)
	require.Equal(t, ":9090", cfg.OpsAddr)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEGACY_DATABASE_URL", "postgres://legacy.example/db")
	t.Setenv("LEDGER_DATABASE_URL", "postgres://ledger.example/db")
	t.Setenv("ROW_DELAY", "2s")
	t.Setenv("MIGRATOR_OPS_ADDR", ":8088")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://legacy.example/db", cfg.LegacyDatabaseURL)
	require.Equal(t, "postgres://ledger.example/db", cfg.LedgerDatabaseURL)
	require.Equal(t, 2*time.Second, cfg.RowDelay)
	require.Equal(t, ":8088", cfg.OpsAddr)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("ROW_DELAY", "not-a-duration")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ROW_DELAY", "500ms")
	t.Setenv("LEADER_LOCK_TTL", "1s")
	_, err = Load()
	require.Error(t, err)
}
