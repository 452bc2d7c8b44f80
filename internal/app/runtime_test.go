package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/synexis/synexis-admin/internal/testing/guard"
)

func TestGuardEnablesTestMode(t *testing.T) {
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())

	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("COMPACT_BREAKPOINT", "640")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 640, cfg.CompactBreakpoint)
	require.Equal(t, "*/10 * * * *", cfg.WarmupCron)
	require.False(t, cfg.IsProduction())
}
