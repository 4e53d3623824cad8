package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "Hotel", cfg.DefaultBase)
	require.Equal(t, 120, cfg.MinTripMinutes)
	require.Equal(t, 168*time.Hour, cfg.CacheTTL)
	require.False(t, cfg.IsProduction())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("MIN_TRIP_MINUTES", "90")
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 90, cfg.MinTripMinutes)
	require.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoadRejectsBadProviderRate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PROVIDER_RATE_PER_SEC", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestGetFallback(t *testing.T) {
	t.Setenv("ITINERARY_TEST_KEY", "")
	require.Equal(t, "x", Get("ITINERARY_TEST_KEY", "x"))

	t.Setenv("ITINERARY_TEST_KEY", "y")
	require.Equal(t, "y", Get("ITINERARY_TEST_KEY", "x"))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
