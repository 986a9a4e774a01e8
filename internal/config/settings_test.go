package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesOriginalDefaults(t *testing.T) {
	settings := Default()
	require.Equal(t, 15, settings.TotalTime)
	require.Equal(t, 2, settings.NrRobots)
	require.Equal(t, 4, settings.NrRequests)
	require.Empty(t, settings.OutputFile)
}

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("total_time: 100\nnr_robots: 5\nnr_requests: 20\nassignment_method: single\n"), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 100, settings.TotalTime)
	require.Equal(t, 5, settings.NrRobots)
	require.Equal(t, 20, settings.NrRequests)
	require.Equal(t, Single, settings.AssignmentMethod)
	require.Equal(t, int64(42), settings.Seed, "unset fields keep the default")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
