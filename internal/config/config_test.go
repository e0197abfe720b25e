package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Mode)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "client", cfg.TTSMode)
	require.Equal(t, int64(32768), cfg.ReadLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("ELEVENLABS_API_KEY", "e-key")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "g-key", cfg.GoogleAPIKey)
	require.Equal(t, "e-key", cfg.ElevenLabsAPIKey)
}
