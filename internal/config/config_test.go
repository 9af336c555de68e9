package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfigAppliesDefaults(t *testing.T) {
	path := writeTemp(t, `{
		"rays": 1024,
		"reflections": 16,
		"sample_rate": 44100,
		"bit_depth": 16,
		"source_position": [2,2,1],
		"mic_position": [2,2,3]
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint(1024), cfg.Rays)
	require.Equal(t, 45.0, cfg.Hipass)
	require.True(t, cfg.Normalize)
	require.Equal(t, 1.0, cfg.VolumeScale)
}

func TestLoad_MissingRequiredKeysCollectsAllErrors(t *testing.T) {
	path := writeTemp(t, `{"rays": 10}`)
	_, err := Load(path)
	require.Error(t, err)
	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(verrs), 5)
}

func TestLoad_BadBitDepthIsRejected(t *testing.T) {
	path := writeTemp(t, `{
		"rays": 1, "reflections": 1, "sample_rate": 44100, "bit_depth": 8,
		"source_position": [0,0,0], "mic_position": [0,0,0]
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_UnknownKeysAreIgnored(t *testing.T) {
	path := writeTemp(t, `{
		"rays": 1, "reflections": 1, "sample_rate": 44100, "bit_depth": 16,
		"source_position": [0,0,0], "mic_position": [0,0,0],
		"totally_unknown_key": 123
	}`)
	_, err := Load(path)
	require.NoError(t, err)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
