package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"RACV_CV_PATH", "RACV_PROTOCOL_PATH", "RACV_DB", "RACV_LISTEN", "RACV_LOG_LEVEL", "RACV_REGISTRY"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, DefaultCvPath, cfg.CvPath)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ProtocolPath)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set, so clear them.
	os.Unsetenv("RACV_CV_PATH")
	os.Unsetenv("RACV_PROTOCOL_PATH")
	t.Cleanup(func() {
		os.Unsetenv("RACV_CV_PATH")
		os.Unsetenv("RACV_PROTOCOL_PATH")
	})

	env := "RACV_CV_PATH=/data/encode/cv.ra\nRACV_PROTOCOL_PATH=/data/protocols\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg := Load()
	assert.Equal(t, "/data/encode/cv.ra", cfg.CvPath)
	assert.Equal(t, "/data/protocols", cfg.ProtocolPath)
}
