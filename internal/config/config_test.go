package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWithEnv("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "DFA.txt", cfg.Definition)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
definition: machines/parity.yaml
log_level: debug
redis:
  addr: localhost:6379
  ttl: 1h
http:
  port: "9090"
`), 0644))

	cfg, err := LoadWithEnv(path, env(map[string]string{
		"DFA_LOG_LEVEL":      "info",
		"DFA_MAX_INPUT_SIZE": "128",
		"DFA_ENCRYPTION_KEY": "c2VjcmV0",
	}))
	require.NoError(t, err)

	assert.Equal(t, "machines/parity.yaml", cfg.Definition)
	assert.Equal(t, "info", cfg.LogLevel, "env overrides file")
	assert.Equal(t, "text", cfg.LogFormat, "defaults survive")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 128, cfg.MaxInputSize)
	assert.Equal(t, "c2VjcmV0", cfg.Redis.EncryptionKey)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("entry: contains-a\n"), 0644))

	cfg, err := LoadWithEnv("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, "contains-a", cfg.Entry)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWithEnv(filepath.Join(dir, "missing.yaml"), env(nil))
	assert.ErrorIs(t, err, os.ErrNotExist, "explicit config must exist")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("redis: [unclosed"), 0644))
	_, err = LoadWithEnv(bad, env(nil))
	assert.Error(t, err)

	for name, doc := range map[string]string{
		"negative size": "max_input_size: -5\n",
		"zero size":     "max_input_size: 0\n",
		"negative ttl":  "redis:\n  ttl: -1h\n",
	} {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "-")+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		_, err = LoadWithEnv(path, env(nil))
		assert.ErrorContains(t, err, "invalid config", name)
	}

	t.Chdir(dir)
	_, err = LoadWithEnv("", env(map[string]string{"DFA_REDIS_TTL": "forever"}))
	assert.ErrorContains(t, err, "DFA_REDIS_TTL")

	_, err = LoadWithEnv("", env(map[string]string{"DFA_MAX_INPUT_SIZE": "-1"}))
	assert.ErrorContains(t, err, "DFA_MAX_INPUT_SIZE")
}
