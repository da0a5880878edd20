package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 24*time.Hour, cfg.Storage.GameTTL)
	assert.Equal(t, 64, cfg.Game.RetentionCapacity)
	assert.InDelta(t, 0.5, cfg.Game.RetentionThreshold, 1e-9)
	assert.Equal(t, 10*time.Minute, cfg.Game.HintTTL)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CWROBOT_PORT", "9090")
	t.Setenv("CWROBOT_STORAGE_TYPE", "redis")
	t.Setenv("CWROBOT_GAME_HINT_TTL", "30s")
	t.Setenv("CWROBOT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, 30*time.Second, cfg.Game.HintTTL)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cwrobot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7000
dictionary:
  path: /srv/words.txt
  tile_sets: [/srv/tiles/welsh.yaml]
game:
  retention_capacity: 16
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "/srv/words.txt", cfg.Dictionary.Path)
	assert.Equal(t, []string{"/srv/tiles/welsh.yaml"}, cfg.Dictionary.TileSetPaths)
	assert.Equal(t, 16, cfg.Game.RetentionCapacity)
	assert.Equal(t, 50, cfg.Game.FullRackBonus)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CWROBOT_STORAGE_TYPE", "postgres")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsRetentionThreshold(t *testing.T) {
	for _, v := range []string{"0", "-0.2", "1.5"} {
		t.Setenv("CWROBOT_GAME_RETENTION_THRESHOLD", v)
		_, err := Load("")
		assert.ErrorContains(t, err, "game.retention_threshold", v)
	}

	t.Setenv("CWROBOT_GAME_RETENTION_THRESHOLD", "1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cfg.Game.RetentionThreshold, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
