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

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "Chronos Protocol", cfg.Transform.BannedTitle)
	assert.Equal(t, DefaultRemoveFields, cfg.Transform.RemoveFields)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	t.Setenv("CARDSYNC_TEST_DATA", "/var/lib/cards")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
url = "https://example.com/api/cards/"
timeout = "5s"

[store]
path = "${CARDSYNC_TEST_DATA}/cards.json"

[transform]
remove_fields = ["code", "url"]

[log]
level = "DEBUG"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/cards/", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "/var/lib/cards/cards.json", cfg.Store.Path)
	assert.Equal(t, []string{"code", "url"}, cfg.Transform.RemoveFields)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	// untouched sections keep their defaults
	assert.Equal(t, "icebreaker", cfg.Transform.IcebreakerTag)
	assert.Equal(t, "/images/cards/", cfg.Images.URLPrefix)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  timeout: 10s
images:
  width: 0
  rate: 2.5
transform:
  banned_title: "Banned Subset"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, 0, cfg.Images.Width)
	assert.Equal(t, 2.5, cfg.Images.Rate)
	assert.Equal(t, "Banned Subset", cfg.Transform.BannedTitle)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad url", "[api]\nurl = \"not a url\"\n"},
		{"bad duration", "[api]\ntimeout = \"soon\"\n"},
		{"empty banned title", "[transform]\nbanned_title = \"\"\n"},
		{"empty removal entry", "[transform]\nremove_fields = [\"code\", \"\"]\n"},
		{"unknown log format", "[log]\nformat = \"xml\"\n"},
		{"malformed toml", "[api\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardsync", "config.toml")

	written, err := WriteDefault(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, written, loaded)

	// a second call keeps the existing file
	again, err := WriteDefault(path)
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	assert.Equal(t, "/tmp/xdg-config/cardsync/config.toml", GetConfigFilePath())
	assert.Equal(t, "/tmp/xdg-data/cardsync", GetDataDir())
	assert.Equal(t, "/tmp/xdg-data/cardsync/cards.json", Default().Store.Path)
}
