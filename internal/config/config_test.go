package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/layerviz/internal/scheme"
	"github.com/Benny93/layerviz/internal/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layerviz.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, scheme.PresetLight, cfg.Theme)
	assert.False(t, cfg.Extensions.Transformers)
	assert.Equal(t, ".layerviz/badger", cfg.Store.Path)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Empty(t, cfg.Overrides)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
theme = "dark"

[extensions]
transformers = true

[store]
path = "/tmp/layerviz-store"

[log]
verbosity = 2
json = true

[overrides.dark]
conv = "steelblue"
TensorNode = "gray20"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.Theme)
	assert.True(t, cfg.Extensions.Transformers)
	assert.True(t, cfg.TableOptions().Transformers)
	assert.Equal(t, "/tmp/layerviz-store", cfg.Store.Path)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.True(t, cfg.Log.JSON)
	require.Contains(t, cfg.Overrides, "dark")
	assert.Equal(t, "steelblue", cfg.Overrides["dark"]["conv"])
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("MissingExplicitFile", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "theme = "))
		assert.Error(t, err)
	})

	t.Run("UnknownOverrideKey", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "[overrides.light]\nattention = \"red\"\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, scheme.ErrUnknownKey))
	})
}

func TestLoadWithViper(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	v.Set("theme", "ocean")
	v.Set("extensions.transformers", true)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "ocean", cfg.Theme)
	assert.True(t, cfg.Table().Len() > 0)
	assert.Equal(t, []string{"transformers"}, cfg.Table().Extensions())
}

func TestResolveScheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryBackend()
	ocean := scheme.Dark()
	ocean.Conv = "steelblue"
	require.NoError(t, store.SaveScheme(ctx, &storage.SchemeRecord{Name: "ocean", Scheme: ocean}))

	cfg := Default()
	cfg.Overrides = map[string]map[string]string{
		"light": {"rnn": "gold"},
		"OCEAN": {"tensornode": "white"},
	}

	t.Run("DefaultTheme", func(t *testing.T) {
		t.Parallel()
		cs, err := cfg.ResolveScheme(ctx, nil, "")
		require.NoError(t, err)
		assert.Equal(t, "gold", cs.RNN)
		assert.Equal(t, "lightyellow", cs.TensorNode)
	})

	t.Run("PresetWithoutOverrides", func(t *testing.T) {
		t.Parallel()
		cs, err := cfg.ResolveScheme(ctx, store, "dark")
		require.NoError(t, err)
		assert.Equal(t, scheme.Dark(), cs)
	})

	t.Run("SavedScheme", func(t *testing.T) {
		t.Parallel()
		cs, err := cfg.ResolveScheme(ctx, store, "ocean")
		require.NoError(t, err)
		assert.Equal(t, "steelblue", cs.Conv)
		assert.Equal(t, "white", cs.TensorNode)
	})

	t.Run("UnknownWithoutStore", func(t *testing.T) {
		t.Parallel()
		_, err := cfg.ResolveScheme(ctx, nil, "ocean")
		assert.True(t, errors.Is(err, scheme.ErrUnknownPreset))
	})

	t.Run("UnknownWithStore", func(t *testing.T) {
		t.Parallel()
		_, err := cfg.ResolveScheme(ctx, store, "forest")
		assert.True(t, errors.Is(err, scheme.ErrUnknownPreset))
	})
}

func TestWatch(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "theme = \"light\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) { changes <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("theme = \"dark\"\n"), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, "dark", cfg.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for configuration reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
