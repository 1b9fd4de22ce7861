package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/layerviz/internal/scheme"
)

func setupTestBadgerBackend(t *testing.T) (*BadgerBackend, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "badger")

	backend := NewBadgerBackend()
	require.NoError(t, backend.Initialize(dbPath, false))
	t.Cleanup(func() { _ = backend.Close() })

	return backend, dbPath
}

func TestBadgerBackend_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		backend, _ := setupTestBadgerBackend(t)

		assert.NotNil(t, backend.db)
		assert.True(t, backend.initialized)
	})

	t.Run("ReadOnly", func(t *testing.T) {
		t.Parallel()
		dbPath := filepath.Join(t.TempDir(), "badger")

		// First create the DB.
		writer := NewBadgerBackend()
		require.NoError(t, writer.Initialize(dbPath, false))
		require.NoError(t, writer.SaveScheme(context.Background(), &SchemeRecord{Name: "ocean", Scheme: scheme.Dark()}))
		require.NoError(t, writer.Close())

		reader := NewBadgerBackend()
		require.NoError(t, reader.Initialize(dbPath, true))
		defer reader.Close()

		names, err := reader.ListSchemes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ocean"}, names)

		err = reader.SaveScheme(context.Background(), &SchemeRecord{Name: "forest"})
		assert.True(t, errors.Is(err, ErrReadOnly))

		_, err = reader.DeleteScheme(context.Background(), "ocean")
		assert.True(t, errors.Is(err, ErrReadOnly))
	})
}

func TestBadgerBackend_Contract(t *testing.T) {
	t.Parallel()

	backend, _ := setupTestBadgerBackend(t)
	backendContract(t, backend)
}

func TestBadgerBackend_Persistence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend, dbPath := setupTestBadgerBackend(t)
	custom := scheme.Light()
	custom.RNN = "gold"
	require.NoError(t, backend.SaveScheme(ctx, &SchemeRecord{Name: "golden", Base: scheme.PresetLight, Scheme: custom}))
	require.NoError(t, backend.Close())

	reopened := NewBadgerBackend()
	require.NoError(t, reopened.Initialize(dbPath, false))
	defer reopened.Close()

	got, err := reopened.GetScheme(ctx, "golden")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, custom, got.Scheme)
	assert.Equal(t, scheme.PresetLight, got.Base)
}

func TestBadgerBackend_NotInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := NewBadgerBackend()

	_, err := backend.GetScheme(ctx, "x")
	assert.True(t, errors.Is(err, ErrNotInitialized))

	_, err = backend.ListSchemes(ctx)
	assert.True(t, errors.Is(err, ErrNotInitialized))

	err = backend.SaveScheme(ctx, &SchemeRecord{Name: "x"})
	assert.True(t, errors.Is(err, ErrNotInitialized))

	assert.NoError(t, backend.Close())
}

func TestBadgerBackend_ListCanceled(t *testing.T) {
	t.Parallel()

	backend, _ := setupTestBadgerBackend(t)
	require.NoError(t, backend.SaveScheme(context.Background(), &SchemeRecord{Name: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.ListSchemes(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
