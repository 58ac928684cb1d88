package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

func sampleDocument(name string) *Document {
	return &Document{
		Name: name,
		State: types.State{
			Canvas: []types.ObjectRecord{{Properties: types.Properties{
				Name: types.KindText,
				Type: types.TypeText,
				Data: types.ObjectData{ID: "obj_1"},
				Text: "Double click to edit",
			}}},
			Editor:       types.EditorMeta{Fonts: []types.FontItem{}},
			CanvasWidth:  800,
			CanvasHeight: 600,
		},
	}
}

type storeFactory func(t *testing.T) Store

func storeFactories() map[string]storeFactory {
	files := func(compression string) storeFactory {
		return func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir(), compression)
			require.NoError(t, err)
			return s
		}
	}
	return map[string]storeFactory{
		"file/none": files(CompressionNone),
		"file/gzip": files(CompressionGzip),
		"file/zstd": files(CompressionZstd),
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(":memory:")
			require.NoError(t, err)
			return s
		},
	}
}

func TestStores(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			defer s.Close()

			doc := sampleDocument("")
			require.NoError(t, s.Save(ctx, doc))
			assert.True(t, id.HasPrefix(doc.ID.String(), id.DocumentPrefix))
			assert.Equal(t, "untitled", doc.Name)
			assert.False(t, doc.CreatedAt.IsZero())

			loaded, err := s.Load(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, doc.ID, loaded.ID)
			assert.Equal(t, doc.State, loaded.State)

			time.Sleep(2 * time.Millisecond)
			second := sampleDocument("poster")
			require.NoError(t, s.Save(ctx, second))

			infos, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 2)
			assert.Equal(t, second.ID, infos[0].ID)
			assert.Equal(t, "poster", infos[0].Name)
			assert.Positive(t, infos[0].Size)

			created := doc.CreatedAt
			doc.Name = "renamed"
			time.Sleep(2 * time.Millisecond)
			require.NoError(t, s.Save(ctx, doc))
			assert.Equal(t, created, doc.CreatedAt)

			infos, err = s.List(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 2)
			assert.Equal(t, "renamed", infos[0].Name)

			require.NoError(t, s.Delete(ctx, doc.ID))
			_, err = s.Load(ctx, doc.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, doc.ID), ErrNotFound)
		})
	}
}

func TestFileStoreSwitchingCompression(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	plain, err := NewFileStore(dir, CompressionNone)
	require.NoError(t, err)
	doc := sampleDocument("layers")
	require.NoError(t, plain.Save(ctx, doc))

	zst, err := NewFileStore(dir, CompressionZstd)
	require.NoError(t, err)
	loaded, err := zst.Load(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "layers", loaded.Name)

	require.NoError(t, zst.Save(ctx, loaded))
	_, err = os.Stat(filepath.Join(dir, doc.ID.String()+".json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	infos, err := zst.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestFileStoreRejectsForeignIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Load(context.Background(), id.DocumentID("../etc/passwd"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreUnsupportedCompression(t *testing.T) {
	_, err := NewFileStore(t.TempDir(), "brotli")
	assert.Error(t, err)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, CompressionNone)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc_broken.json"), []byte("{"), 0o644))

	infos, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}
