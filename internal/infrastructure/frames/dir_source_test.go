package frames

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/infrastructure/vision"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	data, err := vision.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDirSource_OrderAndEOF(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "a.PNG"), 1, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	src, err := NewDirSource(dir, entity.Leading)
	require.NoError(t, err)
	require.Equal(t, 2, src.Len())

	ctx := context.Background()
	img, hint, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.Leading, hint)
	require.Equal(t, 1, img.Bounds().Dx())
	require.Equal(t, 1, src.Remaining())

	img, _, err = src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())

	_, _, err = src.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestDirSource_BrokenFileAndCancel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("not a jpeg"), 0o644))

	src, err := NewDirSource(dir, entity.Trailing)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = src.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = src.Next(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)

	_, err = NewDirSource(filepath.Join(dir, "missing"), entity.Trailing)
	require.Error(t, err)
}
