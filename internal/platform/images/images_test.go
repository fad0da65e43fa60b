// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package images_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/platform/images"
)

/*
TestThumbnailURL rewrites the first images/ segment only once.
*/
func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://cdn.sunday.app/images/thumbs/a.jpg", images.ThumbnailURL("https://cdn.sunday.app/images/a.jpg"))
	assert.Equal(t, "https://cdn.sunday.app/images/thumbs/a.jpg", images.ThumbnailURL("https://cdn.sunday.app/images/thumbs/a.jpg"))
}

/*
TestFileRemover removes the original and thumbnail and tolerates missing files.
*/
func TestIsPictureURL(t *testing.T) {
	for _, valid := range []string{
		"https://cdn.sunday.app/images/a.jpg",
		"images/b.png",
	} {
		assert.True(t, images.IsPictureURL(valid), valid)
	}

	for _, invalid := range []string{
		"https://cdn.sunday.app/images/thumbs/a.jpg",
		"https://cdn.sunday.app/avatars/a.jpg",
		"https://cdn.sunday.app/images/",
		"ftp://cdn.sunday.app/images/a.jpg",
		"https://cdn.sunday.app/images/../etc/passwd",
		"%zz",
	} {
		assert.False(t, images.IsPictureURL(invalid), invalid)
	}
}

func TestFileRemover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "thumbs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "thumbs", "a.jpg"), []byte("x"), 0o644))

	remover := images.NewFileRemover(root)
	require.NoError(t, remover.RemoveImage(context.Background(), "https://cdn.sunday.app/images/a.jpg"))

	_, err := os.Stat(filepath.Join(root, "a.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "thumbs", "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	// Second removal finds nothing and still succeeds
	assert.NoError(t, remover.RemoveImage(context.Background(), "https://cdn.sunday.app/images/a.jpg"))
}

/*
TestFileRemover_InvalidURL rejects URLs without a file name.
*/
func TestFileRemover_InvalidURL(t *testing.T) {
	remover := images.NewFileRemover(t.TempDir())
	assert.Error(t, remover.RemoveImage(context.Background(), "https://cdn.sunday.app/"))
}
