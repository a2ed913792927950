package files

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"chat-backend/internal/config"
	"chat-backend/internal/models"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := NewStore(fs, config.UploadConfig{
		Directory: "uploads",
		MaxSize:   1024,
		URLPrefix: "/uploads/",
	})
	require.NoError(t, err)
	return store, fs
}

func TestSaveStoresContentAndMeta(t *testing.T) {
	store, fs := newTestStore(t)

	meta, err := store.Save(strings.NewReader("png-bytes"), "cat picture.png", "image/png", 9)
	require.NoError(t, err)

	require.Equal(t, models.TypeImage, meta.Type)
	require.Equal(t, "cat picture.png", meta.OriginalName)
	require.EqualValues(t, 9, meta.Size)
	require.Equal(t, "image/png", meta.MimeType)
	require.True(t, strings.HasPrefix(meta.URL, "/uploads/"))
	require.True(t, strings.HasSuffix(meta.Filename, ".png"))
	// The space in the original name must not survive sanitization.
	require.NotContains(t, meta.Filename, " ")

	content, err := afero.ReadFile(fs, "uploads/"+meta.Filename)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(content))
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(strings.NewReader("#!/bin/sh"), "evil.sh", "application/x-sh", 9)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsDeclaredOversize(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(strings.NewReader("x"), "big.png", "image/png", 2048)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveRejectsActualOversizeStream(t *testing.T) {
	store, fs := newTestStore(t)

	// Declared small but the stream exceeds the limit.
	big := strings.Repeat("x", 2048)
	_, err := store.Save(strings.NewReader(big), "sneaky.png", "image/png", 10)
	require.ErrorIs(t, err, ErrTooLarge)

	// Nothing may be left behind.
	entries, err := afero.ReadDir(fs, "uploads")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	store, fs := newTestStore(t)

	meta, err := store.Save(strings.NewReader("data"), "doc.pdf", "application/pdf", 4)
	require.NoError(t, err)

	require.NoError(t, store.Remove(meta.Filename))
	exists, err := afero.Exists(fs, "uploads/"+meta.Filename)
	require.NoError(t, err)
	require.False(t, exists)

	// Removing a missing file is not an error.
	require.NoError(t, store.Remove(meta.Filename))
}

func TestRemoveRejectsPathComponents(t *testing.T) {
	store, _ := newTestStore(t)
	require.Error(t, store.Remove("../configs/config.yaml"))
}

func TestTypeForMime(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      models.TypeImage,
		"video/webm":      models.TypeVideo,
		"audio/mpeg":      models.TypeAudio,
		"application/pdf": models.TypeFile,
		"text/plain":      models.TypeFile,
		"application/zip": "",
	}
	for mime, want := range cases {
		require.Equal(t, want, TypeForMime(mime), mime)
	}
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512 B", FormatSize(512))
	require.Equal(t, "1.5 KB", FormatSize(1536))
	require.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}
