package banners

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 60, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "banners"))
	require.NoError(t, err)
	return s
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img
}

func TestWrite_SmallImageKeepsSize(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Write("news", encodePNG(t, 320, 200))
	require.NoError(t, err)
	assert.Equal(t, s.Path("news"), path)
	assert.True(t, s.Exists("news"))

	img := decodeFile(t, path)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	data, err := s.Read("news")
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestWrite_LargeImageIsShrunk(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Write("wide", encodePNG(t, 2560, 1000))
	require.NoError(t, err)

	img := decodeFile(t, path)
	assert.Equal(t, MaxSide, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestWrite_Overwrite(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Write("news", encodePNG(t, 100, 100))
	require.NoError(t, err)
	path, err := s.Write("news", encodePNG(t, 50, 40))
	require.NoError(t, err)

	img := decodeFile(t, path)
	assert.Equal(t, 50, img.Bounds().Dx())

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWrite_NotAnImage(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Write("news", []byte("definitely not an image"))
	assert.Error(t, err)
	assert.False(t, s.Exists("news"))
}

func TestInvalidNames(t *testing.T) {
	s := newTestStore(t)
	data := encodePNG(t, 10, 10)

	for _, name := range []string{"", "  ", "../evil", "a/b", `a\b`, ".."} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Write(name, data)
			assert.ErrorIs(t, err, ErrInvalidName)
			_, err = s.Read(name)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.ErrorIs(t, s.Delete(name), ErrInvalidName)
			assert.False(t, s.Exists(name))
			assert.False(t, ValidName(name))
		})
	}
	assert.True(t, ValidName("فیلم"))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Write("news", encodePNG(t, 10, 10))
	require.NoError(t, err)
	require.NoError(t, s.Delete("news"))
	assert.False(t, s.Exists("news"))

	assert.NoError(t, s.Delete("news"), "deleting a missing banner is not an error")
}

func TestRead_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read("absent")
	assert.Error(t, err)
}
