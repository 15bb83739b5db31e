package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/apperr"
	"muru-backend/internal/config"
)

// 1x1 투명 PNG
var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func newTestUploader(t *testing.T) (*Uploader, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.UploadConfig{
		MaxFileSizeMB:     10,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		UploadPath:        "Uploads",
		ContentRoot:       root,
	}
	return NewUploader(NewLocal(root), cfg), root
}

func fileOf(name string, body []byte) File {
	return File{OriginalName: name, ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestRejectsUnsupportedExtension(t *testing.T) {
	u, _ := newTestUploader(t)

	_, err := u.Store(context.Background(), fileOf("setup.exe", []byte("MZ")))
	assert.ErrorIs(t, err, apperr.ErrUnsupportedType)

	_, err = u.Store(context.Background(), fileOf("noext", []byte("x")))
	assert.ErrorIs(t, err, apperr.ErrUnsupportedType)
}

func TestRejectsDeclaredOversize(t *testing.T) {
	u, _ := newTestUploader(t)

	f := File{OriginalName: "huge.png", Size: 50 * 1024 * 1024, Body: strings.NewReader("")}
	_, err := u.Store(context.Background(), f)
	assert.ErrorIs(t, err, apperr.ErrTooLarge)
}

func TestRejectsLyingSize(t *testing.T) {
	u, root := newTestUploader(t)

	body := io.LimitReader(zeroReader{}, 11*1024*1024)
	_, err := u.Store(context.Background(), File{OriginalName: "liar.png", Size: 10, Body: body})
	assert.ErrorIs(t, err, apperr.ErrTooLarge)

	entries, _ := os.ReadDir(filepath.Join(root, "Uploads"))
	assert.Empty(t, entries)
}

func TestRejectsEmpty(t *testing.T) {
	u, _ := newTestUploader(t)

	_, err := u.Store(context.Background(), fileOf("empty.png", nil))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStoresAcceptedFile(t *testing.T) {
	u, root := newTestUploader(t)
	body := bytes.Repeat([]byte{0xAB}, 2*1024*1024)

	up, err := u.Store(context.Background(), fileOf("Beach.PNG", body))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.Path, "Uploads/"))
	assert.True(t, strings.HasSuffix(up.FileName, ".png"))
	assert.Equal(t, "Uploads/"+up.FileName, up.Path)
	assert.Equal(t, "Beach.PNG", up.OriginalFileName)
	assert.Equal(t, int64(len(body)), up.Size)
	assert.Equal(t, "image/png", up.ContentType)
	assert.True(t, u.IsReference(up.Path))

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(up.Path)))
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}

func TestNamesAreUnique(t *testing.T) {
	u, _ := newTestUploader(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		up, err := u.Store(context.Background(), fileOf("same.png", pngPixel))
		require.NoError(t, err)
		assert.False(t, seen[up.Path], up.Path)
		seen[up.Path] = true
	}
}

func TestStoreProfileImage(t *testing.T) {
	u, _ := newTestUploader(t)

	up, err := u.StoreProfileImage(context.Background(), 7, fileOf("me.jpg", pngPixel))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Path, "Uploads/ProfileImages/7_"), up.Path)
	assert.True(t, strings.HasSuffix(up.Path, ".jpg"), up.Path)
}

func TestIsReference(t *testing.T) {
	u, _ := newTestUploader(t)

	assert.True(t, u.IsReference("Uploads/abc.png"))
	assert.True(t, u.IsReference("Uploads/ProfileImages/1_abc.png"))
	assert.False(t, u.IsReference(""))
	assert.False(t, u.IsReference("Uploads/../secret"))
	assert.False(t, u.IsReference("/etc/passwd"))
	assert.False(t, u.IsReference("https://elsewhere.test/a.png"))
}

func TestLocalRefusesOverwrite(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, l.Save(ctx, "Uploads/a.png", strings.NewReader("one"), 3, "image/png"))
	assert.Error(t, l.Save(ctx, "Uploads/a.png", strings.NewReader("two"), 3, "image/png"))

	got, err := os.ReadFile(filepath.Join(l.Root(), "Uploads", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
}

func TestDecodeImageData(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngPixel)

	f, err := DecodeImageData("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, "profile.png", f.OriginalName)
	assert.Equal(t, int64(len(pngPixel)), f.Size)

	f, err = DecodeImageData(encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)

	_, err = DecodeImageData("")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = DecodeImageData("data:image/png,plain")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = DecodeImageData("%%%not base64%%%")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = DecodeImageData(base64.StdEncoding.EncodeToString([]byte("just some text")))
	assert.ErrorIs(t, err, apperr.ErrUnsupportedType)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
