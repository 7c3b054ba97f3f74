package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

// pngHeader is enough of a PNG for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="profile_image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["profile_image"], 1)
	return form.File["profile_image"][0]
}

func TestLocalStorageSaveOverwritesSameName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "my pic.png", append(pngHeader, 'a')))
	require.NoError(t, err)
	assert.Equal(t, "my_pic.png", name)

	name, err = store.Save(fileHeader(t, "my pic.png", append(pngHeader, 'b')))
	require.NoError(t, err)
	assert.Equal(t, "my_pic.png", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, byte('b'), data[len(data)-1])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorageRejectsNonImage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = store.Save(fileHeader(t, "漢字", pngHeader))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLocalStorageDeleteExistsOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "avatar.png", pngHeader))
	require.NoError(t, err)

	ok, err := store.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	f, err := store.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, pngHeader, data)

	require.NoError(t, store.Delete(name))
	ok, err = store.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	require.NoError(t, store.Delete(name))

	_, err = store.Open(name)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../go.mod")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorIs(t, store.Delete("a/b"), apperrors.ErrValidationFailed)
}

func TestLocalStorageDotRunInName(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "photo..png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "photo..png", name)

	f, err := store.Open(name)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.Delete(name))
	ok, err := store.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)
}
