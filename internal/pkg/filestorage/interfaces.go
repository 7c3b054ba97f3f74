package filestorage

import (
	"io"
	"mime/multipart"
)

// AssetStore stores student profile images under their sanitized original names
type AssetStore interface {
	// Save writes the uploaded image and returns the stored file name.
	// An existing file with the same name is overwritten.
	Save(fileHeader *multipart.FileHeader) (string, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(name string) error

	// Exists reports whether a stored file is present
	Exists(name string) (bool, error)

	// Open returns the stored file for reading
	Open(name string) (io.ReadSeekCloser, error)
}
