package filestorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

var _ AssetStore = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("%w: failed to create storage directory %s: %w", apperrors.ErrStorage, basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// BasePath returns the storage root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save stores the uploaded image under its sanitized file name
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", apperrors.NewRequiredFieldError("profile_image")
	}

	name := SanitizeFilename(fileHeader.Filename)
	if name == "" {
		return "", apperrors.NewValidationError("profile_image", "Invalid image file name.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("%w: failed to open uploaded file: %w", apperrors.ErrStorage, err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read uploaded file: %w", apperrors.ErrStorage, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperrors.NewValidationError("profile_image", "Uploaded file must be an image.").(*apperrors.CustomError).
			WithDetails(map[string]interface{}{"detectedType": mtype.String()})
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: failed to rewind uploaded file: %w", apperrors.ErrStorage, err)
	}

	dstPath := filepath.Join(ls.basePath, name)
	tmp, err := os.CreateTemp(ls.basePath, ".upload-*")
	if err != nil {
		logger.Error().Err(err).Str("dir", ls.basePath).Msg("Failed to create temporary file")
		return "", fmt.Errorf("%w: failed to create file: %w", apperrors.ErrStorage, err)
	}
	tmpPath := tmp.Name()

	if _, err = io.Copy(tmp, file); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("%w: failed to save file content: %w", apperrors.ErrStorage, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to save file content: %w", apperrors.ErrStorage, err)
	}
	if err = os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move uploaded file into place")
		return "", fmt.Errorf("%w: failed to save file: %w", apperrors.ErrStorage, err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Str("mime", mtype.String()).Msg("File saved successfully")
	return name, nil
}

// Delete removes a stored file
func (ls *LocalStorage) Delete(name string) error {
	path, err := ls.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("%w: failed to delete %s: %w", apperrors.ErrStorage, name, err)
	}
	logger.Info().Str("filename", name).Msg("File deleted")
	return nil
}

// Exists reports whether the file is present in storage
func (ls *LocalStorage) Exists(name string) (bool, error) {
	path, err := ls.resolve(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to stat %s: %w", apperrors.ErrStorage, name, err)
	}
	return info.Mode().IsRegular(), nil
}

// Open opens a stored file for reading
func (ls *LocalStorage) Open(name string) (io.ReadSeekCloser, error) {
	path, err := ls.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewResourceNotFoundError("File not found.")
		}
		return nil, fmt.Errorf("%w: failed to open %s: %w", apperrors.ErrStorage, name, err)
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		f.Close()
		return nil, apperrors.NewResourceNotFoundError("File not found.")
	}
	return f, nil
}

// resolve maps a stored file name to its path, rejecting anything that is
// not a plain base name inside the storage root
func (ls *LocalStorage) resolve(name string) (string, error) {
	if !IsPlainName(name) {
		return "", apperrors.NewValidationError("filename", "Invalid file name.")
	}
	return filepath.Join(ls.basePath, name), nil
}

// IsPlainName reports whether name is a single path element with no traversal
func IsPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}
