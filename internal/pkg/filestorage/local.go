package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

// LocalStorage implements file storage on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local file storage instance
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath stores an uploaded file under the given subdirectory and
// returns the public URL. Filenames are replaced with a uuid to avoid
// collisions and path tricks in user-supplied names.
func (s *LocalStorage) SaveFileWithPath(file *multipart.FileHeader, subPath string) (string, error) {
	ext := filepath.Ext(file.Filename)
	fileName := uuid.New().String() + strings.ToLower(ext)

	dirPath := filepath.Join(s.basePath, subPath)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(dirPath, fileName)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.baseURL + "/uploads/" + filepath.ToSlash(filepath.Join(subPath, fileName)), nil
}

// SaveFile stores an uploaded file in the storage root
func (s *LocalStorage) SaveFile(file *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(file, "")
}

// DeleteFile removes a previously stored file given its public URL. Unknown
// or already-removed files are not treated as errors.
func (s *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	idx := strings.Index(fileURL, "/uploads/")
	if idx < 0 {
		logger.Warn().Str("fileURL", fileURL).Msg("Cannot resolve file URL to a local path")
		return nil
	}

	relPath := strings.TrimPrefix(fileURL[idx:], "/uploads/")
	localPath := filepath.Join(s.basePath, filepath.FromSlash(relPath))

	// Keep deletions inside the storage root
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(localPath)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(absTarget, absBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete file outside storage root: %s", fileURL)
	}

	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// BasePath returns the storage root directory
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
