// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrForeignURL is returned by Delete for URLs this storage did not issue.
	ErrForeignURL = errors.New("url does not belong to this storage")
	// ErrUnsupportedType is returned by Upload for content types it cannot store.
	ErrUnsupportedType = errors.New("unsupported image content type")
)

// extensions maps a sniffed content type to the extension files are stored
// under. The client's file name never decides how a file is served.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStorage is the only interface the upload handler depends on.
// Swap the implementation in main.go; handler code never changes.
type ImageStorage interface {
	Upload(ctx context.Context, file io.Reader, filename string, contentType string) (string, error)
	// Delete is best-effort; callers log failures and carry on.
	Delete(ctx context.Context, fileURL string) error
}

// ── Local Storage ─────────────────────────────────────────────────────────────

type LocalStorage struct {
	UploadDir string
	BaseURL   string // e.g. "http://localhost:8083"
}

func NewLocalStorage(uploadDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{UploadDir: uploadDir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores file under a fresh uuid name with the extension of
// contentType. The client's filename plays no part in the stored name.
func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, filename string, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	safeFilename := uuid.New().String() + ext

	filePath := filepath.Join(s.UploadDir, safeFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, safeFilename), nil
}

// Delete removes a file previously returned by Upload. Files that are
// already gone count as deleted.
func (s *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	name, err := s.fileName(fileURL)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// fileName extracts the stored file name from a URL issued by Upload.
func (s *LocalStorage) fileName(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignURL, err)
	}
	if !strings.HasPrefix(fileURL, s.BaseURL+"/uploads/") {
		return "", ErrForeignURL
	}
	name := path.Base(u.Path)
	base := strings.TrimSuffix(name, path.Ext(name))
	if _, err := uuid.Parse(base); err != nil {
		return "", ErrForeignURL
	}
	return name, nil
}
