package validation

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/dustin/go-humanize"
)

const (
	MaxImageSize      = 5 * 1024 * 1024 // 5MB
	MaxFilenameLength = 255
	sniffLen          = 512
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type - only jpeg, png, webp, gif allowed")
	ErrFilenameTooLong = errors.New("filename too long - maximum 255 characters")
	ErrEmptyFile       = errors.New("file is empty")
	ErrCorruptImage    = errors.New("image could not be decoded")
)

var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateUpload checks the multipart header before any bytes are read.
// maxSize <= 0 means MaxImageSize.
func ValidateUpload(fileHeader *multipart.FileHeader, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}

	if fileHeader.Size == 0 {
		return ErrEmptyFile
	}

	if fileHeader.Size > maxSize {
		return TooLarge(maxSize)
	}

	if len(fileHeader.Filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}

	contentType := fileHeader.Header.Get("Content-Type")

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = guessContentType(fileHeader.Filename)
	}

	if !AllowedMimeTypes[contentType] {
		return ErrInvalidFileType
	}

	return nil
}

// TooLarge wraps ErrFileTooLarge with the configured limit.
func TooLarge(maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	return fmt.Errorf("%w - maximum %s allowed", ErrFileTooLarge, humanize.IBytes(uint64(maxSize)))
}

// ValidateExtension rejects a filename whose extension names a different
// type than the sniffed contentType. A name without extension is accepted.
func ValidateExtension(filename, contentType string) error {
	if !strings.Contains(filename, ".") {
		return nil
	}
	if guessContentType(filename) != contentType {
		return ErrInvalidFileType
	}
	return nil
}

// DetectImage sniffs the real content type of file and verifies that the
// image header decodes. The reader is rewound before returning.
func DetectImage(file io.ReadSeeker) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyFile
	}

	contentType := http.DetectContentType(head[:n])
	if !AllowedMimeTypes[contentType] {
		return "", ErrInvalidFileType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if contentType == "image/webp" {
		_, err = webp.DecodeConfig(file)
	} else {
		_, _, err = image.DecodeConfig(file)
	}
	if err != nil {
		return "", ErrCorruptImage
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return contentType, nil
}

func guessContentType(filename string) string {

	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return "application/octet-stream"
	}

	ext := strings.ToLower(filename[idx+1:])

	typeMap := map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"webp": "image/webp",
		"gif":  "image/gif",
	}

	if ct, ok := typeMap[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}
