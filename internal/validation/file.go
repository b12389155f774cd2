package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints applies to recipe pictures.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
	MaxSize: 5 << 20,
}

// ValidateFile checks size, sniffed content type and extension of an upload.
// The content type is detected from the file's magic number, not the header
// the browser sent.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) error {
	if header.Size > constraints.MaxSize {
		return fmt.Errorf("file too large: maximum size is %d MB", constraints.MaxSize/(1<<20))
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detected := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detected] {
		return fmt.Errorf("invalid file type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
