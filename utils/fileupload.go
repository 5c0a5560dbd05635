package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxIconFileSize is 2MB in bytes; catalog icons are small images
	MaxIconFileSize = 2 * 1024 * 1024
)

// allowedIconFormats maps accepted icon file extensions to their MIME types
var allowedIconFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateIconFile validates an uploaded icon's format and size
func ValidateIconFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxIconFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxIconFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedIconFormats[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG, JPG, SVG and WebP files are allowed",
		}
	}

	return nil
}

// IconContentType returns the MIME type for an accepted icon filename,
// falling back to a generic binary type
func IconContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := allowedIconFormats[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}
