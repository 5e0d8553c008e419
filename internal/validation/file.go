package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// PhotoConstraints defines validation rules for photo uploads
type PhotoConstraints struct {
	MimePrefix string
	MaxSize    int64
}

// ImageConstraints accepts any image type up to 10MB
var ImageConstraints = PhotoConstraints{
	MimePrefix: "image/",
	MaxSize:    10 << 20, // 10MB
}

// ValidatePhoto validates an uploaded photo against the given constraints.
// The content type is detected from the file's leading bytes, not from the
// client-supplied header, so it cannot be faked by renaming a file.
func ValidatePhoto(header *multipart.FileHeader, constraints PhotoConstraints) error {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Read first 512 bytes for magic number detection
	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(detectedType, constraints.MimePrefix) {
		return fmt.Errorf("invalid file type (detected: %s): only image files are allowed", detectedType)
	}

	return nil
}
