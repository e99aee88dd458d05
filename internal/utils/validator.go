package utils

import (
	"errors"
	"mime/multipart"
	"strings"
)

var (
	errEmptyFile   = errors.New("file is empty")
	errFileTooBig  = errors.New("file size not allowed")
	errInvalidType = errors.New("invalid content type")
)

// ValidateFileHeader checks an uploaded part against a content type
// prefix ("video/", "image/") and a byte limit.
func ValidateFileHeader(h *multipart.FileHeader, typePrefix string, maxBytes int64) error {
	if h.Size == 0 {
		return errEmptyFile
	}
	if maxBytes > 0 && h.Size > maxBytes {
		return errFileTooBig
	}
	ct := h.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, typePrefix) {
		return errInvalidType
	}
	return nil
}
