package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind selects how an asset is processed and where it is filed.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

type UploadResult struct {
	URL      string
	PublicID string
	Duration float64 // seconds, zero when unknown
}

// ErrInvalidMedia marks uploads rejected because of their content, not the store.
var ErrInvalidMedia = errors.New("invalid media")

// Store is implemented by S3Store, LocalStore and BreakerStore.
type Store interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
	PlaybackURL(ctx context.Context, publicID string, ttl time.Duration) (string, error)
}

// DurationProber reports the play length of a local media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

func folderFor(kind Kind) string {
	if kind == KindImage {
		return "thumbnails"
	}
	return "videos"
}

// newKey builds "<folder>/<uuid><ext>" for a local file.
func newKey(localPath string, kind Kind) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if kind == KindImage {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s%s", folderFor(kind), uuid.NewString(), ext)
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

func contentTypeFor(key string, kind Kind) string {
	if kind == KindImage {
		return "image/jpeg"
	}
	if ct, ok := videoTypes[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
