package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LocalStore keeps media on the local filesystem under BasePath and serves
// it from BaseURL (the app mounts BasePath as a static route).
type LocalStore struct {
	BasePath string
	BaseURL  string
	prober   DurationProber
	logger   *zap.SugaredLogger
}

func NewLocalStore(basePath, baseURL string, prober DurationProber, logger *zap.SugaredLogger) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{BasePath: basePath, BaseURL: strings.TrimRight(baseURL, "/"), prober: prober, logger: logger}, nil
}

func (l *LocalStore) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	key := newKey(localPath, kind)
	full := filepath.Join(l.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	res := &UploadResult{PublicID: key, URL: l.BaseURL + "/" + key}

	if kind == KindImage {
		data, err := normalizeThumbnail(localPath)
		if err != nil {
			return nil, fmt.Errorf("decode thumbnail: %w", err)
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", key, err)
		}
		return res, nil
	}

	if err := copyFile(localPath, full); err != nil {
		return nil, err
	}
	if l.prober != nil {
		d, err := l.prober.Duration(ctx, localPath)
		if err != nil && l.logger != nil {
			l.logger.Warnw("duration probe failed", "path", localPath, "err", err)
		}
		res.Duration = d
	}
	return res, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return out.Close()
}

// Delete removes the stored object; a missing object is not an error.
func (l *LocalStore) Delete(_ context.Context, publicID string, _ Kind) error {
	full := filepath.Join(l.BasePath, filepath.FromSlash(filepath.Clean("/"+publicID)))
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", publicID, err)
	}
	return nil
}

func (l *LocalStore) PlaybackURL(_ context.Context, publicID string, _ time.Duration) (string, error) {
	return l.BaseURL + "/" + publicID, nil
}
