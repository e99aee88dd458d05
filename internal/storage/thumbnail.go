package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/disintegration/imaging"
)

const (
	thumbMaxWidth  = 1280
	thumbMaxHeight = 720
)

// normalizeThumbnail decodes an image file (honouring EXIF orientation),
// fits it inside 1280x720 and re-encodes it as JPEG.
func normalizeThumbnail(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidMedia, err)
	}
	b := img.Bounds()
	if b.Dx() > thumbMaxWidth || b.Dy() > thumbMaxHeight {
		img = imaging.Fit(img, thumbMaxWidth, thumbMaxHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
