package attachment

import (
	"bytes"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	thumbnailMaxEdge = 320
	thumbnailQuality = 80
)

// Thumbnailer downscales images for list views. Output is always JPEG.
type Thumbnailer struct {
	maxEdge int
	quality int
}

func NewThumbnailer() *Thumbnailer {
	return &Thumbnailer{maxEdge: thumbnailMaxEdge, quality: thumbnailQuality}
}

// FromImage decodes the source, fits it inside the thumbnail bounding box
// and re-encodes it as JPEG.
func (t *Thumbnailer) FromImage(r io.Reader) ([]byte, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	thumb := imaging.Fit(src, t.maxEdge, t.maxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, errors.Wrap(err, "encode thumbnail")
	}
	return buf.Bytes(), nil
}
