package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// Thumbnailer produces bounded JPEG thumbnails from uploaded images.
type Thumbnailer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewThumbnailer returns a Thumbnailer with the default bounding box.
func NewThumbnailer() *Thumbnailer {
	return &Thumbnailer{
		MaxWidth:  320,
		MaxHeight: 320,
		Quality:   80,
	}
}

// Thumbnail decodes the source image, fits it inside the bounding box while
// preserving aspect ratio, and returns the result encoded as JPEG.
func (t *Thumbnailer) Thumbnail(content io.Reader) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fit(img, t.MaxWidth, t.MaxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: t.Quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf, nil
}
