// Package loader decodes image files into pixel buffers.
package loader

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/fabienbrocklesby/image2gcode/internal/errdefs"
	"github.com/fabienbrocklesby/image2gcode/internal/pixel"
)

// Load decodes the image at path into an RGB buffer. Transparent areas become
// white. Every failure is reported as errdefs.ErrDecode.
func Load(path string) (*pixel.RGB, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return pixel.FromImage(img), nil
}

// Decode reads path and picks a decoder from the file extension, falling back
// to content sniffing for unknown extensions.
func Decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.Decode(path, err)
	}

	img, err := decode(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return nil, errdefs.Decode(path, err)
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, errdefs.Decode(path, errors.New("image has no pixels"))
	}
	return img, nil
}

func decode(ext string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch ext {
	case ".svg":
		return decodeSVG(data)
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	case ".webp":
		return webp.Decode(r)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Join(errors.New("unsupported image format: "+ext), err)
	}
	return img, nil
}
